package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/notes-saas/notes-server/internal/models"
	"github.com/notes-saas/notes-server/internal/storage"
	"github.com/notes-saas/notes-server/pkg/crypto"
)

// ========== Auth handlers ==========

// HandleLogin handles user login
func (s *RESTServer) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		s.respondError(w, http.StatusBadRequest, "email and password required")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if !s.auth.VerifyPassword(req.Password, user.PasswordHash) {
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	// The tenant record enriches the token and the response; a missing
	// row is tolerated here and caught per request by the middleware.
	var tenantSlug string
	tenant, err := s.store.GetTenant(r.Context(), user.TenantID)
	if err == nil {
		tenantSlug = tenant.Slug
	}

	token, err := s.auth.GenerateToken(user, tenantSlug)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.store.UpdateUser(r.Context(), user); err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("Failed to record login time")
	}

	s.recorder.Record(r.Context(), tenant, user.ID, models.EventTypeLogin,
		"User logged in", models.Variables{"email": user.Email})

	resp := map[string]interface{}{
		"token": token,
		"role":  user.Role,
	}
	if tenant != nil {
		resp["tenant"] = map[string]interface{}{
			"slug": tenant.Slug,
			"plan": tenant.Plan,
			"name": tenant.Name,
		}
	}

	s.respondJSON(w, http.StatusOK, resp)
}

// ========== User handlers ==========

// HandleInviteUser invites a user into the acting admin's tenant. The
// invited account starts with the shared demo credential.
func (s *RESTServer) HandleInviteUser(w http.ResponseWriter, r *http.Request) {
	tenant := tenantFromContext(r.Context())

	var req struct {
		Email string `json:"email" validate:"required,email"`
		Role  string `json:"role" validate:"required,oneof=admin member"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Role == "" {
		s.respondError(w, http.StatusBadRequest, "email and role required")
		return
	}

	if !models.Role(req.Role).Valid() {
		s.respondError(w, http.StatusBadRequest, "invalid role")
		return
	}

	if err := s.validator.Validate(req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := crypto.HashPassword(storage.DemoPassword)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to invite user")
		return
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.Role(req.Role),
		TenantID:     tenant.ID,
	}

	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			s.respondError(w, http.StatusBadRequest, "email already exists")
			return
		}
		s.respondError(w, http.StatusInternalServerError, "failed to invite user")
		return
	}

	claims := claimsFromContext(r.Context())
	s.recorder.Record(r.Context(), tenant, claims.UserID, models.EventTypeUserInvited,
		"User invited", models.Variables{"email": user.Email, "role": string(user.Role)})

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":    user.ID,
		"email": user.Email,
		"role":  user.Role,
	})
}

// HandleListUsers lists the tenant's users
func (s *RESTServer) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	tenant := tenantFromContext(r.Context())
	limit, offset := parsePagination(r)

	users, total, err := s.store.ListUsers(r.Context(), tenant.ID, limit, offset)
	if err != nil {
		s.respondInternalError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"total": total,
	})
}

// HandleGetCurrentUser gets the acting user
func (s *RESTServer) HandleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	user, err := s.store.GetUser(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		s.respondInternalError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, user)
}

// ========== Event handlers ==========

// HandleListEvents lists the tenant's audit events
func (s *RESTServer) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	tenant := tenantFromContext(r.Context())
	limit, offset := parsePagination(r)

	filters := storage.EventLogFilters{TenantID: &tenant.ID}
	if t := r.URL.Query().Get("type"); t != "" {
		eventType := models.EventType(t)
		filters.Type = &eventType
	}

	events, total, err := s.store.ListEventLogs(r.Context(), filters, limit, offset)
	if err != nil {
		s.respondInternalError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"total":  total,
	})
}

// ========== System handlers ==========

// HandleHealth health check handler
func (s *RESTServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// HandleRoot root handler
func (s *RESTServer) HandleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": s.config.Server.Name,
		"version": s.config.Server.Version,
		"health":  "/api/v1/health",
	})
}

// ========== Helper functions ==========

// respondJSON responds with JSON
func (s *RESTServer) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

// respondError responds with an error body
func (s *RESTServer) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondInternalError logs the cause server-side and responds with an
// opaque 500; infrastructure details never reach the client.
func (s *RESTServer) respondInternalError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("Request failed")
	s.respondError(w, http.StatusInternalServerError, "internal error")
}

// parsePagination parses limit/offset query parameters
func parsePagination(r *http.Request) (int, int) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit == 0 {
		limit = 20
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}
