package api

import (
	"net/http"

	"github.com/notes-saas/notes-server/internal/models"
	"github.com/notes-saas/notes-server/internal/plans"
)

// HandleUpgradeTenant upgrades the acting admin's tenant to the pro
// plan. Idempotent; repeating reports already_pro.
func (s *RESTServer) HandleUpgradeTenant(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	tenant := tenantFromContext(r.Context())

	result, err := s.plans.Upgrade(r.Context(), tenant)
	if err != nil {
		s.respondInternalError(w, err)
		return
	}

	if result.Status == plans.StatusUpgraded {
		s.recorder.Record(r.Context(), tenant, claims.UserID, models.EventTypePlanUpgraded,
			"Plan upgraded to pro", nil)
	}

	s.respondJSON(w, http.StatusOK, result)
}

// HandleDowngradeTenant downgrades the acting admin's tenant to the
// free plan. Notes above the free cap are kept; the cap only applies
// to new creates.
func (s *RESTServer) HandleDowngradeTenant(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	tenant := tenantFromContext(r.Context())

	result, err := s.plans.Downgrade(r.Context(), tenant)
	if err != nil {
		s.respondInternalError(w, err)
		return
	}

	if result.Status == plans.StatusDowngraded {
		s.recorder.Record(r.Context(), tenant, claims.UserID, models.EventTypePlanDowngraded,
			"Plan downgraded to free", nil)
	}

	s.respondJSON(w, http.StatusOK, result)
}
