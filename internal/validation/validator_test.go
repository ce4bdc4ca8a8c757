package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type inviteRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=admin member"`
}

func TestValidateRequired(t *testing.T) {
	v := NewValidator()

	err := v.Validate(inviteRequest{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Email")

	err = v.Validate(inviteRequest{Email: "user@acme.test", Role: "member"})
	assert.NoError(t, err)
}

func TestValidateEmail(t *testing.T) {
	v := NewValidator()

	err := v.Validate(inviteRequest{Email: "not-an-email", Role: "member"})
	assert.Error(t, err)
}

func TestValidateOneOf(t *testing.T) {
	v := NewValidator()

	err := v.Validate(inviteRequest{Email: "user@acme.test", Role: "owner"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "one of")
}

func TestValidateMax(t *testing.T) {
	v := NewValidator()

	type req struct {
		Title string `validate:"required,max=5"`
	}

	assert.NoError(t, v.Validate(req{Title: "ok"}))
	assert.Error(t, v.Validate(req{Title: "way too long"}))
}

func TestValidateNonStruct(t *testing.T) {
	v := NewValidator()
	assert.Error(t, v.Validate("not a struct"))
}

func TestValidatePointer(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(&inviteRequest{Email: "user@acme.test", Role: "admin"}))
}
