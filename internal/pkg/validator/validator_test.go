package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
}

func TestValidate_UsesJSONNames(t *testing.T) {
	errs := Validate(sample{Email: "not-an-email"})
	assert.Equal(t, map[string]string{"email": "email", "name": "required"}, errs)
	assert.Equal(t, []string{"email", "name"}, Fields(errs))
}

func TestValidate_OK(t *testing.T) {
	assert.Nil(t, Validate(sample{Email: "a@b.co", Name: "x"}))
	assert.True(t, Var("a@b.co", "required,email"))
	assert.False(t, Var("a@", "required,email"))
}
