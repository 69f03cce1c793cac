package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Email   string `json:"email" validate:"required,email"`
	Horizon int    `json:"horizon" validate:"oneof=3 6 12"`
}

func TestValidate_ReportsJSONNames(t *testing.T) {
	errs := Validate(sample{Email: "nope", Horizon: 5})

	assert.Equal(t, "email", errs["email"])
	assert.Equal(t, "oneof=3 6 12", errs["horizon"])
}

func TestValidate_OK(t *testing.T) {
	assert.Nil(t, Validate(sample{Email: "a@b.co", Horizon: 6}))
}

func TestVar(t *testing.T) {
	assert.True(t, Var("xlsx", "oneof=xlsx csv"))
	assert.False(t, Var("pdf", "oneof=xlsx csv"))
}
