package api

import (
	"github.com/go-playground/validator/v10"
)

// FlagValidator plugs go-playground/validator into echo's Validate.
type FlagValidator struct {
	Validator *validator.Validate
}

func (v *FlagValidator) Validate(i interface{}) error {
	return v.Validator.Struct(i)
}
