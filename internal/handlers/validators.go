package handlers

import (
	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// registerValidations installs custom binding validations on gin's
// validator engine. Safe to call more than once.
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("sourcetype", func(fl validator.FieldLevel) bool {
		return domain.SourceType(fl.Field().String()).Valid()
	})
}
