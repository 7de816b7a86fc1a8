package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var maxCommissionRate = decimal.NewFromInt(100)

// commissionRate validates that a decimal percentage lies within [0, 100].
// The binding validator has no numeric operators for decimal.Decimal,
// so the range check needs a custom rule.
func commissionRate(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return !d.IsNegative() && d.LessThanOrEqual(maxCommissionRate)
}

// RegisterValidations installs custom binding rules on gin's validator.
// Call once at startup, before the engine serves requests.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("commission_rate", commissionRate)
	}
}
