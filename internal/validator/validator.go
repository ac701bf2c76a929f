// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("cash_flow_type", validateCashFlowType)
		_ = v.RegisterValidation("cash_flow_status", validateCashFlowStatus)
		_ = v.RegisterValidation("payment_method", validatePaymentMethod)
		_ = v.RegisterValidation("tracking_system", validateTrackingSystem)
		_ = v.RegisterValidation("member_role", validateMemberRole)
	}
}

func validateCashFlowType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense", "addition_income", "addition_expense":
		return true
	}
	return false
}

func validateCashFlowStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "paid", "pending", "awaiting_approval":
		return true
	}
	return false
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "bank_transfer", "check", "cash", "credit":
		return true
	}
	return false
}

func validateTrackingSystem(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "budget_v1", "financials_v2":
		return true
	}
	return false
}

func validateMemberRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "owner", "manager", "viewer":
		return true
	}
	return false
}
