package validator

import (
	"log"

	"craftfolio_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует доменные правила валидации
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Без правил валидации приложение запускать нельзя
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-user-role': роль при регистрации; admin через signup не выдается
	mustRegister("is-user-role", validateUserRole)

	// 'is-app-status': статус отклика
	mustRegister("is-app-status", validateApplicationStatus)

	// 'is-template': шаблон портфолио
	mustRegister("is-template", validateTemplate)
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустые значения обрабатывает 'required'
	}
	switch models.UserRole(value) {
	case models.UserRoleSeeker, models.UserRoleHirer:
		return true
	default:
		return false
	}
}

func validateApplicationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidStatus(models.ApplicationStatus(value))
}

func validateTemplate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidTemplate(models.PortfolioTemplate(value))
}
