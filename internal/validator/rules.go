package validator

import (
	"log"

	"fittrack_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Критическая ошибка конфигурации - не запускаемся
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// Правила, основанные на 'statuses.go'
	mustRegister("is-membership-role", validateMembershipRole)
	mustRegister("is-program-status", validateProgramStatus)
}

// --- Функции валидации ---

func validateMembershipRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' обрабатывает пустые
	}

	switch models.MembershipRole(value) {
	case models.MembershipRoleAdmin, models.MembershipRoleLogger, models.MembershipRoleMember:
		return true
	default:
		return false
	}
}

func validateProgramStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}

	switch models.ProgramStatus(value) {
	case models.ProgramStatusActive, models.ProgramStatusUpcoming, models.ProgramStatusFinished:
		return true
	default:
		return false
	}
}
