package customvalidator

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations регистрирует доменные правила валидации
// в переданном экземпляре валидатора.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("request_type", isRequestType); err != nil {
		return err
	}
	if err := v.RegisterValidation("today_or_future", isTodayOrFuture); err != nil {
		return err
	}
	return nil
}

func isRequestType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "CORRECTIVE", "PREVENTIVE":
		return true
	}
	return false
}

// isTodayOrFuture принимает дату в формате 2006-01-02 и требует, чтобы она
// была не раньше сегодняшнего дня.
func isTodayOrFuture(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return true
	}
	d, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return false
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	return !d.Before(today)
}
