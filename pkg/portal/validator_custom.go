package portal

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

var CronParser = cron.NewParser(
	cron.SecondOptional |
		cron.Minute |
		cron.Hour |
		cron.Dom |
		cron.Month |
		cron.Dow |
		cron.Descriptor,
)

func registerCustomValidations(v *validator.Validate) {
	if v == nil {
		return
	}

	if err := v.RegisterValidation("cron", validateCronExpression); err != nil {
		panic("portal: failed to register cron validation: " + err.Error())
	}

	if err := v.RegisterValidation("nicename", validateNicename); err != nil {
		panic("portal: failed to register nicename validation: " + err.Error())
	}
}

func validateCronExpression(fl validator.FieldLevel) bool {
	expr := strings.TrimSpace(fl.Field().String())
	if expr == "" {
		return false
	}

	_, err := CronParser.Parse(expr)
	return err == nil
}

// validateNicename accepts values that are already in their canonical slug form.
func validateNicename(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return false
	}

	return MakeNicename(value) == value
}
