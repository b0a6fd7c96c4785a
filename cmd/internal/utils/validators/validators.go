package validators

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

var onlyDigits = regexp.MustCompile(`^[0-9]+$`)

// NotBlank rejects strings that are empty after trimming.
func NotBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		log.Warnf("validator 'notblank' applied to non-string type: %s", field.Kind().String())
		return false
	}
	return strings.TrimSpace(field.String()) != ""
}

// YearMonthDay accepts calendar dates written as yyyy-mm-dd.
func YearMonthDay(fl validator.FieldLevel) bool {
	return matchesLayout(fl, time.DateOnly)
}

// YearMonth accepts months written as yyyy-mm.
func YearMonth(fl validator.FieldLevel) bool {
	return matchesLayout(fl, "2006-01")
}

func Digits(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return onlyDigits.MatchString(val)
}

func matchesLayout(fl validator.FieldLevel, layout string) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	// Parse normalizes nothing, so "2024-02-30" fails here.
	_, err := time.Parse(layout, val)
	return err == nil && len(val) == len(layout)
}

// Register installs every custom tag on v.
func Register(v *validator.Validate) error {
	tags := map[string]validator.Func{
		"notblank": NotBlank,
		"yyyymmdd": YearMonthDay,
		"yyyymm":   YearMonth,
		"digits":   Digits,
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}
