// Package validation provides input validation utilities
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"devcamper/internal/models"
)

var (
	websiteRegex = regexp.MustCompile(`^https?://(www\.)?[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b([-a-zA-Z0-9()@:%_+.~#?&/=]*)$`)
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("career", func(fl validator.FieldLevel) bool {
		return isCareer(fl.Field().String())
	})
	_ = v.RegisterValidation("website", func(fl validator.FieldLevel) bool {
		return websiteRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("emailaddr", func(fl validator.FieldLevel) bool {
		return ValidateEmail(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.IsValidRole(fl.Field().String())
	})

	return v
}

// Struct validates a request struct and flattens failures into one readable error.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, ", "))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Please add a %s", field)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s can not be more than %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "career":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(models.Careers, ", "))
	case "website":
		return "Please use a valid URL with HTTP or HTTPS"
	case "emailaddr", "email":
		return "Please add a valid email"
	case "role":
		return fmt.Sprintf("%s is not a valid role", field)
	}
	return fmt.Sprintf("%s is invalid", field)
}

func isCareer(s string) bool {
	for _, c := range models.Careers {
		if c == s {
			return true
		}
	}
	return false
}

// ValidateCareers checks that careers is non-empty and only holds known values.
func ValidateCareers(careers []string) error {
	if len(careers) == 0 {
		return fmt.Errorf("please add at least one career")
	}
	for _, c := range careers {
		if !isCareer(c) {
			return fmt.Errorf("career %q is not supported", c)
		}
	}
	return nil
}

// ValidateWebsite checks that a website is an http or https URL.
func ValidateWebsite(website string) error {
	if !websiteRegex.MatchString(website) {
		return fmt.Errorf("please use a valid URL with HTTP or HTTPS")
	}
	return nil
}
