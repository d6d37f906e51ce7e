package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their koanf keys so messages match the
// YAML and APP_ variable names operators actually set.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}

		return name
	})
	v.RegisterStructValidation(validateStorage, StorageConfig{})

	return v
}

// validateStorage requires the settings of the selected backend.
// Nested fields cannot reference Backend with a required_if tag.
func validateStorage(sl validator.StructLevel) {
	s, ok := sl.Current().Interface().(StorageConfig)
	if !ok {
		return
	}

	switch s.Backend {
	case StorageBackendSQLite:
		if s.SQLite.Path == "" {
			sl.ReportError(s.SQLite.Path, "sqlite.path", "Path", "required_if", "backend is sqlite")
		}
	case StorageBackendRemote:
		if s.Remote.BaseURL == "" {
			sl.ReportError(s.Remote.BaseURL, "remote.base_url", "BaseURL", "required_if", "backend is remote")
		}

		if s.Remote.Name == "" {
			sl.ReportError(s.Remote.Name, "remote.name", "Name", "required_if", "backend is remote")
		}
	}
}

// Validate checks every field and returns all failures in one error.
// The service refuses to start on invalid configuration.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	lines := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		lines[i] = describe(fe)
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(lines, "\n  "))
}

func describe(fe validator.FieldError) string {
	key := configKey(fe.Namespace())

	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "required_if":
		return fmt.Sprintf("%s is required when %s", key, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", key, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", key, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", key, fe.Param())
	case "url":
		return key + " must be a valid URL"
	default:
		return fmt.Sprintf("%s failed validation: %s", key, fe.Tag())
	}
}

// configKey drops the root type from a namespace such as
// "Config.server.max_request_size".
func configKey(namespace string) string {
	_, key, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}

	return key
}
