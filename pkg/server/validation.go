package server

import (
	"fmt"
	"path"
	"strings"

	"github.com/go-playground/validator/v10"
)

var tabularExtensions = []string{".csv", ".tsv", ".txt"}

// isTabularFilename accepts file names ending in one of tabularExtensions, in any case.
func isTabularFilename(fl validator.FieldLevel) bool {
	name := strings.ToLower(strings.TrimSpace(fl.Field().String()))
	if name == "" {
		return false
	}

	ext := path.Ext(strings.ReplaceAll(name, "\\", "/"))
	for _, allowed := range tabularExtensions {
		if ext == allowed {
			return true
		}
	}

	return false
}

func NewValidator() (*validator.Validate, error) {
	validate := validator.New()

	if err := validate.RegisterValidation("tabularFilename", isTabularFilename); err != nil {
		return nil, fmt.Errorf("validation registration for 'tabularFilename' failed: %w", err)
	}

	return validate, nil
}
