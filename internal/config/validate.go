package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sahilm/fuzzy"

	"github.com/verte-zerg/typesprint/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// settingKeys maps Settings fields to the names users see in flags and TOML.
var settingKeys = map[string]string{
	"TestMode":     "mode",
	"TestDuration": "duration",
	"Theme":        "theme",
	"FontStyle":    "font",
}

// Validate checks s against the supported values. Each invalid field yields
// one error, with a suggestion when the value looks like an abbreviation of a
// supported one.
func Validate(s model.Settings) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate settings: %w", err)
	}
	problems := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fieldError(fe))
	}
	return errors.Join(problems...)
}

func fieldError(fe validator.FieldError) error {
	key, ok := settingKeys[fe.StructField()]
	if !ok {
		key = strings.ToLower(fe.StructField())
	}
	value := fmt.Sprint(fe.Value())
	if fe.Tag() != "oneof" {
		return fmt.Errorf("invalid %s %q", key, value)
	}
	allowed := strings.Fields(fe.Param())
	if suggestion := Suggest(value, allowed); suggestion != "" {
		return fmt.Errorf("invalid %s %q, did you mean %q?", key, value, suggestion)
	}
	return fmt.Errorf("invalid %s %q (expected one of: %s)", key, value, strings.Join(allowed, ", "))
}

// Suggest returns the closest candidate for input, or "" when none matches.
func Suggest(input string, candidates []string) string {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return ""
	}
	matches := fuzzy.Find(input, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}
