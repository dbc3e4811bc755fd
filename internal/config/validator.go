package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the config for:
//   - Field constraints declared in struct tags
//   - Duplicate template names
//   - Editor options the editor itself would refuse at Start
func Validate(cfg *Config) error {
	var errs []string

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("config: %w", err)
		}
		for _, e := range verrs {
			errs = append(errs, fmt.Sprintf("%s: failed %q %s", e.Namespace(), e.Tag(), e.Param()))
		}
	}

	seen := make(map[string]int)
	for i, t := range cfg.Templates {
		if t.Name == "" {
			continue
		}
		if prev, ok := seen[t.Name]; ok {
			errs = append(errs, fmt.Sprintf("duplicate template %q (templates[%d] and templates[%d])", t.Name, prev, i))
			continue
		}
		seen[t.Name] = i
	}

	if len(errs) == 0 {
		if err := cfg.EditorOptions().Validate(); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
