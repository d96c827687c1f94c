package config

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vuon9/workdiff/internal/common"
)

// ValidateConfig performs validation on the GlobalConfig structure. Every
// failure satisfies errors.Is(err, common.ErrInvalidConfiguration).
func ValidateConfig(cfg *GlobalConfig) error {
	validate := validator.New()

	// Register custom validation for LogLevel
	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		level := strings.ToLower(fl.Field().String())
		switch level {
		case "", "debug", "info", "warn", "error", "fatal", "panic": // Allow empty for omitempty
			return true
		default:
			return false
		}
	})

	// Register custom validation for LogFormat
	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		format := strings.ToLower(fl.Field().String())
		switch format {
		case "", "console", "json":
			return true
		default:
			return false
		}
	})

	if err := validate.Struct(cfg); err != nil {
		return common.NewError("%w: %w", common.ErrInvalidConfiguration, err)
	}

	if err := validateGroupNames(cfg.Groups); err != nil {
		return common.NewError("%w: %w", common.ErrInvalidConfiguration, err)
	}

	return nil
}

// validateGroupNames rejects duplicate group names, which would make
// explicit group selection ambiguous.
func validateGroupNames(groups []GroupConfig) error {
	seen := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		if _, dup := seen[g.Name]; dup {
			return common.NewValidationError("groups", g.Name, "duplicate group name")
		}
		seen[g.Name] = struct{}{}
	}
	return nil
}
