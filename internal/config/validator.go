package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"dfinspect/internal/df"
)

// ValidationError represents a single validation error with user-friendly message.
type ValidationError struct {
	Field   string // Field path (e.g., "df.levels")
	Tag     string // Validation tag that failed (e.g., "required", "level_order")
	Value   any    // Actual value that failed validation
	Message string // User-friendly error message
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		fmt.Fprintf(&sb, "  - %s: %s\n", err.Field, err.Message)
	}
	return sb.String()
}

// validate is the package-level validator instance.
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("timezone", validateTimezone)
}

// Validate validates the configuration and returns user-friendly error messages.
func Validate(cfg *Config) error {
	var validationErrors ValidationErrors

	if err := validate.Struct(cfg); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			for _, fe := range fieldErrors {
				validationErrors = append(validationErrors, &ValidationError{
					Field:   formatFieldName(fe.Namespace()),
					Tag:     fe.Tag(),
					Value:   fe.Value(),
					Message: translateError(fe),
				})
			}
		}
	}

	checks := []func(*Config) ValidationErrors{
		validateDatasource,
		validateLevels,
		validateTrendLevels,
		validateGroups,
	}
	for _, check := range checks {
		validationErrors = append(validationErrors, check(cfg)...)
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}
	return nil
}

// validateTimezone is a custom validator for timezone strings.
func validateTimezone(fl validator.FieldLevel) bool {
	tz := fl.Field().String()
	if tz == "" {
		return true // Empty is allowed, will use default
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func validateDatasource(cfg *Config) ValidationErrors {
	var errs ValidationErrors
	if cfg.Inspection.Source == SourceVictoriaMetrics && cfg.Datasources.VictoriaMetrics.Endpoint == "" {
		errs = append(errs, &ValidationError{
			Field:   "datasources.victoriametrics.endpoint",
			Tag:     "required_for_source",
			Message: "endpoint is required when inspection.source is victoriametrics",
		})
	}
	return errs
}

// validateLevels checks that level values parse and are ordered.
// Space levels trip on used space, so warning must not exceed critical.
// Inode levels describe free inodes and are ordered the other way round.
func validateLevels(cfg *Config) ValidationErrors {
	var errs ValidationErrors

	if cfg.DF.Levels.Disabled {
		errs = append(errs, &ValidationError{
			Field:   "df.levels.disabled",
			Tag:     "not_supported",
			Value:   true,
			Message: "filesystem levels cannot be disabled",
		})
	}

	errs = append(errs, checkLevelSpec("df.levels", cfg.DF.Levels, false)...)
	if !cfg.DF.InodesLevels.Disabled {
		errs = append(errs, checkLevelSpec("df.inodes_levels", cfg.DF.InodesLevels, true)...)
	}

	low := cfg.DF.LevelsLow
	if low.Warning > low.Critical {
		errs = append(errs, orderError("df.levels_low", low.Warning, low.Critical, false))
	}
	return errs
}

func checkLevelSpec(field string, l LevelsConfig, free bool) ValidationErrors {
	var errs ValidationErrors

	spec, err := l.toSpec()
	if err != nil {
		return append(errs, &ValidationError{
			Field:   field,
			Tag:     "level",
			Value:   fmt.Sprintf("warning=%v, critical=%v", l.Warning, l.Critical),
			Message: err.Error(),
		})
	}

	pairs := []df.Pair{spec.Fixed}
	if spec.IsTiered() {
		pairs = pairs[:0]
		for _, t := range spec.Tiers {
			pairs = append(pairs, t.Levels)
		}
	}
	for _, pair := range pairs {
		if pair.Warn.Kind != pair.Crit.Kind {
			continue
		}
		if (!free && pair.Warn.Value > pair.Crit.Value) || (free && pair.Warn.Value < pair.Crit.Value) {
			errs = append(errs, orderError(field, pair.Warn.Value, pair.Crit.Value, free))
		}
	}
	return errs
}

func validateTrendLevels(cfg *Config) ValidationErrors {
	var errs ValidationErrors
	upper := map[string]*ThresholdPair{
		"df.trend_mb":   cfg.DF.TrendMB,
		"df.trend_perc": cfg.DF.TrendPerc,
	}
	for _, field := range []string{"df.trend_mb", "df.trend_perc"} {
		if tp := upper[field]; tp != nil && tp.Warning > tp.Critical {
			errs = append(errs, orderError(field, tp.Warning, tp.Critical, false))
		}
	}
	// hours left: fewer is worse
	if tp := cfg.DF.TrendTimeleft; tp != nil && tp.Warning < tp.Critical {
		errs = append(errs, orderError("df.trend_timeleft", tp.Warning, tp.Critical, true))
	}
	return errs
}

func validateGroups(cfg *Config) ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]bool, len(cfg.Groups))
	for i, g := range cfg.Groups {
		if g.Name == "" {
			continue
		}
		if seen[g.Name] {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("groups[%d].name", i),
				Tag:     "unique",
				Value:   g.Name,
				Message: fmt.Sprintf("duplicate group name: %s", g.Name),
			})
		}
		seen[g.Name] = true
	}
	return errs
}

func orderError(field string, warning, critical float64, lowerIsWorse bool) *ValidationError {
	msg := fmt.Sprintf("warning threshold (%.2f) must not exceed critical threshold (%.2f)", warning, critical)
	if lowerIsWorse {
		msg = fmt.Sprintf("warning threshold (%.2f) must not be below critical threshold (%.2f)", warning, critical)
	}
	return &ValidationError{
		Field:   field,
		Tag:     "level_order",
		Value:   fmt.Sprintf("warning=%v, critical=%v", warning, critical),
		Message: msg,
	}
}

// formatFieldName converts the validator field namespace to a user-friendly format.
// Example: "Config.Datasources.N9E.Endpoint" -> "datasources.n9e.endpoint"
func formatFieldName(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		parts[i] = strings.ToLower(part)
	}
	return strings.Join(parts, ".")
}

// translateError converts a validator.FieldError to a user-friendly message.
func translateError(fe validator.FieldError) string {
	field := formatFieldName(fe.Namespace())

	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "required_with":
		return fmt.Sprintf("this field is required when %s is set", strings.ToLower(fe.Param()))
	case "url":
		return fmt.Sprintf("invalid URL format: %v", fe.Value())
	case "gt":
		return fmt.Sprintf("value must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("value must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("value must be less than or equal to %s", fe.Param())
	case "min":
		return fmt.Sprintf("must contain at least %s entries", fe.Param())
	case "oneof":
		return fmt.Sprintf("value must be one of: %s", fe.Param())
	case "timezone":
		return fmt.Sprintf("invalid timezone: %v", fe.Value())
	default:
		return fmt.Sprintf("validation failed on '%s' tag for field '%s'", fe.Tag(), field)
	}
}
