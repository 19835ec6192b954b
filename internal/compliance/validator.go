package compliance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"

	"github.com/hearthsoft/orgcore/internal/log"
)

// ErrComplianceConfiguration marks a fatal startup failure: an entity type
// carries sensitive-looking fields that are not declared as PII. The
// process must not finish starting.
var ErrComplianceConfiguration = errors.New("compliance configuration error")

// Config configures the sensitive-name patterns. A field matches a pattern
// by substring; exact names are just a special case.
type Config struct {
	Patterns []string `conf:"patterns" yaml:"patterns" json:"patterns"`
}

// DefaultPatterns mirrors the compliance terms the system has always
// shipped with.
func DefaultPatterns() []string {
	return []string{
		"email",
		"full_name",
		"first_name",
		"last_name",
		"name",
		"phone",
		"address",
		"city",
		"postal_code",
		"zip_code",
		"ssn",
		"social_security_number",
		"date_of_birth",
		"birth",
		"dob",
		"ip_address",
		"last_login_ip",
	}
}

// Warning is a non-fatal diagnostic: a declared PII field that does not
// exist on the type (typo tolerant, but surfaced).
type Warning struct {
	Type  string
	Field string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s declares pii field %q which does not exist on the type", w.Type, w.Field)
}

// Report is the outcome of a validation run.
type Report struct {
	Checked  int
	Warnings []Warning
}

// ValidateRegisteredTypes checks every registered entity type once, at
// process boot. For each type, the set of field names matching the
// configured patterns must be a subset of the declared pii fields;
// otherwise the run fails with ErrComplianceConfiguration naming every
// offending type and field. A type with matches and no declaration at all
// fails the same way.
func ValidateRegisteredTypes(ctx context.Context, cfg Config) (*Report, error) {
	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = DefaultPatterns()
	}

	report := &Report{}

	var errs *multierror.Error

	for _, info := range RegisteredTypes() {
		report.Checked++

		matched := lo.Filter(info.Fields, func(field string, _ int) bool {
			return matchesAny(field, patterns)
		})

		if len(matched) > 0 && !info.HasDeclaration {
			errs = multierror.Append(errs, fmt.Errorf(
				"type %s contains pii fields %v but declares none; add a PIIFields declaration listing them",
				info.Name, matched,
			))

			continue
		}

		if undeclared, _ := lo.Difference(matched, info.Declared); len(undeclared) > 0 {
			errs = multierror.Append(errs, fmt.Errorf(
				"type %s contains pii fields %v not declared in PIIFields (declared: %v)",
				info.Name, undeclared, info.Declared,
			))
		}

		// Declared-but-nonexistent fields are typo tolerant: warn, don't fail.
		if ghost, _ := lo.Difference(info.Declared, info.Fields); len(ghost) > 0 {
			for _, field := range ghost {
				warning := Warning{Type: info.Name, Field: field}
				report.Warnings = append(report.Warnings, warning)
				log.Warn(ctx, "pii declaration names unknown field",
					log.String("type", warning.Type),
					log.String("field", warning.Field),
				)
			}
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return report, fmt.Errorf("%w: %w", ErrComplianceConfiguration, err)
	}

	return report, nil
}

func matchesAny(field string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(field, pattern) {
			return true
		}
	}

	return false
}
