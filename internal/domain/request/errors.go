// Where: internal/domain/request/errors.go
// What: Configuration error type.
// Why: Name every violated request constraint in one fatal error.
package request

import (
	"fmt"
	"strings"
)

// Problem is one violated constraint.
type Problem struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ConfigError reports a malformed or incomplete request. No side effect is
// attempted once it is returned.
type ConfigError struct {
	Problems []Problem
}

func (e *ConfigError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, fmt.Sprintf("%s: %s", p.Field, p.Reason))
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

func (e *ConfigError) add(field, format string, args ...any) {
	e.Problems = append(e.Problems, Problem{Field: field, Reason: fmt.Sprintf(format, args...)})
}

func (e *ConfigError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}
