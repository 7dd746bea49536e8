// Where: internal/domain/artifact/kind.go
// What: Artifact kind identifiers.
// Why: Give every artifact group, override and parameter a stable kind key.
package artifact

import (
	"fmt"
	"strings"
)

// Kind identifies an artifact group. Its value is also the key used in
// the "versions" maps of requests and responses.
type Kind string

const (
	KindRegistry Kind = "ecr"
	KindFunction Kind = "lambda"
	KindBundle   Kind = "frontend"
)

// Kinds returns every supported kind in a fixed order.
func Kinds() []Kind {
	return []Kind{KindRegistry, KindFunction, KindBundle}
}

// ParseKind maps a request key onto a Kind.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.TrimSpace(value)) {
	case KindRegistry:
		return KindRegistry, nil
	case KindFunction:
		return KindFunction, nil
	case KindBundle:
		return KindBundle, nil
	default:
		return "", fmt.Errorf("unknown artifact kind %q", value)
	}
}

// IsObjectStore reports whether artifacts of this kind live in an object store.
func (k Kind) IsObjectStore() bool {
	return k == KindFunction || k == KindBundle
}

func (k Kind) String() string {
	return string(k)
}
