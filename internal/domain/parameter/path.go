// Where: internal/domain/parameter/path.go
// What: Parameter path construction and the root namespace guard.
// Why: Writes may only land under the root supplied by the deployment.
package parameter

import (
	"fmt"
	"strings"
)

// GuardViolation aborts a synchronization before any write happens.
type GuardViolation struct {
	Root   string
	Path   string
	Reason string
}

func (e *GuardViolation) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parameter guard: %s (root %q)", e.Reason, e.Root)
	}
	return fmt.Sprintf("parameter guard: %q is not permitted under root %q: %s", e.Path, e.Root, e.Reason)
}

// Path joins root, the per-invocation prefix and the application name.
// Leading and trailing slashes of the prefix are ignored; the root keeps
// its leading slash so "/myapp" yields "/myapp/<prefix>/<app>".
func Path(root, ssmPrefix, application string) string {
	parts := []string{strings.TrimRight(strings.TrimSpace(root), "/")}
	if prefix := strings.Trim(strings.TrimSpace(ssmPrefix), "/"); prefix != "" {
		parts = append(parts, prefix)
	}
	parts = append(parts, application)
	return strings.Join(parts, "/")
}

// CheckRoot rejects an unusable root namespace.
func CheckRoot(root string) error {
	if strings.TrimRight(strings.TrimSpace(root), "/") == "" {
		return &GuardViolation{Root: root, Reason: "root namespace is not configured"}
	}
	return nil
}

// CheckWithin verifies that path lies strictly below root.
func CheckWithin(root, path string) error {
	if err := CheckRoot(root); err != nil {
		return err
	}
	cleanRoot := strings.TrimRight(strings.TrimSpace(root), "/")
	rest, ok := strings.CutPrefix(path, cleanRoot+"/")
	if !ok {
		return &GuardViolation{Root: root, Path: path, Reason: "path is outside the root namespace"}
	}
	for _, segment := range strings.Split(rest, "/") {
		switch segment {
		case "":
			return &GuardViolation{Root: root, Path: path, Reason: "path contains an empty segment"}
		case ".", "..":
			return &GuardViolation{Root: root, Path: path, Reason: "path contains a relative segment"}
		}
	}
	return nil
}
