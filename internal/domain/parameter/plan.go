// Where: internal/domain/parameter/plan.go
// What: All-or-nothing write planning for a version map.
// Why: A single bad path must prevent every write of the batch.
package parameter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/poruru-code/versionsync/internal/domain/artifact"
)

// Write is one planned parameter write.
type Write struct {
	Kind        artifact.Kind
	Application string
	Path        string
	Value       string
}

// Plan computes every write of versions and checks all paths before
// returning any of them. Application names are single path segments. Two kinds targeting the same path are rejected
// too, since writes carry no ordering.
func Plan(root, ssmPrefix string, versions artifact.VersionMap) ([]Write, error) {
	entries := versions.Entries()
	writes := make([]Write, 0, len(entries))
	owners := make(map[string]artifact.Kind, len(entries))
	for _, entry := range entries {
		path := Path(root, ssmPrefix, entry.Application)
		if strings.Contains(entry.Application, "/") {
			return nil, &GuardViolation{
				Root:   root,
				Path:   path,
				Reason: fmt.Sprintf("application name %q contains a path separator", entry.Application),
			}
		}
		if err := CheckWithin(root, path); err != nil {
			return nil, err
		}
		if owner, ok := owners[path]; ok {
			return nil, &GuardViolation{
				Root:   root,
				Path:   path,
				Reason: fmt.Sprintf("path is targeted by both %s and %s", owner, entry.Kind),
			}
		}
		owners[path] = entry.Kind
		writes = append(writes, Write{
			Kind:        entry.Kind,
			Application: entry.Application,
			Path:        path,
			Value:       entry.Token,
		})
	}
	sort.Slice(writes, func(i, j int) bool { return writes[i].Path < writes[j].Path })
	return writes, nil
}
