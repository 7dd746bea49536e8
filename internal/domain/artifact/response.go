// Where: internal/domain/artifact/response.go
// What: Per-unit failures and the invocation response.
// Why: Report non-fatal failures next to the versions actually used.
package artifact

import "sort"

// ResolutionFailure records an application that could not be resolved.
type ResolutionFailure struct {
	Kind        Kind   `json:"kind"`
	Application string `json:"application"`
	Reason      string `json:"reason"`
}

// WriteFailure records a parameter that was not written after retries.
type WriteFailure struct {
	Kind        Kind   `json:"kind"`
	Application string `json:"application"`
	Path        string `json:"path"`
	Reason      string `json:"reason"`
	Attempts    int    `json:"attempts"`
}

// Response is the structured result of one invocation.
type Response struct {
	Versions           VersionMap          `json:"versions"`
	ResolutionFailures []ResolutionFailure `json:"resolution_failures"`
	Written            []string            `json:"written,omitempty"`
	WriteFailures      []WriteFailure      `json:"write_failures"`
}

// NewResponse assembles a response with stable ordering and no nil collections.
func NewResponse(
	versions VersionMap,
	resolutionFailures []ResolutionFailure,
	written []string,
	writeFailures []WriteFailure,
) Response {
	if versions == nil {
		versions = VersionMap{}
	}
	resolution := append([]ResolutionFailure{}, resolutionFailures...)
	sort.SliceStable(resolution, func(i, j int) bool {
		if resolution[i].Kind != resolution[j].Kind {
			return resolution[i].Kind < resolution[j].Kind
		}
		return resolution[i].Application < resolution[j].Application
	})
	writes := append([]WriteFailure{}, writeFailures...)
	sort.SliceStable(writes, func(i, j int) bool { return writes[i].Path < writes[j].Path })
	paths := append([]string(nil), written...)
	sort.Strings(paths)
	return Response{
		Versions:           versions,
		ResolutionFailures: resolution,
		Written:            paths,
		WriteFailures:      writes,
	}
}

// EmptyResponse is returned for a no-op invocation.
func EmptyResponse() Response {
	return NewResponse(nil, nil, nil, nil)
}

// Partial reports whether any unit failed.
func (r Response) Partial() bool {
	return len(r.ResolutionFailures) > 0 || len(r.WriteFailures) > 0
}
