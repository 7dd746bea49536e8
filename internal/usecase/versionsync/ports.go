// Where: internal/usecase/versionsync/ports.go
// What: Ports the engine depends on.
// Why: Keep AWS adapters out of the orchestration so it can be tested with fakes.
package versionsync

import (
	"context"

	"github.com/poruru-code/versionsync/internal/domain/artifact"
	"github.com/poruru-code/versionsync/internal/domain/request"
)

// Resolver resolves the applications of one artifact group.
type Resolver interface {
	Applications(ctx context.Context) ([]string, error)
	Resolve(ctx context.Context, application string) (artifact.ResolvedVersion, error)
}

// ParameterWriter stores one parameter and reports the attempts it took.
type ParameterWriter interface {
	Write(ctx context.Context, path, value string) (int, error)
}

// Backend is the set of scoped store adapters of one invocation.
type Backend interface {
	Resolver(group artifact.Group) (Resolver, error)
	Parameters() ParameterWriter
}

// BackendProvider builds a Backend for an identity. Credential failures are
// returned as errors and are fatal.
type BackendProvider interface {
	Backend(ctx context.Context, identity request.Identity) (Backend, error)
}
