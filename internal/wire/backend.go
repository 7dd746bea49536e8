// Where: internal/wire/backend.go
// What: AWS implementation of the engine backend ports.
// Why: Bind scoped SDK clients to the registry, object-store and parameter adapters.
package wire

import (
	"context"
	"fmt"

	"github.com/poruru-code/versionsync/internal/domain/artifact"
	"github.com/poruru-code/versionsync/internal/domain/request"
	"github.com/poruru-code/versionsync/internal/infra/awsclient"
	"github.com/poruru-code/versionsync/internal/infra/objectstore"
	"github.com/poruru-code/versionsync/internal/infra/paramstore"
	"github.com/poruru-code/versionsync/internal/infra/registry"
	"github.com/poruru-code/versionsync/internal/usecase/versionsync"
	slogctx "github.com/veqryn/slog-context"
)

// ClientFactory yields the SDK clients of one identity.
type ClientFactory interface {
	Clients(ctx context.Context, identity request.Identity) (awsclient.ClientSet, error)
}

// BackendProvider builds AWS backends per invocation.
type BackendProvider struct {
	factory ClientFactory
	retry   awsclient.RetryPolicy
}

func NewBackendProvider(factory ClientFactory, retry awsclient.RetryPolicy) BackendProvider {
	return BackendProvider{factory: factory, retry: retry}
}

func (p BackendProvider) Backend(ctx context.Context, identity request.Identity) (versionsync.Backend, error) {
	clients, err := p.factory.Clients(ctx, identity)
	if err != nil {
		return nil, err
	}
	slogctx.FromCtx(ctx).Info("clients ready", "scope", clients.Scope)
	return awsBackend{
		registry:   clients.ECR,
		objects:    clients.S3,
		parameters: clients.SSM,
		retry:      p.retry,
	}, nil
}

type awsBackend struct {
	registry   registry.API
	objects    objectstore.API
	parameters paramstore.API
	retry      awsclient.RetryPolicy
}

func (b awsBackend) Resolver(group artifact.Group) (versionsync.Resolver, error) {
	switch g := group.(type) {
	case artifact.RegistryGroup:
		return registry.New(b.registry, g, b.retry), nil
	case artifact.ObjectStoreGroup:
		return objectstore.New(b.objects, g, b.retry), nil
	default:
		return nil, fmt.Errorf("unsupported artifact group %T", group)
	}
}

func (b awsBackend) Parameters() versionsync.ParameterWriter {
	return paramstore.New(b.parameters, b.retry)
}
