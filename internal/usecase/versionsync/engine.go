// Where: internal/usecase/versionsync/engine.go
// What: Resolution and synchronization workflow.
// Why: Validate, resolve, merge and publish versions as one invocation.
package versionsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/poruru-code/versionsync/internal/domain/artifact"
	"github.com/poruru-code/versionsync/internal/domain/parameter"
	"github.com/poruru-code/versionsync/internal/domain/request"
	slogctx "github.com/veqryn/slog-context"
	"golang.org/x/sync/errgroup"
)

const (
	defaultConcurrency = 8
	reasonDeadline     = "deadline exceeded"
	// discoveryUnit names the failure of listing a whole group.
	discoveryUnit = "*"
)

var errBackendNotConfigured = errors.New("backend provider is not configured")

// Options configure an Engine.
type Options struct {
	// NamePrefix is the root namespace every parameter must live under.
	NamePrefix string
	Policies   artifact.Policies
	// Concurrency bounds in-flight units per kind and in-flight writes.
	Concurrency int
	// DeadlineMargin is reserved before the context deadline for building
	// the response.
	DeadlineMargin time.Duration
}

// Engine runs invocations.
type Engine struct {
	backends BackendProvider
	opts     Options
}

// New returns an Engine.
func New(backends BackendProvider, opts Options) *Engine {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	return &Engine{backends: backends, opts: opts}
}

// Run executes one invocation. The returned error is fatal
// (*request.ConfigError, a credential failure or *parameter.GuardViolation)
// and means no parameter was written. Per-unit failures are reported in the
// response instead.
func (e *Engine) Run(ctx context.Context, payload request.Payload) (artifact.Response, error) {
	logger := slogctx.FromCtx(ctx)
	logger.Debug("invocation received", "payload", payload)

	cfg, err := request.Validate(payload, e.opts.Policies)
	if err != nil {
		return artifact.Response{}, err
	}
	if cfg.Noop() {
		logger.Info("nothing to do: no flag set and no versions supplied")
		return artifact.EmptyResponse(), nil
	}
	if cfg.SetVersions {
		if err := parameter.CheckRoot(e.opts.NamePrefix); err != nil {
			return artifact.Response{}, err
		}
	}

	ctx, cancel := e.withMargin(ctx)
	defer cancel()

	var backend Backend
	if cfg.SetVersions || len(cfg.Fetches()) > 0 {
		if e.backends == nil {
			return artifact.Response{}, errBackendNotConfigured
		}
		backend, err = e.backends.Backend(ctx, cfg.Identity)
		if err != nil {
			return artifact.Response{}, err
		}
	}

	resolved, resolutionFailures := e.resolve(ctx, backend, cfg.Sources)
	versions := artifact.Merge(cfg.Sources, resolved)
	logger.Info("versions resolved", "count", versions.Len(), "failures", len(resolutionFailures))

	if !cfg.SetVersions {
		return artifact.NewResponse(versions, resolutionFailures, nil, nil), nil
	}

	writes, err := parameter.Plan(e.opts.NamePrefix, cfg.SSMPrefix, versions)
	if err != nil {
		return artifact.Response{}, err
	}
	written, writeFailures := e.sync(ctx, backend.Parameters(), writes)
	logger.Info("parameters synchronized", "written", len(written), "failures", len(writeFailures))
	return artifact.NewResponse(versions, resolutionFailures, written, writeFailures), nil
}

func (e *Engine) withMargin(ctx context.Context) (context.Context, context.CancelFunc) {
	deadline, ok := ctx.Deadline()
	if !ok || e.opts.DeadlineMargin <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithDeadline(ctx, deadline.Add(-e.opts.DeadlineMargin))
}

// resolve fetches every Fetch source. Kinds run independently; units of one
// kind share the concurrency bound.
func (e *Engine) resolve(
	ctx context.Context,
	backend Backend,
	sources []artifact.Source,
) (map[artifact.Kind][]artifact.ResolvedVersion, []artifact.ResolutionFailure) {
	var (
		mu       sync.Mutex
		resolved = map[artifact.Kind][]artifact.ResolvedVersion{}
		failures []artifact.ResolutionFailure
	)
	record := func(version *artifact.ResolvedVersion, failure *artifact.ResolutionFailure) {
		mu.Lock()
		defer mu.Unlock()
		if version != nil {
			resolved[version.Kind] = append(resolved[version.Kind], *version)
		}
		if failure != nil {
			failures = append(failures, *failure)
		}
	}

	var kinds errgroup.Group
	for _, source := range sources {
		fetch, ok := source.(artifact.FetchSource)
		if !ok {
			continue
		}
		kinds.Go(func() error {
			e.resolveKind(ctx, backend, fetch.Group, record)
			return nil
		})
	}
	_ = kinds.Wait()
	return resolved, failures
}

func (e *Engine) resolveKind(
	ctx context.Context,
	backend Backend,
	group artifact.Group,
	record func(*artifact.ResolvedVersion, *artifact.ResolutionFailure),
) {
	kind := group.Kind()
	logger := slogctx.FromCtx(ctx).With("kind", kind)
	fail := func(application string, err error) {
		reason := failureReason(err)
		logger.Warn("resolution failed", "application", application, "reason", reason)
		record(nil, &artifact.ResolutionFailure{Kind: kind, Application: application, Reason: reason})
	}

	resolver, err := backend.Resolver(group)
	if err != nil {
		fail(discoveryUnit, err)
		return
	}
	applications, err := resolver.Applications(ctx)
	if err != nil {
		fail(discoveryUnit, err)
		return
	}

	var units errgroup.Group
	units.SetLimit(e.opts.Concurrency)
	for _, application := range applications {
		units.Go(func() error {
			if err := ctx.Err(); err != nil {
				fail(application, err)
				return nil
			}
			version, err := resolver.Resolve(ctx, application)
			if err != nil {
				fail(application, err)
				return nil
			}
			logger.Info("resolved", "application", application, "token", version.Token)
			record(&version, nil)
			return nil
		})
	}
	_ = units.Wait()
}

// sync writes every planned parameter. Failed writes do not stop the others.
func (e *Engine) sync(
	ctx context.Context,
	writer ParameterWriter,
	writes []parameter.Write,
) ([]string, []artifact.WriteFailure) {
	var (
		mu       sync.Mutex
		written  []string
		failures []artifact.WriteFailure
	)
	logger := slogctx.FromCtx(ctx)

	var group errgroup.Group
	group.SetLimit(e.opts.Concurrency)
	for _, write := range writes {
		group.Go(func() error {
			attempts := 0
			err := ctx.Err()
			if err == nil {
				attempts, err = writer.Write(ctx, write.Path, write.Value)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				reason := failureReason(err)
				logger.Warn("parameter write failed", "kind", write.Kind, "path", write.Path, "attempt", attempts, "reason", reason)
				failures = append(failures, artifact.WriteFailure{
					Kind:        write.Kind,
					Application: write.Application,
					Path:        write.Path,
					Reason:      reason,
					Attempts:    attempts,
				})
				return nil
			}
			logger.Info("parameter written", "kind", write.Kind, "path", write.Path, "token", write.Value)
			written = append(written, write.Path)
			return nil
		})
	}
	_ = group.Wait()
	return written, failures
}

func failureReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return reasonDeadline
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Sprintf("canceled: %v", err)
	}
	return err.Error()
}
