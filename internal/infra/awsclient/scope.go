// Where: internal/infra/awsclient/scope.go
// What: Credential scopes and the client factory.
// Why: Ambient and assumed-role execution are two implementations of one capability.
package awsclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/poruru-code/versionsync/internal/domain/request"
	slogctx "github.com/veqryn/slog-context"
)

// Scope yields an AWS configuration bound to one identity.
type Scope interface {
	Describe() string
	Config(ctx context.Context) (aws.Config, error)
}

// AmbientScope runs as the invocation's own identity.
type AmbientScope struct {
	Base aws.Config
}

func (AmbientScope) Describe() string { return "ambient" }

func (s AmbientScope) Config(context.Context) (aws.Config, error) {
	return s.Base, nil
}

// AssumeRoleOptions tune the role exchange.
type AssumeRoleOptions struct {
	SessionName string
	Duration    time.Duration
	Retry       RetryPolicy
}

// AssumedRoleScope runs as a role in another account.
type AssumedRoleScope struct {
	Base    aws.Config
	RoleARN string
	Options AssumeRoleOptions
	// STS overrides the client used for the exchange.
	STS stscreds.AssumeRoleAPIClient
}

func (s AssumedRoleScope) Describe() string { return "assumed role " + s.RoleARN }

// Config performs the exchange eagerly so a rejected role fails here and
// not on the first resolver call. Rejections are retried because a freshly
// created trust policy takes a while to propagate.
func (s AssumedRoleScope) Config(ctx context.Context) (aws.Config, error) {
	client := s.STS
	if client == nil {
		client = sts.NewFromConfig(s.Base)
	}
	provider := stscreds.NewAssumeRoleProvider(client, s.RoleARN, func(o *stscreds.AssumeRoleOptions) {
		if s.Options.SessionName != "" {
			o.RoleSessionName = s.Options.SessionName
		}
		if s.Options.Duration > 0 {
			o.Duration = s.Options.Duration
		}
	})
	cache := aws.NewCredentialsCache(provider)

	logger := slogctx.FromCtx(ctx)
	logger.Info("assuming role", "role_arn", s.RoleARN)
	retry := s.Options.Retry
	if retry.ShouldRetry == nil {
		retry.ShouldRetry = func(error) bool { return true }
	}
	_, attempts, err := Retry(ctx, retry, func(ctx context.Context) (aws.Credentials, error) {
		return cache.Retrieve(ctx)
	})
	if err != nil {
		return aws.Config{}, &CredentialError{RoleARN: s.RoleARN, Err: err}
	}
	logger.Info("assumed role", "role_arn", s.RoleARN, "attempts", attempts)

	cfg := s.Base.Copy()
	cfg.Credentials = cache
	return cfg, nil
}

// Options configure the Factory.
type Options struct {
	Region     string
	AppID      string
	AssumeRole AssumeRoleOptions
	// CrossAccountReads binds registry and object-store reads to the assumed
	// role too. By default only parameter writes use it.
	CrossAccountReads bool
}

// ClientSet holds the clients of one invocation.
type ClientSet struct {
	Scope string
	ECR   *ecr.Client
	S3    *s3.Client
	SSM   *ssm.Client
}

// Factory builds scoped clients.
type Factory struct {
	Options Options
	// LoadBase overrides how the ambient configuration is loaded.
	LoadBase func(ctx context.Context, opts Options) (aws.Config, error)
	// NewScope overrides scope selection.
	NewScope func(base aws.Config, identity request.Identity, opts Options) Scope
}

// NewFactory returns a Factory using the default SDK configuration chain.
func NewFactory(opts Options) *Factory {
	return &Factory{Options: opts, LoadBase: loadAWSConfig, NewScope: scopeFor}
}

// Clients resolves the identity and returns clients for it.
func (f *Factory) Clients(ctx context.Context, identity request.Identity) (ClientSet, error) {
	loadBase := f.LoadBase
	if loadBase == nil {
		loadBase = loadAWSConfig
	}
	newScope := f.NewScope
	if newScope == nil {
		newScope = scopeFor
	}

	base, err := loadBase(ctx, f.Options)
	if err != nil {
		return ClientSet{}, fmt.Errorf("load AWS configuration: %w", err)
	}
	scope := newScope(base, identity, f.Options)
	scoped, err := scope.Config(ctx)
	if err != nil {
		return ClientSet{}, err
	}

	reads := base
	if f.Options.CrossAccountReads {
		reads = scoped
	}
	return ClientSet{
		Scope: scope.Describe(),
		ECR:   ecr.NewFromConfig(reads),
		S3:    s3.NewFromConfig(reads),
		SSM:   ssm.NewFromConfig(scoped),
	}, nil
}

func scopeFor(base aws.Config, identity request.Identity, opts Options) Scope {
	if identity.Ambient() {
		return AmbientScope{Base: base}
	}
	return AssumedRoleScope{
		Base:    base,
		RoleARN: RoleARN(base.Region, identity.AccountID, identity.RoleName),
		Options: opts.AssumeRole,
	}
}

// RoleARN builds the ARN of a role name in an account, in the partition of region.
func RoleARN(region, accountID, roleName string) string {
	return fmt.Sprintf("arn:%s:iam::%s:role/%s", partition(region), accountID, strings.TrimPrefix(roleName, "/"))
}

func partition(region string) string {
	switch {
	case strings.HasPrefix(region, "cn-"):
		return "aws-cn"
	case strings.HasPrefix(region, "us-gov-"):
		return "aws-us-gov"
	case strings.HasPrefix(region, "us-iso-"):
		return "aws-iso"
	case strings.HasPrefix(region, "us-isob-"):
		return "aws-iso-b"
	default:
		return "aws"
	}
}

func loadAWSConfig(ctx context.Context, opts Options) (aws.Config, error) {
	loadOpts := []func(*config.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.AppID != "" {
		loadOpts = append(loadOpts, config.WithAppID(opts.AppID))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, err
	}
	return cfg, nil
}
