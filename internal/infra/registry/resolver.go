// Where: internal/infra/registry/resolver.go
// What: Registry resolver backed by the ECR DescribeImages API.
// Why: Each repository is one application whose version is its newest commit-tagged image.
package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/poruru-code/versionsync/internal/domain/artifact"
	"github.com/poruru-code/versionsync/internal/infra/awsclient"
	slogctx "github.com/veqryn/slog-context"
)

// API is the subset of the ECR client used here.
type API interface {
	ecr.DescribeImagesAPIClient
}

var errRepositoryNotFound = errors.New("repository not found")

// Resolver resolves the repositories of one registry group.
type Resolver struct {
	api   API
	group artifact.RegistryGroup
	retry awsclient.RetryPolicy
}

// New returns a resolver for group.
func New(api API, group artifact.RegistryGroup, retry awsclient.RetryPolicy) *Resolver {
	return &Resolver{api: api, group: group, retry: retry}
}

func (r *Resolver) Kind() artifact.Kind { return artifact.KindRegistry }

// Applications returns the configured repositories.
func (r *Resolver) Applications(context.Context) ([]string, error) {
	return r.group.Repositories(), nil
}

// Resolve selects the image of one repository.
func (r *Resolver) Resolve(ctx context.Context, repository string) (artifact.ResolvedVersion, error) {
	images, err := r.listImages(ctx, repository)
	if err != nil {
		return artifact.ResolvedVersion{}, err
	}

	policy := r.group.Policy()
	match, err := artifact.SelectImage(images, r.group.Filters(), policy.Commit)
	if err != nil {
		return artifact.ResolvedVersion{}, fmt.Errorf("%w among %d images with tags %s", err, len(images), r.group.Filters())
	}

	token := policy.Token.Token(match.CommitTag, match.Hash)
	slogctx.FromCtx(ctx).Debug("selected image",
		"kind", artifact.KindRegistry,
		"application", repository,
		"digest", match.Image.Digest,
		"token", token,
	)
	return artifact.ResolvedVersion{
		Kind:            artifact.KindRegistry,
		Application:     repository,
		Token:           token,
		SourceTimestamp: match.Image.PushedAt,
		Origin:          match.Image.Digest,
	}, nil
}

func (r *Resolver) listImages(ctx context.Context, repository string) ([]artifact.Image, error) {
	paginator := ecr.NewDescribeImagesPaginator(r.api, &ecr.DescribeImagesInput{
		RepositoryName: aws.String(repository),
		Filter:         &types.DescribeImagesFilter{TagStatus: types.TagStatusTagged},
	})

	var images []artifact.Image
	for paginator.HasMorePages() {
		page, _, err := awsclient.Retry(ctx, r.retry, func(ctx context.Context) (*ecr.DescribeImagesOutput, error) {
			return paginator.NextPage(ctx)
		})
		if err != nil {
			return nil, describeError(repository, err)
		}
		for _, detail := range page.ImageDetails {
			images = append(images, toImage(detail))
		}
	}
	return images, nil
}

func toImage(detail types.ImageDetail) artifact.Image {
	return artifact.Image{
		Digest:   aws.ToString(detail.ImageDigest),
		Tags:     append([]string(nil), detail.ImageTags...),
		PushedAt: aws.ToTime(detail.ImagePushedAt),
	}
}

func describeError(repository string, err error) error {
	var notFound *types.RepositoryNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %s", errRepositoryNotFound, repository)
	}
	var noImage *types.ImageNotFoundException
	if errors.As(err, &noImage) {
		return fmt.Errorf("%w: no images in %s", artifact.ErrNoQualifying, repository)
	}
	return fmt.Errorf("describe images of %s: %w", repository, err)
}
