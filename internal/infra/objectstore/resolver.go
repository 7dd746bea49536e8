// Where: internal/infra/objectstore/resolver.go
// What: Object-store resolver backed by S3 listings and object heads.
// Why: Function packages and static bundles are versioned by the newest tagged object per application.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/poruru-code/versionsync/internal/domain/artifact"
	"github.com/poruru-code/versionsync/internal/infra/awsclient"
	slogctx "github.com/veqryn/slog-context"
)

// API is the subset of the S3 client used here.
type API interface {
	s3.ListObjectsV2APIClient
	s3.HeadObjectAPIClient
}

// Resolver resolves the applications of one object-store group.
type Resolver struct {
	api   API
	group artifact.ObjectStoreGroup
	retry awsclient.RetryPolicy
}

// New returns a resolver for group.
func New(api API, group artifact.ObjectStoreGroup, retry awsclient.RetryPolicy) *Resolver {
	return &Resolver{api: api, group: group, retry: retry}
}

func (r *Resolver) Kind() artifact.Kind { return r.group.Kind() }

// Applications returns the configured names, or every first-level name
// under the group prefix when discovery was requested.
func (r *Resolver) Applications(ctx context.Context) ([]string, error) {
	if !r.group.Discover() {
		return r.group.Applications(), nil
	}

	root := r.group.Prefix() + "/"
	paginator := s3.NewListObjectsV2Paginator(r.api, &s3.ListObjectsV2Input{
		Bucket:    aws.String(r.group.Bucket()),
		Prefix:    aws.String(root),
		Delimiter: aws.String("/"),
	})
	var apps []string
	for paginator.HasMorePages() {
		page, _, err := awsclient.Retry(ctx, r.retry, func(ctx context.Context) (*s3.ListObjectsV2Output, error) {
			return paginator.NextPage(ctx)
		})
		if err != nil {
			return nil, fmt.Errorf("discover applications under s3://%s/%s: %w", r.group.Bucket(), root, err)
		}
		for _, common := range page.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(common.Prefix), root), "/")
			if name != "" {
				apps = append(apps, name)
			}
		}
	}
	slogctx.FromCtx(ctx).Debug("discovered applications", "kind", r.group.Kind(), "count", len(apps))
	return apps, nil
}

// Resolve selects the package of one application. Candidates are ranked from
// the listing and their heads are read newest first until one qualifies.
func (r *Resolver) Resolve(ctx context.Context, application string) (artifact.ResolvedVersion, error) {
	objects, err := r.listObjects(ctx, application)
	if err != nil {
		return artifact.ResolvedVersion{}, err
	}

	policy := r.group.Policy()
	logger := slogctx.FromCtx(ctx).With("kind", r.group.Kind(), "application", application)
	ranked := artifact.RankObjects(objects, policy.Extensions)
	for _, candidate := range ranked {
		object, found, err := r.head(ctx, candidate)
		if err != nil {
			return artifact.ResolvedVersion{}, err
		}
		if !found {
			continue
		}
		match, err := artifact.QualifyObject(object, r.group.Filters(), policy)
		if err != nil {
			logger.Debug("skipping object", "key", object.Key, "error", err)
			continue
		}
		token, err := match.Token(policy)
		if err != nil {
			return artifact.ResolvedVersion{}, fmt.Errorf("%s: %w", object.Key, err)
		}
		logger.Debug("selected object", "key", object.Key, "token", token)
		return artifact.ResolvedVersion{
			Kind:            r.group.Kind(),
			Application:     application,
			Token:           token,
			SourceTimestamp: object.LastModified,
			Origin:          object.Key,
		}, nil
	}
	return artifact.ResolvedVersion{}, artifact.NoQualifyingObject(len(objects), len(ranked), r.group.Filters())
}

// listObjects returns the packages stored directly under the application
// prefix. Keys in deeper folders are grouped by the delimiter and ignored.
func (r *Resolver) listObjects(ctx context.Context, application string) ([]artifact.Object, error) {
	prefix := r.group.ApplicationPrefix(application)
	paginator := s3.NewListObjectsV2Paginator(r.api, &s3.ListObjectsV2Input{
		Bucket:    aws.String(r.group.Bucket()),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	var objects []artifact.Object
	for paginator.HasMorePages() {
		page, _, err := awsclient.Retry(ctx, r.retry, func(ctx context.Context) (*s3.ListObjectsV2Output, error) {
			return paginator.NextPage(ctx)
		})
		if err != nil {
			return nil, listError(r.group.Bucket(), prefix, err)
		}
		for _, item := range page.Contents {
			key := aws.ToString(item.Key)
			if strings.HasSuffix(key, "/") {
				continue
			}
			objects = append(objects, artifact.Object{
				Key:          key,
				LastModified: aws.ToTime(item.LastModified),
			})
		}
	}
	return objects, nil
}

// head fills metadata and version id. An object deleted since the listing is
// reported as not found rather than as an error.
func (r *Resolver) head(ctx context.Context, object artifact.Object) (artifact.Object, bool, error) {
	out, _, err := awsclient.Retry(ctx, r.retry, func(ctx context.Context) (*s3.HeadObjectOutput, error) {
		return r.api.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(r.group.Bucket()),
			Key:    aws.String(object.Key),
		})
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return object, false, nil
		}
		return object, false, fmt.Errorf("head s3://%s/%s: %w", r.group.Bucket(), object.Key, err)
	}
	object.Metadata = out.Metadata
	if object.Metadata == nil {
		object.Metadata = map[string]string{}
	}
	object.VersionID = aws.ToString(out.VersionId)
	return object, true, nil
}

func listError(bucket, prefix string, err error) error {
	var noBucket *types.NoSuchBucket
	if errors.As(err, &noBucket) {
		return fmt.Errorf("bucket %s does not exist", bucket)
	}
	return fmt.Errorf("list s3://%s/%s: %w", bucket, prefix, err)
}
