// Where: internal/infra/paramstore/writer.go
// What: SSM Parameter Store writer with bounded retry.
// Why: Publish version tokens as overwritable String parameters.
package paramstore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/poruru-code/versionsync/internal/infra/awsclient"
)

// API is the subset of the SSM client used here.
type API interface {
	PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
}

// Writer puts parameters, retrying throttling and server errors.
type Writer struct {
	api   API
	retry awsclient.RetryPolicy
}

func New(api API, retry awsclient.RetryPolicy) *Writer {
	return &Writer{api: api, retry: retry}
}

// Write stores value at path, overwriting any previous value. It returns the
// number of attempts made.
func (w *Writer) Write(ctx context.Context, path, value string) (int, error) {
	_, attempts, err := awsclient.Retry(ctx, w.retry, func(ctx context.Context) (*ssm.PutParameterOutput, error) {
		return w.api.PutParameter(ctx, &ssm.PutParameterInput{
			Name:      aws.String(path),
			Value:     aws.String(value),
			Type:      types.ParameterTypeString,
			Overwrite: aws.Bool(true),
		})
	})
	if err != nil {
		return attempts, fmt.Errorf("put parameter %s: %w", path, err)
	}
	return attempts, nil
}
