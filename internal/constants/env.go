// Where: internal/constants/env.go
// What: Environment variable naming constants.
// Why: Centralize environment variable names to avoid typos and inconsistencies.
package constants

const (
	// Root namespace supplied by the surrounding deployment
	EnvNamePrefix = "NAME_PREFIX"
	EnvSSMPrefix  = "SSM_PREFIX"

	// AWS
	EnvAWSRegion        = "AWS_REGION"
	EnvAWSDefaultRegion = "AWS_DEFAULT_REGION"
	EnvLambdaRuntimeAPI = "AWS_LAMBDA_RUNTIME_API"

	// Engine Configuration
	EnvConfigPath        = "VERSIONSYNC_CONFIG"
	EnvConcurrency       = "VERSIONSYNC_CONCURRENCY"
	EnvLogLevel          = "VERSIONSYNC_LOG_LEVEL"
	EnvLogFormat         = "VERSIONSYNC_LOG_FORMAT"
	EnvDeadlineMargin    = "VERSIONSYNC_DEADLINE_MARGIN"
	EnvCrossAccountReads = "VERSIONSYNC_CROSS_ACCOUNT_READS"

	// CLI branding
	EnvCLICmd = "CLI_CMD"
)
