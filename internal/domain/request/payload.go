// Where: internal/domain/request/payload.go
// What: Invocation payload as sent by the pipeline state machine.
// Why: Keep the loosely-typed wire shape apart from the validated configuration.
package request

// Payload mirrors the invocation input. Every field is optional; Validate
// turns it into a Config.
type Payload struct {
	GetVersions bool   `json:"get_versions,omitempty"`
	SetVersions bool   `json:"set_versions,omitempty"`
	SSMPrefix   string `json:"ssm_prefix,omitempty"`

	ECRRepositories    []string `json:"ecr_repositories,omitempty"`
	ECRImageTagFilters []string `json:"ecr_image_tag_filters,omitempty"`

	LambdaNames         []string `json:"lambda_names,omitempty"`
	LambdaS3Bucket      string   `json:"lambda_s3_bucket,omitempty"`
	LambdaS3Prefix      string   `json:"lambda_s3_prefix,omitempty"`
	LambdaTagFilters    []string `json:"lambda_tag_filters,omitempty"`
	LambdaVersionSource string   `json:"lambda_version_source,omitempty"`

	FrontendNames         []string `json:"frontend_names,omitempty"`
	FrontendS3Bucket      string   `json:"frontend_s3_bucket,omitempty"`
	FrontendS3Prefix      string   `json:"frontend_s3_prefix,omitempty"`
	FrontendTagFilters    []string `json:"frontend_tag_filters,omitempty"`
	FrontendVersionSource string   `json:"frontend_version_source,omitempty"`

	AccountID    string `json:"account_id,omitempty"`
	RoleToAssume string `json:"role_to_assume,omitempty"`

	Versions map[string]map[string]string `json:"versions,omitempty"`
}

type objectStoreFields struct {
	names         []string
	bucket        string
	prefix        string
	filters       []string
	versionSource string
}

func (p Payload) objectStore(kind string) objectStoreFields {
	if kind == "frontend" {
		return objectStoreFields{
			names:         p.FrontendNames,
			bucket:        p.FrontendS3Bucket,
			prefix:        p.FrontendS3Prefix,
			filters:       p.FrontendTagFilters,
			versionSource: p.FrontendVersionSource,
		}
	}
	return objectStoreFields{
		names:         p.LambdaNames,
		bucket:        p.LambdaS3Bucket,
		prefix:        p.LambdaS3Prefix,
		filters:       p.LambdaTagFilters,
		versionSource: p.LambdaVersionSource,
	}
}
