// Where: internal/command/validate.go
// What: validate command adapter.
// Why: Check a request offline before handing it to a pipeline.
package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/poruru-code/versionsync/internal/domain/artifact"
	"github.com/poruru-code/versionsync/internal/domain/request"
	"github.com/poruru-code/versionsync/internal/infra/ui"
)

func runValidate(cli CLI, deps Dependencies) int {
	settings, err := loadSettings(cli, deps)
	if err != nil {
		return exitWithError(deps.ErrOut, err)
	}
	policies, err := settings.Policies()
	if err != nil {
		return exitWithError(deps.ErrOut, err)
	}
	payload, err := readPayload(cli.Validate.Request, deps.In)
	if err != nil {
		return exitWithFatal(deps.ErrOut, err)
	}
	cfg, err := request.Validate(payload, policies)
	if err != nil {
		return exitWithFatal(deps.ErrOut, err)
	}

	out := consoleUI(deps.Out)
	if cfg.Noop() {
		out.Success("request is valid: nothing to do")
		return ExitOK
	}
	out.Block("📋", "Request", describeConfig(cfg))
	out.Success("request is valid")
	return ExitOK
}

func describeConfig(cfg request.Config) []ui.KeyValue {
	identity := "ambient"
	if !cfg.Identity.Ambient() {
		identity = fmt.Sprintf("role %s in %s", cfg.Identity.RoleName, cfg.Identity.AccountID)
	}
	rows := []ui.KeyValue{
		{Key: "get_versions", Value: cfg.GetVersions},
		{Key: "set_versions", Value: cfg.SetVersions},
		{Key: "identity", Value: identity},
	}
	if cfg.SetVersions {
		rows = append(rows, ui.KeyValue{Key: "ssm_prefix", Value: cfg.SSMPrefix})
	}
	for _, source := range cfg.Sources {
		rows = append(rows, ui.KeyValue{Key: source.Kind().String(), Value: describeSource(source)})
	}
	return rows
}

func describeSource(source artifact.Source) string {
	switch s := source.(type) {
	case artifact.SuppliedSource:
		apps := make([]string, 0, len(s.Versions))
		for app := range s.Versions {
			apps = append(apps, app)
		}
		sort.Strings(apps)
		return "supplied " + strings.Join(apps, ", ")
	case artifact.FetchSource:
		switch g := s.Group.(type) {
		case artifact.RegistryGroup:
			return fmt.Sprintf("fetch %s tags %s", strings.Join(g.Repositories(), ", "), g.Filters())
		case artifact.ObjectStoreGroup:
			names := "*"
			if !g.Discover() {
				names = strings.Join(g.Applications(), ", ")
			}
			return fmt.Sprintf("fetch s3://%s/%s/{%s} tags %s", g.Bucket(), g.Prefix(), names, g.Filters())
		}
	}
	return "unknown"
}
