// Where: internal/infra/ui/report_test.go
// What: Tests for the text report.
// Why: Keep the summary stable for pipeline logs.
package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/poruru-code/versionsync/internal/domain/artifact"
)

func TestRenderReportListsVersionsAndFailures(t *testing.T) {
	resp := artifact.NewResponse(
		artifact.VersionMap{
			artifact.KindRegistry: {"app-a": "abc1234"},
			artifact.KindFunction: {"orders": "v3"},
		},
		[]artifact.ResolutionFailure{{Kind: artifact.KindBundle, Application: "portal", Reason: "no objects found"}},
		[]string{"/myapp/versions/app-a"},
		[]artifact.WriteFailure{{Kind: artifact.KindFunction, Application: "orders", Path: "/myapp/versions/orders", Reason: "throttled", Attempts: 5}},
	)

	var buf bytes.Buffer
	if err := RenderReport(&buf, resp); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Versions (2)",
		"abc1234",
		"Written parameters (1)",
		"/myapp/versions/app-a",
		"Resolution failures (1)",
		"no objects found",
		"/myapp/versions/orders after 5 attempts: throttled",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in report:\n%s", want, out)
		}
	}
	if strings.Index(out, "ecr") > strings.Index(out, "lambda") {
		t.Fatalf("expected entries sorted by kind:\n%s", out)
	}
}

func TestRenderReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderReport(&buf, artifact.EmptyResponse()); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Versions (0)") || !strings.Contains(out, "(none)") {
		t.Fatalf("unexpected empty report: %q", out)
	}
	if strings.Contains(out, "failures") {
		t.Fatalf("empty report must not list failures: %q", out)
	}
}

func TestConsoleUIWarnWithoutEmoji(t *testing.T) {
	var buf bytes.Buffer
	NewUI(&buf, false).Warn("partial result")
	if got := buf.String(); got != "[warn] partial result\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}
