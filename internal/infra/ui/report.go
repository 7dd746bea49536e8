// Where: internal/infra/ui/report.go
// What: Text rendering of an invocation response.
// Why: Give CLI users a readable summary next to the JSON output.
package ui

import (
	"embed"
	"fmt"
	"io"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/poruru-code/versionsync/internal/domain/artifact"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	reportOnce sync.Once
	reportTmpl *template.Template
	reportErr  error
)

type reportData struct {
	Entries  []artifact.Entry
	Response artifact.Response
}

// RenderReport writes a text summary of resp to out.
func RenderReport(out io.Writer, resp artifact.Response) error {
	tmpl, err := loadReport()
	if err != nil {
		return err
	}
	data := reportData{Entries: resp.Versions.Entries(), Response: resp}
	if err := tmpl.Execute(out, data); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	_, err = fmt.Fprintln(out)
	return err
}

func loadReport() (*template.Template, error) {
	reportOnce.Do(func() {
		funcs := sprig.TxtFuncMap()
		funcs["plural"] = func(one, many string, n int) string {
			if n == 1 {
				return one
			}
			return many
		}
		reportTmpl, reportErr = template.New("report.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/report.tmpl")
	})
	return reportTmpl, reportErr
}
