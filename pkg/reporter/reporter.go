package reporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"gopkg.in/yaml.v3"

	"github.com/amosWeiskopf/hostcrawl/internal/models"
)

// Reporter handles report generation in various formats
type Reporter struct{}

// New creates a new Reporter instance
func New() *Reporter {
	return &Reporter{}
}

// Generate renders a crawl result in the specified format
func (r *Reporter) Generate(result *models.CrawlResult, format string) (string, error) {
	if result == nil {
		return "", fmt.Errorf("no crawl result to report")
	}

	switch strings.ToLower(format) {
	case "json":
		return r.generateJSON(result)
	case "yaml":
		return r.generateYAML(result)
	case "markdown", "md":
		return r.generateMarkdown(result)
	case "html":
		return r.generateHTML(result)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// generateJSON creates a JSON formatted report
func (r *Reporter) generateJSON(result *models.CrawlResult) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	return string(data), nil
}

func (r *Reporter) generateYAML(result *models.CrawlResult) (string, error) {
	data, err := yaml.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	return string(data), nil
}

// generateMarkdown creates a Markdown formatted report
func (r *Reporter) generateMarkdown(result *models.CrawlResult) (string, error) {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	md.H1("Crawl Report for " + result.Host)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed", "`" + result.Seed + "`"},
			{"Started", result.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", result.Duration.Round(time.Millisecond).String()},
			{"Workers", strconv.Itoa(result.Workers)},
			{"Page Budget", strconv.Itoa(result.MaxPages)},
			{"Pages Dequeued", strconv.Itoa(result.Dequeued)},
			{"Pages Visited", strconv.Itoa(result.TotalPages())},
			{"Fetch Failures", strconv.Itoa(result.FetchFailures)},
			{"Status", statusText(result)},
		},
	})
	md.PlainText("")

	md.H2("Visited Pages")
	md.PlainText("")
	if len(result.Visited) == 0 {
		md.PlainText("No pages were visited.")
	} else {
		md.BulletList(result.Visited...)
	}
	md.PlainText("")

	if failures := result.Failures(); len(failures) > 0 {
		md.H2("Failures")
		md.PlainText("")
		rows := make([][]string, 0, len(failures))
		for _, p := range failures {
			rows = append(rows, []string{p.URL, p.Error})
		}
		md.Table(markdown.TableSet{
			Header: []string{"URL", "Error"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if err := md.Build(); err != nil {
		return "", fmt.Errorf("failed to build markdown: %w", err)
	}
	return buf.String(), nil
}

// generateHTML creates an HTML formatted report
func (r *Reporter) generateHTML(result *models.CrawlResult) (string, error) {
	tmpl := `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Crawl Report - {{.Result.Host}}</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
            background: #f5f5f5;
        }
        .card {
            background: white;
            border-radius: 8px;
            padding: 20px;
            margin-bottom: 20px;
            box-shadow: 0 1px 3px rgba(0,0,0,0.1);
        }
        table { border-collapse: collapse; width: 100%; }
        td, th { text-align: left; padding: 6px 10px; border-bottom: 1px solid #eee; }
        .error { color: #c0392b; }
    </style>
</head>
<body>
    <div class="card">
        <h1>Crawl Report - {{.Result.Host}}</h1>
        <table>
            <tr><th>Seed</th><td>{{.Result.Seed}}</td></tr>
            <tr><th>Started</th><td>{{.Result.StartedAt.Format "2006-01-02 15:04:05 MST"}}</td></tr>
            <tr><th>Duration</th><td>{{.Duration}}</td></tr>
            <tr><th>Workers</th><td>{{.Result.Workers}}</td></tr>
            <tr><th>Page Budget</th><td>{{.Result.MaxPages}}</td></tr>
            <tr><th>Pages Dequeued</th><td>{{.Result.Dequeued}}</td></tr>
            <tr><th>Pages Visited</th><td>{{.Result.TotalPages}}</td></tr>
            <tr><th>Fetch Failures</th><td>{{.Result.FetchFailures}}</td></tr>
            <tr><th>Status</th><td>{{.Status}}</td></tr>
        </table>
    </div>

    <div class="card">
        <h2>Visited Pages</h2>
        <ul>
        {{range .Result.Visited}}<li><a href="{{.}}">{{.}}</a></li>
        {{end}}
        </ul>
    </div>

    {{if .Failures}}
    <div class="card">
        <h2>Failures</h2>
        <table>
        {{range .Failures}}<tr><td>{{.URL}}</td><td class="error">{{.Error}}</td></tr>
        {{end}}
        </table>
    </div>
    {{end}}
</body>
</html>
`

	t, err := template.New("report").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	data := struct {
		Result   *models.CrawlResult
		Duration string
		Status   string
		Failures []models.Page
	}{
		Result:   result,
		Duration: result.Duration.Round(time.Millisecond).String(),
		Status:   statusText(result),
		Failures: result.Failures(),
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

func statusText(result *models.CrawlResult) string {
	switch {
	case result.Cancelled:
		return "Cancelled (partial results)"
	case result.TimedOut:
		return "Timed out (partial results)"
	case result.BudgetReached:
		return "Page budget reached"
	default:
		return "Complete"
	}
}
