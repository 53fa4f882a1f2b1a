// Package report renders an experiment as a self-contained HTML page.
package report

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/stellarlinkco/openeval/internal/runner"
)

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct":   func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) },
	"score": func(v float64) string { return fmt.Sprintf("%.4f", v) },
	"usd":   func(v float64) string { return fmt.Sprintf("$%.4f", v) },
}).Parse(reportHTML))

// Render writes the HTML report for an experiment.
func Render(w io.Writer, exp *runner.ExperimentResult) error {
	if exp == nil {
		return errors.New("report: nil experiment")
	}
	if err := reportTmpl.Execute(w, exp); err != nil {
		return fmt.Errorf("report: render: %w", err)
	}
	return nil
}

// WriteFile renders the report to a file.
func WriteFile(path string, exp *runner.ExperimentResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	defer f.Close()

	if err := Render(f, exp); err != nil {
		return err
	}
	return f.Close()
}

const reportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Name}} - evaluation report</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; background: #111727; color: #e2e8f0; margin: 2rem; }
h1 { font-size: 1.4rem; }
table { border-collapse: collapse; width: 100%; margin: 1rem 0; }
th, td { text-align: left; padding: 0.4rem 0.8rem; border-bottom: 1px solid #2d3748; }
th { color: #a0aec0; font-weight: 600; }
.pass { color: #68d391; }
.fail { color: #fc8181; }
.muted { color: #718096; }
.meta { color: #a0aec0; font-size: 0.9rem; }
</style>
</head>
<body>
<h1>{{.Name}}</h1>
<p class="meta">{{.CreatedAt.Format "2006-01-02 15:04:05 MST"}} &middot; {{len .Results}} cases &middot; {{.DurationMs}} ms &middot; {{.TotalTokens}} tokens &middot; {{usd .TotalCostUSD}}</p>

<h2>Summary</h2>
<table>
<tr><th>Scorer</th><th>Mean</th><th>Min</th><th>Max</th><th>Pass rate</th><th>Cases</th></tr>
{{range $name, $s := .Summary}}
<tr>
<td>{{$name}}</td>
<td>{{score $s.Mean}}</td>
<td>{{score $s.Min}}</td>
<td>{{score $s.Max}}</td>
<td>{{pct $s.PassRate}}</td>
<td>{{$s.Count}}</td>
</tr>
{{end}}
</table>

<h2>Cases</h2>
<table>
<tr><th>Input</th><th>Output</th><th>Scores</th><th>Status</th></tr>
{{range .Results}}
<tr>
<td>{{.Input}}</td>
<td>{{if .Error}}<span class="muted">n/a</span>{{else}}{{.ActualOutput}}{{end}}</td>
<td>
{{range $name, $r := .Scores}}
<div><span class="{{if $r.Passed}}pass{{else}}fail{{end}}">{{$name}}: {{score $r.Value}}</span>{{with $r.Reason}} <span class="muted">{{.}}</span>{{end}}</div>
{{end}}
</td>
<td>{{if .Error}}<span class="fail">error: {{.Error}}</span>{{else}}<span class="pass">scored</span>{{end}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`
