// Package report renders validation results of a test session as Markdown
// or HTML.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/vrulab/vru-validation/pkg/model"
)

// Format selects the report output
type Format string

const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

// ParseFormat accepts md, markdown and html. An empty string means md.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

// ContentType returns the HTTP content type of the format
func (f Format) ContentType() string {
	if f == FormatHTML {
		return "text/html; charset=utf-8"
	}
	return "text/markdown; charset=utf-8"
}

// Report is everything shown for one test session
type Report struct {
	Session     model.TestSession
	Project     *model.Project
	Result      *model.TestResult
	Comparisons []model.DetectionComparison
	GeneratedAt time.Time
}

var funcs = template.FuncMap{
	"pct": func(v float64) string { return fmt.Sprintf("%.1f%%", v*100) },
	"ms":  func(v float64) string { return fmt.Sprintf("%.1f", v*1000) },
	"optms": func(v *float64) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprintf("%.1f", *v*1000)
	},
	"optf": func(v *float64) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprintf("%.2f", *v)
	},
	"opts": func(v *string) string {
		if v == nil {
			return "-"
		}
		return "`" + *v + "`"
	},
	"ts": func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.UTC().Format(time.RFC3339)
	},
	"inc": func(i int) int { return i + 1 },
}

var markdownTemplate = template.Must(template.New("report").Funcs(funcs).Parse(`# Validation report: {{ .Session.Name }}

- Test session: ` + "`{{ .Session.ID }}`" + `
{{- if .Project }}
- Project: {{ .Project.Name }}
{{- end }}
- Video: ` + "`{{ .Session.VideoID }}`" + `
- Tolerance: {{ .Session.ToleranceMs }} ms
- Status: {{ .Session.Status }}
- Completed: {{ ts .Session.CompletedAt }}

## Summary
{{ if .Result }}
| Metric | Value |
|---|---|
| True positives | {{ .Result.TruePositives }} |
| False positives | {{ .Result.FalsePositives }} |
| False negatives | {{ .Result.FalseNegatives }} |
| Precision | {{ pct .Result.Precision }} |
| Recall | {{ pct .Result.Recall }} |
| F1 score | {{ pct .Result.F1Score }} |
| Accuracy | {{ pct .Result.Accuracy }} |
| Mean timing error | {{ ms .Result.MeanTimingError }} ms |
| Timing error std dev | {{ ms .Result.TimingErrorStdDev }} ms |
{{ else }}
_No validation result yet._
{{ end }}
{{- if .Comparisons }}
## Comparisons

| # | Match | Reference | Detection | Δt (ms) | IoU |
|---|---|---|---|---|---|
{{- range $i, $c := .Comparisons }}
| {{ inc $i }} | {{ $c.MatchType }} | {{ opts $c.ReferenceID }} | {{ opts $c.DetectionEventID }} | {{ optms $c.TimeDifference }} | {{ optf $c.IoU }} |
{{- end }}
{{ end }}
_Generated {{ .GeneratedAt.UTC.Format "2006-01-02T15:04:05Z07:00" }}_
`))

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// Markdown renders r as a Markdown document
func Markdown(r Report) ([]byte, error) {
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now()
	}
	var buf bytes.Buffer
	if err := markdownTemplate.Execute(&buf, r); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// HTML renders r as a standalone HTML page
func HTML(r Report) ([]byte, error) {
	md, err := Markdown(r)
	if err != nil {
		return nil, err
	}
	var body bytes.Buffer
	if err := markdown.Convert(md, &body); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&buf, "<title>Validation report: %s</title>\n", template.HTMLEscapeString(r.Session.Name))
	buf.WriteString("</head>\n<body>\n")
	buf.Write(body.Bytes())
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}

// Render renders r in the given format
func Render(r Report, f Format) ([]byte, error) {
	if f == FormatHTML {
		return HTML(r)
	}
	return Markdown(r)
}
