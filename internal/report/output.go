package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"dfinspect/internal/model"
)

const defaultFilenameTemplate = "df_report_{{.Date}}"

var extensions = map[string]string{
	"excel": ".xlsx",
	"html":  ".html",
}

// filenameData is available to the filename template.
type filenameData struct {
	Date string // 2006-01-02
	Time string // 150405
}

// OutputBase renders the filename template for at and joins it with dir.
// The result carries no extension; each writer appends its own.
func OutputBase(dir, filenameTemplate string, at time.Time) (string, error) {
	if filenameTemplate == "" {
		filenameTemplate = defaultFilenameTemplate
	}
	tmpl, err := template.New("filename").Option("missingkey=error").Parse(filenameTemplate)
	if err != nil {
		return "", fmt.Errorf("invalid filename template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, filenameData{
		Date: at.Format("2006-01-02"),
		Time: at.Format("150405"),
	}); err != nil {
		return "", fmt.Errorf("failed to render filename template: %w", err)
	}
	name := strings.TrimSpace(buf.String())
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid report filename %q", name)
	}
	return filepath.Join(dir, name), nil
}

// WriteAll writes result in every format to base plus the format extension,
// creating the parent directory if needed. It returns the written paths.
func (r *Registry) WriteAll(result *model.InspectionResult, formats []string, base string) ([]string, error) {
	if dir := filepath.Dir(base); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		writer, err := r.Get(format)
		if err != nil {
			return paths, err
		}
		path := base + extensions[writer.Format()]
		if err := writer.Write(result, path); err != nil {
			return paths, fmt.Errorf("failed to write %s report: %w", writer.Format(), err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
