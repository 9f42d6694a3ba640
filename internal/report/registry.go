package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"dfinspect/internal/report/excel"
	"dfinspect/internal/report/html"
)

// Registry manages report writers for different formats.
type Registry struct {
	writers map[string]ReportWriter
}

// NewRegistry creates a registry with the Excel and HTML writers registered.
// If timezone is nil, defaults to Asia/Shanghai. htmlTemplatePath is optional;
// when empty the HTML writer uses its embedded template.
func NewRegistry(timezone *time.Location, htmlTemplatePath string) *Registry {
	if timezone == nil {
		timezone, _ = time.LoadLocation("Asia/Shanghai")
	}

	r := &Registry{
		writers: make(map[string]ReportWriter),
	}
	for _, w := range []ReportWriter{excel.NewWriter(timezone), html.NewWriter(timezone, htmlTemplatePath)} {
		r.writers[w.Format()] = w
	}
	return r
}

// Get returns the writer for format. Format names are case-insensitive.
func (r *Registry) Get(format string) (ReportWriter, error) {
	writer, ok := r.writers[normalizeFormat(format)]
	if !ok {
		return nil, fmt.Errorf("unsupported report format %q, supported formats: %s",
			format, strings.Join(r.GetAll(), ", "))
	}
	return writer, nil
}

// GetAll returns all supported format names in sorted order.
func (r *Registry) GetAll() []string {
	formats := make([]string, 0, len(r.writers))
	for format := range r.writers {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

// Has checks if the specified format is supported.
func (r *Registry) Has(format string) bool {
	_, ok := r.writers[normalizeFormat(format)]
	return ok
}

func normalizeFormat(format string) string {
	return strings.ToLower(strings.TrimSpace(format))
}
