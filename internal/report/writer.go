// Package report provides report generation for filesystem inspection results.
// It defines the ReportWriter interface and implementations for Excel and HTML.
package report

import (
	"dfinspect/internal/model"
)

// ReportWriter defines the interface for generating inspection reports.
type ReportWriter interface {
	// Write generates a report from the inspection result and saves it
	// to outputPath. The writer appends its own file extension when missing.
	Write(result *model.InspectionResult, outputPath string) error

	// Format returns the format identifier for this writer ("excel", "html").
	Format() string
}
