// Package html writes filesystem inspection results as a standalone HTML page.
package html

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"dfinspect/internal/model"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

const timeLayout = "2006-01-02 15:04:05"

// Writer implements report.ReportWriter for HTML format.
type Writer struct {
	timezone     *time.Location
	templatePath string // 自定义模板路径（可选）
	now          func() time.Time
}

// TemplateData holds all data passed to the HTML template.
type TemplateData struct {
	Title          string
	InspectionTime string
	Duration       string
	Summary        *model.InspectionSummary
	AlertSummary   *model.AlertSummary
	Hosts          []*HostData
	Alerts         []*AlertData
	Version        string
	GeneratedAt    string
}

// HostData is a host formatted for rendering.
type HostData struct {
	Hostname    string
	IP          string
	Status      string
	StatusClass string
	Error       string
	Items       []*ItemData
	AlertCount  int
}

// ItemData is one item verdict formatted for rendering.
type ItemData struct {
	Name        string
	Kind        string
	State       string
	StateClass  string
	Size        string
	UsedPercent string
	Lines       []string
}

// AlertData is an alert formatted for rendering.
type AlertData struct {
	Hostname   string
	Item       string
	State      string
	StateClass string
	Lines      []string
}

// NewWriter creates a new HTML report writer.
// If timezone is nil, it defaults to Asia/Shanghai.
// If templatePath is empty or missing, the embedded template is used.
func NewWriter(timezone *time.Location, templatePath string) *Writer {
	if timezone == nil {
		timezone, _ = time.LoadLocation("Asia/Shanghai")
	}
	return &Writer{
		timezone:     timezone,
		templatePath: templatePath,
		now:          time.Now,
	}
}

// Format returns the format identifier for this writer.
func (w *Writer) Format() string {
	return "html"
}

// Write generates an HTML report from the inspection result.
func (w *Writer) Write(result *model.InspectionResult, outputPath string) error {
	if result == nil {
		return fmt.Errorf("inspection result is nil")
	}
	if !strings.HasSuffix(strings.ToLower(outputPath), ".html") {
		outputPath += ".html"
	}

	tmpl, err := w.loadTemplate()
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := tmpl.Execute(file, w.prepareTemplateData(result)); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

// loadTemplate prefers the user template and falls back to the embedded one.
func (w *Writer) loadTemplate() (*template.Template, error) {
	if w.templatePath != "" {
		if _, err := os.Stat(w.templatePath); err == nil {
			tmpl, err := template.New(filepath.Base(w.templatePath)).ParseFiles(w.templatePath)
			if err != nil {
				return nil, fmt.Errorf("failed to parse user template: %w", err)
			}
			return tmpl, nil
		}
	}

	tmpl, err := template.New("default.html").ParseFS(embeddedTemplates, "templates/default.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}

func (w *Writer) prepareTemplateData(result *model.InspectionResult) *TemplateData {
	summary := result.Summary
	if summary == nil {
		summary = model.NewInspectionSummary(result.Hosts)
	}
	alertSummary := result.AlertSummary
	if alertSummary == nil {
		alertSummary = model.NewAlertSummary(result.Alerts)
	}

	hosts := make([]*HostData, 0, len(result.Hosts))
	for _, host := range result.Hosts {
		if host != nil {
			hosts = append(hosts, convertHostData(host))
		}
	}

	sorted := model.SortAlerts(result.Alerts)
	alerts := make([]*AlertData, 0, len(sorted))
	for _, a := range sorted {
		alerts = append(alerts, &AlertData{
			Hostname:   a.Hostname,
			Item:       a.Item,
			State:      a.State.String(),
			StateClass: stateClass(a.State),
			Lines:      strings.Split(a.Summary, "\n"),
		})
	}

	return &TemplateData{
		Title:          "文件系统巡检报告",
		InspectionTime: result.InspectionTime.In(w.timezone).Format(timeLayout),
		Duration:       formatDuration(result.Duration),
		Summary:        summary,
		AlertSummary:   alertSummary,
		Hosts:          hosts,
		Alerts:         alerts,
		Version:        result.Version,
		GeneratedAt:    w.now().In(w.timezone).Format(timeLayout),
	}
}

func convertHostData(host *model.HostResult) *HostData {
	items := make([]*ItemData, 0, len(host.Items))
	for _, item := range host.Items {
		data := &ItemData{
			Name:        item.Item.Name,
			Kind:        string(item.Item.Kind),
			State:       item.Verdict.State.String(),
			StateClass:  stateClass(item.Verdict.State),
			Size:        "N/A",
			UsedPercent: "N/A",
			Lines:       item.Verdict.Lines(),
		}
		if item.SizeMB > 0 {
			data.Size = humanize.IBytes(uint64(item.SizeMB * 1024 * 1024))
			data.UsedPercent = fmt.Sprintf("%.2f%%", item.UsedPercent)
		}
		items = append(items, data)
	}

	return &HostData{
		Hostname:    host.Hostname,
		IP:          host.IP,
		Status:      statusText(host.Status),
		StatusClass: "status-" + string(host.Status),
		Error:       host.Error,
		Items:       items,
		AlertCount:  len(host.Alerts),
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1f秒", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.1f分钟", d.Minutes())
	default:
		return fmt.Sprintf("%.1f小时", d.Hours())
	}
}

func statusText(status model.HostStatus) string {
	switch status {
	case model.HostStatusNormal:
		return "正常"
	case model.HostStatusWarning:
		return "警告"
	case model.HostStatusCritical:
		return "严重"
	case model.HostStatusSkipped:
		return "跳过"
	default:
		return "未知"
	}
}

func stateClass(state model.State) string {
	return "state-" + strings.ToLower(state.String())
}
