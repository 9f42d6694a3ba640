package html

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dfinspect/internal/model"
)

func TestNewWriter(t *testing.T) {
	t.Run("nil timezone defaults to Asia/Shanghai", func(t *testing.T) {
		w := NewWriter(nil, "")
		if w.timezone.String() != "Asia/Shanghai" {
			t.Errorf("expected timezone Asia/Shanghai, got %s", w.timezone.String())
		}
	})

	t.Run("with template path", func(t *testing.T) {
		w := NewWriter(nil, "/path/to/template.html")
		if w.templatePath != "/path/to/template.html" {
			t.Errorf("expected template path to be set")
		}
	})
}

func TestWriter_Format(t *testing.T) {
	if got := NewWriter(nil, "").Format(); got != "html" {
		t.Errorf("expected format 'html', got '%s'", got)
	}
}

func TestWriter_Write_NilResult(t *testing.T) {
	err := NewWriter(nil, "").Write(nil, "test.html")
	if err == nil || !strings.Contains(err.Error(), "nil") {
		t.Errorf("expected nil result error, got %v", err)
	}
}

func TestWriter_Write_Success(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "df_report.html")

	if err := newTestWriter().Write(createTestInspectionResult(), outputPath); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	html := string(content)

	for _, want := range []string{
		"文件系统巡检报告",
		"2026-10-19 08:00:00",
		"web-01",
		"(10.0.0.2)",
		"10 GiB",
		"85.00%",
		`<td class="state-crit">CRIT</td>`,
		"<div>warn/crit at 80.00%/90.00%</div>",
		"datasource unavailable",
		"v1.2.0",
		"生成时间：2026-10-19 09:00:00",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q", want)
		}
	}

	// critical alert is listed before the warning
	crit := strings.Index(html, `<td>data</td>`)
	warn := strings.Index(html, `<td class="state-warn">WARN</td>`)
	if crit < 0 || warn < 0 || crit > warn {
		t.Errorf("alerts not ordered by severity (crit=%d warn=%d)", crit, warn)
	}
}

func TestWriter_Write_EscapesSummary(t *testing.T) {
	result := model.NewInspectionResult(time.Now())
	host := model.NewHostResult(&model.HostMeta{Hostname: "web-01"})
	host.AddItem(&model.ItemResult{
		Item:    model.Item{Name: "/<script>"},
		Verdict: model.NewVerdict(model.StateWarn, "<b>bad</b>"),
	})
	result.AddHost(host)
	result.Finalize(time.Now())

	outputPath := filepath.Join(t.TempDir(), "escape.html")
	if err := newTestWriter().Write(result, outputPath); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	content, _ := os.ReadFile(outputPath)
	if strings.Contains(string(content), "<b>bad</b>") || strings.Contains(string(content), "/<script>") {
		t.Error("verdict text must be HTML escaped")
	}
}

func TestWriter_Write_AddsHtmlExtension(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "df_report")

	if err := newTestWriter().Write(createTestInspectionResult(), outputPath); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := os.Stat(outputPath + ".html"); err != nil {
		t.Errorf("expected .html extension to be added: %v", err)
	}
}

func TestWriter_LoadTemplate_CustomNotFound(t *testing.T) {
	w := NewWriter(time.UTC, "/nonexistent/template.html")
	tmpl, err := w.loadTemplate()
	if err != nil {
		t.Fatalf("expected fallback to embedded template, got %v", err)
	}
	if tmpl.Name() != "default.html" {
		t.Errorf("template = %q, want default.html", tmpl.Name())
	}
}

func TestWriter_LoadTemplate_Custom(t *testing.T) {
	dir := t.TempDir()
	tmplPath := filepath.Join(dir, "custom.html")
	custom := `<p>{{.Title}}: {{.Summary.TotalHosts}} hosts, {{len .Alerts}} alerts</p>`
	if err := os.WriteFile(tmplPath, []byte(custom), 0o644); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}

	outputPath := filepath.Join(dir, "out.html")
	w := NewWriter(time.UTC, tmplPath)
	if err := w.Write(createTestInspectionResult(), outputPath); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	content, _ := os.ReadFile(outputPath)
	if got := string(content); got != "<p>文件系统巡检报告: 3 hosts, 2 alerts</p>" {
		t.Errorf("custom template output = %q", got)
	}
}

func TestWriter_LoadTemplate_CustomInvalid(t *testing.T) {
	tmplPath := filepath.Join(t.TempDir(), "broken.html")
	if err := os.WriteFile(tmplPath, []byte("{{.Title"), 0o644); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}
	if _, err := NewWriter(time.UTC, tmplPath).loadTemplate(); err == nil {
		t.Error("expected parse error for broken template")
	}
}

func TestPrepareTemplateData_WithoutFinalize(t *testing.T) {
	result := model.NewInspectionResult(time.Now())
	result.AddHost(model.NewHostResult(&model.HostMeta{Hostname: "web-01"}))

	data := newTestWriter().prepareTemplateData(result)
	if data.Summary == nil || data.Summary.TotalHosts != 1 {
		t.Errorf("summary should be computed when missing, got %+v", data.Summary)
	}
	if data.AlertSummary == nil {
		t.Error("alert summary should be computed when missing")
	}
}

func TestStatusText(t *testing.T) {
	tests := map[model.HostStatus]string{
		model.HostStatusNormal:   "正常",
		model.HostStatusWarning:  "警告",
		model.HostStatusCritical: "严重",
		model.HostStatusSkipped:  "跳过",
		model.HostStatusUnknown:  "未知",
	}
	for status, want := range tests {
		if got := statusText(status); got != want {
			t.Errorf("statusText(%s) = %q, want %q", status, got, want)
		}
	}
}

// ============================================================================
// 测试辅助函数
// ============================================================================

func newTestWriter() *Writer {
	w := NewWriter(time.UTC, "")
	w.now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }
	return w
}

func createTestInspectionResult() *model.InspectionResult {
	start := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	result := model.NewInspectionResult(start)
	result.Version = "v1.2.0"

	web1 := model.NewHostResult(&model.HostMeta{Hostname: "web-01", IP: "10.0.0.1"})
	web1.AddItem(&model.ItemResult{
		Item:        model.Item{Name: "/", Kind: model.ItemKindFilesystem},
		Verdict:     model.NewVerdict(model.StateOK, "Used: 50.00% - 5.00 GiB of 10.0 GiB"),
		SizeMB:      10240,
		UsedPercent: 50,
	})
	result.AddHost(web1)

	web2 := model.NewHostResult(&model.HostMeta{Hostname: "web-02", IP: "10.0.0.2"})
	warn := model.NewVerdict(model.StateWarn, "Used: 85.00%")
	warn.AddLine("warn/crit at 80.00%/90.00%")
	web2.AddItem(&model.ItemResult{
		Item:        model.Item{Name: "/", Kind: model.ItemKindFilesystem},
		Verdict:     warn,
		SizeMB:      1000,
		UsedPercent: 85,
	})
	web2.AddItem(&model.ItemResult{
		Item:    model.Item{Name: "data", Kind: model.ItemKindGroup},
		Verdict: model.NewVerdict(model.StateCrit, "Item not found in monitoring data"),
	})
	result.AddHost(web2)

	db := model.NewHostResult(&model.HostMeta{Hostname: "db-01", IP: "10.0.0.3"})
	db.MarkSkipped("datasource unavailable")
	result.AddHost(db)

	result.Finalize(start.Add(2500 * time.Millisecond))
	return result
}
