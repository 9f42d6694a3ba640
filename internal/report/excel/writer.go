// Package excel writes filesystem inspection results as .xlsx workbooks with
// a summary sheet, a per-item detail sheet and an alert sheet.
package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/xuri/excelize/v2"

	"dfinspect/internal/model"
)

const (
	sheetSummary = "巡检概览"
	sheetDetail  = "详细数据"
	sheetAlerts  = "异常汇总"

	defaultSheet = "Sheet1"

	// RGB without #
	colorWarningBg  = "FFEB9C"
	colorWarningFg  = "9C6500"
	colorCriticalBg = "FFC7CE"
	colorCriticalFg = "9C0006"
	colorUnknownBg  = "D9D9D9"
	colorUnknownFg  = "3F3F3F"
	colorNormalBg   = "C6EFCE"
	colorNormalFg   = "006100"
	colorHeaderBg   = "4472C4"
	colorHeaderFg   = "FFFFFF"

	timeLayout = "2006-01-02 15:04:05"
)

// Writer implements report.ReportWriter for Excel format.
type Writer struct {
	timezone *time.Location
}

// NewWriter creates a new Excel report writer.
// If timezone is nil, it defaults to Asia/Shanghai.
func NewWriter(timezone *time.Location) *Writer {
	if timezone == nil {
		timezone, _ = time.LoadLocation("Asia/Shanghai")
	}
	return &Writer{timezone: timezone}
}

// Format returns the format identifier for this writer.
func (w *Writer) Format() string {
	return "excel"
}

// styles holds the cell style ids shared by all sheets.
type styles struct {
	header   int
	normal   int
	warning  int
	critical int
	unknown  int
}

// forState returns the style of a cell showing an item state.
func (s *styles) forState(state model.State) int {
	switch state {
	case model.StateOK:
		return s.normal
	case model.StateWarn:
		return s.warning
	case model.StateCrit:
		return s.critical
	default:
		return s.unknown
	}
}

// forStatus returns the style of a cell showing a host status.
func (s *styles) forStatus(status model.HostStatus) int {
	switch status {
	case model.HostStatusNormal:
		return s.normal
	case model.HostStatusWarning:
		return s.warning
	case model.HostStatusCritical:
		return s.critical
	default:
		return s.unknown
	}
}

// Write generates an Excel report from the inspection result.
func (w *Writer) Write(result *model.InspectionResult, outputPath string) error {
	if result == nil {
		return fmt.Errorf("inspection result is nil")
	}
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}

	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("failed to create styles: %w", err)
	}

	if err := w.createSummarySheet(f, result, st); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := w.createDetailSheet(f, result, st); err != nil {
		return fmt.Errorf("failed to create detail sheet: %w", err)
	}
	if err := w.createAlertsSheet(f, result, st); err != nil {
		return fmt.Errorf("failed to create alerts sheet: %w", err)
	}

	// Sheet1 only exists in a fresh workbook
	_ = f.DeleteSheet(defaultSheet)
	if idx, err := f.GetSheetIndex(sheetSummary); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

func (w *Writer) createSummarySheet(f *excelize.File, result *model.InspectionResult, st *styles) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 18},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	valueStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 12},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	_ = f.SetColWidth(sheetSummary, "A", "A", 20)
	_ = f.SetColWidth(sheetSummary, "B", "B", 30)

	_ = f.MergeCell(sheetSummary, "A1", "B1")
	_ = f.SetCellValue(sheetSummary, "A1", "文件系统巡检报告")
	_ = f.SetCellStyle(sheetSummary, "A1", "B1", titleStyle)
	_ = f.SetRowHeight(sheetSummary, 1, 30)

	summary := result.Summary
	if summary == nil {
		summary = model.NewInspectionSummary(result.Hosts)
	}
	alerts := result.AlertSummary
	if alerts == nil {
		alerts = model.NewAlertSummary(result.Alerts)
	}

	rows := []struct {
		label string
		value any
	}{
		{"巡检时间", result.InspectionTime.In(w.timezone).Format(timeLayout)},
		{"巡检耗时", formatDuration(result.Duration)},
		{"主机总数", summary.TotalHosts},
		{"正常主机", summary.NormalHosts},
		{"警告主机", summary.WarningHosts},
		{"严重主机", summary.CriticalHosts},
		{"未知主机", summary.UnknownHosts},
		{"跳过主机", summary.SkippedHosts},
		{"监控项总数", summary.TotalItems},
		{"告警总数", alerts.TotalAlerts},
		{"警告告警", alerts.WarningCount},
		{"严重告警", alerts.CriticalCount},
		{"未知告警", alerts.UnknownCount},
	}
	if result.Version != "" {
		rows = append(rows, struct {
			label string
			value any
		}{"工具版本", result.Version})
	}

	for i, r := range rows {
		row := i + 3
		label := fmt.Sprintf("A%d", row)
		value := fmt.Sprintf("B%d", row)
		_ = f.SetCellValue(sheetSummary, label, r.label)
		_ = f.SetCellValue(sheetSummary, value, r.value)
		_ = f.SetCellStyle(sheetSummary, label, label, st.header)
		_ = f.SetCellStyle(sheetSummary, value, value, valueStyle)
		_ = f.SetRowHeight(sheetSummary, row, 22)
	}
	return nil
}

func (w *Writer) createDetailSheet(f *excelize.File, result *model.InspectionResult, st *styles) error {
	headers := []string{"主机名", "IP 地址", "主机状态", "监控项", "类型", "状态", "总容量", "使用率", "检查输出"}
	widths := []float64{20, 16, 10, 28, 10, 10, 14, 10, 80}
	if err := writeHeader(f, sheetDetail, headers, widths, st.header); err != nil {
		return err
	}

	row := 2
	for _, host := range result.Hosts {
		if host == nil {
			continue
		}
		if len(host.Items) == 0 {
			// hosts without items still appear so that skipped hosts are visible
			w.writeHostCells(f, row, host, st)
			_ = f.SetCellValue(sheetDetail, cell("I", row), host.Error)
			row++
			continue
		}
		for _, item := range host.Items {
			w.writeHostCells(f, row, host, st)
			_ = f.SetCellValue(sheetDetail, cell("D", row), item.Item.Name)
			_ = f.SetCellValue(sheetDetail, cell("E", row), kindText(item.Item.Kind))
			_ = f.SetCellValue(sheetDetail, cell("F", row), item.Verdict.State.String())
			_ = f.SetCellStyle(sheetDetail, cell("F", row), cell("F", row), st.forState(item.Verdict.State))
			if item.SizeMB > 0 {
				_ = f.SetCellValue(sheetDetail, cell("G", row), formatSizeMB(item.SizeMB))
				_ = f.SetCellValue(sheetDetail, cell("H", row), fmt.Sprintf("%.2f%%", item.UsedPercent))
			} else {
				_ = f.SetCellValue(sheetDetail, cell("G", row), "N/A")
				_ = f.SetCellValue(sheetDetail, cell("H", row), "N/A")
			}
			_ = f.SetCellValue(sheetDetail, cell("I", row), strings.Join(item.Verdict.Lines(), "; "))
			row++
		}
	}
	return nil
}

func (w *Writer) writeHostCells(f *excelize.File, row int, host *model.HostResult, st *styles) {
	_ = f.SetCellValue(sheetDetail, cell("A", row), host.Hostname)
	_ = f.SetCellValue(sheetDetail, cell("B", row), host.IP)
	_ = f.SetCellValue(sheetDetail, cell("C", row), statusText(host.Status))
	_ = f.SetCellStyle(sheetDetail, cell("C", row), cell("C", row), st.forStatus(host.Status))
}

func (w *Writer) createAlertsSheet(f *excelize.File, result *model.InspectionResult, st *styles) error {
	headers := []string{"主机名", "监控项", "告警级别", "检查输出"}
	widths := []float64{20, 28, 12, 80}
	if err := writeHeader(f, sheetAlerts, headers, widths, st.header); err != nil {
		return err
	}

	for i, alert := range model.SortAlerts(result.Alerts) {
		row := i + 2
		_ = f.SetCellValue(sheetAlerts, cell("A", row), alert.Hostname)
		_ = f.SetCellValue(sheetAlerts, cell("B", row), alert.Item)
		_ = f.SetCellValue(sheetAlerts, cell("C", row), alert.State.String())
		_ = f.SetCellStyle(sheetAlerts, cell("C", row), cell("C", row), st.forState(alert.State))
		_ = f.SetCellValue(sheetAlerts, cell("D", row), strings.ReplaceAll(alert.Summary, "\n", "; "))
	}
	return nil
}

// writeHeader creates sheet with a styled, frozen header row.
func writeHeader(f *excelize.File, sheet string, headers []string, widths []float64, style int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	for i, width := range widths {
		col := columnName(i + 1)
		_ = f.SetColWidth(sheet, col, col, width)
	}
	for i, header := range headers {
		c := cell(columnName(i+1), 1)
		_ = f.SetCellValue(sheet, c, header)
		_ = f.SetCellStyle(sheet, c, c, style)
	}
	_ = f.SetRowHeight(sheet, 1, 25)
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func newStyles(f *excelize.File) (*styles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: colorHeaderFg},
		Fill: excelize.Fill{Type: "pattern", Color: []string{colorHeaderBg}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, err
	}
	st := &styles{header: header}
	fills := []struct {
		dst    *int
		bg, fg string
	}{
		{&st.normal, colorNormalBg, colorNormalFg},
		{&st.warning, colorWarningBg, colorWarningFg},
		{&st.critical, colorCriticalBg, colorCriticalFg},
		{&st.unknown, colorUnknownBg, colorUnknownFg},
	}
	for _, fill := range fills {
		id, err := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Color: fill.fg},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{fill.bg}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err != nil {
			return nil, err
		}
		*fill.dst = id
	}
	return st, nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// columnName converts a 1-based column index to its letter name (1 -> A, 27 -> AA).
func columnName(index int) string {
	result := ""
	for index > 0 {
		index--
		result = string(rune('A'+index%26)) + result
		index /= 26
	}
	return result
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

// formatSizeMB renders a size given in MiB with IEC units.
func formatSizeMB(mb float64) string {
	return humanize.IBytes(uint64(mb * 1024 * 1024))
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

func kindText(kind model.ItemKind) string {
	if kind == model.ItemKindGroup {
		return "分组"
	}
	return "文件系统"
}
