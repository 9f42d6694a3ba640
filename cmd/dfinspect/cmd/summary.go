package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"dfinspect/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	ruleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	stateStyle = map[model.State]lipgloss.Style{
		model.StateOK:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		model.StateWarn:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		model.StateCrit:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		model.StateUnknown: lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	}
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

func printBanner(w io.Writer) {
	fmt.Fprintln(w, titleStyle.Render("🔍 文件系统巡检 "+Version))
	fmt.Fprintln(w, ruleStyle.Render(rule))
}

func renderState(s model.State) string {
	return stateStyle[s].Render(s.String())
}

// printSummary prints host counts and every non-OK item.
func printSummary(w io.Writer, result *model.InspectionResult) {
	fmt.Fprintln(w, ruleStyle.Render(rule))
	sum := result.Summary
	fmt.Fprintf(w, "   主机总数: %d   监控项: %d\n", sum.TotalHosts, sum.TotalItems)
	fmt.Fprintf(w, "   正常 %d / %s %d / %s %d / %s %d / 跳过 %d\n",
		sum.NormalHosts,
		stateStyle[model.StateWarn].Render("警告"), sum.WarningHosts,
		stateStyle[model.StateCrit].Render("严重"), sum.CriticalHosts,
		stateStyle[model.StateUnknown].Render("未知"), sum.UnknownHosts,
		sum.SkippedHosts)

	alerts := model.SortAlerts(result.Alerts)
	if len(alerts) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, a := range alerts {
		first, _, _ := strings.Cut(a.Summary, "\n")
		fmt.Fprintf(w, "   %s %s %s - %s\n", renderState(a.State), a.Hostname, a.Item, first)
	}
}

// printHost prints the result of one host, one line per item.
func printHost(w io.Writer, host *model.HostResult) {
	header := fmt.Sprintf("%s (%s)", host.Hostname, host.Status)
	if host.Error != "" {
		header += ": " + host.Error
	}
	fmt.Fprintln(w, titleStyle.Render(header))
	for _, item := range host.Items {
		lines := item.Verdict.Lines()
		first := ""
		if len(lines) > 0 {
			first = lines[0]
		}
		fmt.Fprintf(w, "  %s %s - %s %s\n", renderState(item.Verdict.State), item.Item.Name, first, item.Verdict.State.Marker())
		for _, extra := range lines[min(1, len(lines)):] {
			fmt.Fprintf(w, "      %s\n", extra)
		}
	}
}

// exitCode maps the worst state to the conventional plugin exit code:
// 0 OK, 1 WARN, 2 CRIT, 3 UNKNOWN.
func exitCode(s model.State) int {
	switch s {
	case model.StateOK:
		return 0
	case model.StateWarn:
		return 1
	case model.StateCrit:
		return 2
	default:
		return 3
	}
}
