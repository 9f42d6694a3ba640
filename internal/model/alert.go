package model

import "sort"

// Alert represents a non-OK item verdict on a host.
type Alert struct {
	Hostname string `json:"hostname"` // 主机名
	Item     string `json:"item"`     // 监控项
	State    State  `json:"state"`    // 状态
	Summary  string `json:"summary"`  // 检查输出
}

// NewAlert creates an alert from an item result.
func NewAlert(hostname string, item *ItemResult) *Alert {
	return &Alert{
		Hostname: hostname,
		Item:     item.Item.Name,
		State:    item.Verdict.State,
		Summary:  item.Verdict.Summary,
	}
}

// IsWarning returns true if this alert is at warning level.
func (a *Alert) IsWarning() bool {
	return a.State == StateWarn
}

// IsCritical returns true if this alert is at critical level.
func (a *Alert) IsCritical() bool {
	return a.State == StateCrit
}

// AlertSummary provides aggregated alert statistics.
type AlertSummary struct {
	TotalAlerts   int `json:"total_alerts"`   // 告警总数
	WarningCount  int `json:"warning_count"`  // 警告级别数量
	CriticalCount int `json:"critical_count"` // 严重级别数量
	UnknownCount  int `json:"unknown_count"`  // 未知级别数量
}

// NewAlertSummary creates a new AlertSummary from a list of alerts.
func NewAlertSummary(alerts []*Alert) *AlertSummary {
	summary := &AlertSummary{}
	for _, alert := range alerts {
		if alert == nil {
			continue
		}
		summary.TotalAlerts++
		switch alert.State {
		case StateWarn:
			summary.WarningCount++
		case StateCrit:
			summary.CriticalCount++
		case StateUnknown:
			summary.UnknownCount++
		}
	}
	return summary
}

// SortAlerts returns a copy of alerts ordered by severity (critical first),
// then by hostname and item. Nil entries are dropped.
func SortAlerts(alerts []*Alert) []*Alert {
	sorted := make([]*Alert, 0, len(alerts))
	for _, a := range alerts {
		if a != nil {
			sorted = append(sorted, a)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.State != b.State {
			return a.State.severity() > b.State.severity()
		}
		if a.Hostname != b.Hostname {
			return a.Hostname < b.Hostname
		}
		return a.Item < b.Item
	})
	return sorted
}
