package model

import (
	"fmt"
	"time"
)

// InspectionSummary provides aggregated statistics about the inspection.
type InspectionSummary struct {
	TotalHosts    int `json:"total_hosts"`    // 主机总数
	NormalHosts   int `json:"normal_hosts"`   // 正常主机数
	WarningHosts  int `json:"warning_hosts"`  // 警告主机数
	CriticalHosts int `json:"critical_hosts"` // 严重主机数
	UnknownHosts  int `json:"unknown_hosts"`  // 未知主机数
	SkippedHosts  int `json:"skipped_hosts"`  // 本轮跳过主机数
	TotalItems    int `json:"total_items"`    // 监控项总数
}

// NewInspectionSummary creates a new InspectionSummary from host results.
func NewInspectionSummary(hosts []*HostResult) *InspectionSummary {
	summary := &InspectionSummary{}
	for _, host := range hosts {
		if host == nil {
			continue
		}
		summary.TotalHosts++
		summary.TotalItems += len(host.Items)
		switch host.Status {
		case HostStatusNormal:
			summary.NormalHosts++
		case HostStatusWarning:
			summary.WarningHosts++
		case HostStatusCritical:
			summary.CriticalHosts++
		case HostStatusUnknown:
			summary.UnknownHosts++
		case HostStatusSkipped:
			summary.SkippedHosts++
		}
	}
	return summary
}

// ItemResult is the verdict of one item together with the record it was computed from.
type ItemResult struct {
	Item    Item    `json:"item"`    // 监控项
	Verdict Verdict `json:"verdict"` // 检查结果

	// 汇总后的容量数据，供报表使用
	SizeMB      float64 `json:"size_mb"`      // 总容量（MB）
	UsedPercent float64 `json:"used_percent"` // 使用率（%）
}

// Line renders the result as a single status line, e.g. "CRIT /var - Used: 95.00% (!!)".
func (r *ItemResult) Line() string {
	summary := ""
	if lines := r.Verdict.Lines(); len(lines) > 0 {
		summary = lines[0]
	}
	line := fmt.Sprintf("%s %s - %s", r.Verdict.State, r.Item.Name, summary)
	if marker := r.Verdict.State.Marker(); marker != "" {
		line += " " + marker
	}
	return line
}

// HostResult represents the inspection result for a single host.
type HostResult struct {
	Hostname string     `json:"hostname"` // 主机名
	IP       string     `json:"ip"`       // IP 地址
	Status   HostStatus `json:"status"`   // 整体状态

	Items  []*ItemResult `json:"items"`            // 监控项结果
	Alerts []*Alert      `json:"alerts,omitempty"` // 该主机的告警列表

	CollectedAt time.Time `json:"collected_at"`    // 采集时间
	Error       string    `json:"error,omitempty"` // 采集错误信息
}

// NewHostResult creates a new HostResult from HostMeta.
func NewHostResult(meta *HostMeta) *HostResult {
	if meta == nil {
		return &HostResult{Status: HostStatusUnknown}
	}
	return &HostResult{
		Hostname: meta.Hostname,
		IP:       meta.IP,
		Status:   HostStatusNormal,
		Items:    make([]*ItemResult, 0),
		Alerts:   make([]*Alert, 0),
	}
}

// AddItem records an item result and updates the host status and alerts.
func (r *HostResult) AddItem(item *ItemResult) {
	if item == nil {
		return
	}
	r.Items = append(r.Items, item)
	if item.Verdict.State != StateOK {
		r.Alerts = append(r.Alerts, NewAlert(r.Hostname, item))
	}
	r.Status = HostStatusFromState(r.WorstState())
}

// MarkSkipped flags the host as skipped for this cycle.
func (r *HostResult) MarkSkipped(reason string) {
	r.Status = HostStatusSkipped
	r.Error = reason
}

// WorstState returns the most severe item state of the host.
func (r *HostResult) WorstState() State {
	worst := StateOK
	for _, item := range r.Items {
		worst = Worst(worst, item.Verdict.State)
	}
	return worst
}

// HasAlerts returns true if this host has any alerts.
func (r *HostResult) HasAlerts() bool {
	return len(r.Alerts) > 0
}

// InspectionResult represents the complete result of a filesystem inspection.
type InspectionResult struct {
	// 巡检时间信息
	InspectionTime time.Time     `json:"inspection_time"` // 巡检开始时间
	Duration       time.Duration `json:"duration"`        // 巡检耗时

	// 巡检摘要
	Summary *InspectionSummary `json:"summary"` // 摘要统计

	// 主机结果
	Hosts []*HostResult `json:"hosts"` // 主机巡检结果列表

	// 告警汇总
	Alerts       []*Alert      `json:"alerts"`        // 所有告警列表
	AlertSummary *AlertSummary `json:"alert_summary"` // 告警摘要统计

	// 元数据
	Version string `json:"version,omitempty"` // 工具版本号
}

// NewInspectionResult creates a new InspectionResult with the given inspection time.
func NewInspectionResult(inspectionTime time.Time) *InspectionResult {
	return &InspectionResult{
		InspectionTime: inspectionTime,
		Hosts:          make([]*HostResult, 0),
		Alerts:         make([]*Alert, 0),
	}
}

// AddHost adds a host result to the inspection.
func (r *InspectionResult) AddHost(host *HostResult) {
	if host == nil {
		return
	}
	r.Hosts = append(r.Hosts, host)
	r.Alerts = append(r.Alerts, host.Alerts...)
}

// Finalize calculates summaries after all hosts have been added.
func (r *InspectionResult) Finalize(endTime time.Time) {
	r.Duration = endTime.Sub(r.InspectionTime)
	r.Summary = NewInspectionSummary(r.Hosts)
	r.AlertSummary = NewAlertSummary(r.Alerts)
}

// GetHostByName finds a host result by hostname.
func (r *InspectionResult) GetHostByName(hostname string) *HostResult {
	for _, host := range r.Hosts {
		if host != nil && host.Hostname == hostname {
			return host
		}
	}
	return nil
}

// WorstState returns the most severe item state across all hosts.
func (r *InspectionResult) WorstState() State {
	worst := StateOK
	for _, host := range r.Hosts {
		if host != nil {
			worst = Worst(worst, host.WorstState())
		}
	}
	return worst
}

// HasCritical returns true if any host has critical status.
func (r *InspectionResult) HasCritical() bool {
	return r.Summary != nil && r.Summary.CriticalHosts > 0
}

// HasWarning returns true if any host has warning or unknown status.
func (r *InspectionResult) HasWarning() bool {
	return r.Summary != nil && (r.Summary.WarningHosts > 0 || r.Summary.UnknownHosts > 0)
}
