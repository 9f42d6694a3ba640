package model

import "strings"

// HostStatus represents the overall health status of a host.
type HostStatus string

const (
	HostStatusNormal   HostStatus = "normal"   // 正常
	HostStatusWarning  HostStatus = "warning"  // 警告
	HostStatusCritical HostStatus = "critical" // 严重
	HostStatusUnknown  HostStatus = "unknown"  // 未知
	HostStatusSkipped  HostStatus = "skipped"  // 本轮跳过（数据源不可用）
)

// HostStatusFromState maps the worst item state of a host to a host status.
func HostStatusFromState(s State) HostStatus {
	switch s {
	case StateCrit:
		return HostStatusCritical
	case StateWarn:
		return HostStatusWarning
	case StateUnknown:
		return HostStatusUnknown
	default:
		return HostStatusNormal
	}
}

// HostMeta contains basic metadata about a host taken from the inventory.
type HostMeta struct {
	Ident    string   `json:"ident"`          // 原始标识符
	Hostname string   `json:"hostname"`       // 主机名（从 ident 清理得到）
	IP       string   `json:"ip"`             // IP 地址
	OS       string   `json:"os"`             // 操作系统类型
	Tags     []string `json:"tags,omitempty"` // 标签
}

// CleanIdent extracts the hostname from an ident string.
// It handles the "hostname@IP" format by returning only the hostname part.
func CleanIdent(ident string) string {
	if idx := strings.Index(ident, "@"); idx > 0 {
		return ident[:idx]
	}
	return ident
}
