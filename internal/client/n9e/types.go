package n9e

import (
	"encoding/json"

	"dfinspect/internal/model"
)

// TargetsResponse represents the API response from N9E /api/n9e/targets endpoint.
type TargetsResponse struct {
	Dat TargetListData `json:"dat"` // 主机列表数据
	Err string         `json:"err"` // 错误信息（空字符串表示成功）
}

// TargetListData wraps the target list with pagination info.
type TargetListData struct {
	List  []TargetData `json:"list"`  // 主机列表
	Total int          `json:"total"` // 总数
}

// TargetData contains the target fields dfinspect uses.
type TargetData struct {
	ID         int64    `json:"id"`          // 主机 ID
	Ident      string   `json:"ident"`       // 主机标识符（可能为 hostname 或 hostname@IP 格式）
	Tags       []string `json:"tags"`        // 标签列表
	HostTags   []string `json:"host_tags"`   // 主机标签
	HostIP     string   `json:"host_ip"`     // 主机 IP
	OS         string   `json:"os"`          // 操作系统
	RemoteAddr string   `json:"remote_addr"` // 远程地址
	ExtendInfo string   `json:"extend_info"` // 扩展信息（JSON 字符串）
}

// extendInfo is the part of extend_info that refines host metadata.
type extendInfo struct {
	Platform struct {
		Hostname string `json:"hostname"`
		OS       string `json:"os"`
	} `json:"platform"`
	Network struct {
		IPAddress string `json:"ipaddress"`
	} `json:"network"`
}

// ToHostMeta converts N9E target data to the internal HostMeta model.
// Values from extend_info fill in what the target itself leaves empty.
func (t *TargetData) ToHostMeta() *model.HostMeta {
	meta := &model.HostMeta{
		Ident:    t.Ident,
		Hostname: model.CleanIdent(t.Ident),
		IP:       t.HostIP,
		OS:       t.OS,
	}
	meta.Tags = append(meta.Tags, t.Tags...)
	meta.Tags = append(meta.Tags, t.HostTags...)

	if t.ExtendInfo != "" {
		var ext extendInfo
		if err := json.Unmarshal([]byte(t.ExtendInfo), &ext); err == nil {
			if ext.Platform.Hostname != "" {
				meta.Hostname = ext.Platform.Hostname
			}
			if meta.OS == "" {
				meta.OS = ext.Platform.OS
			}
			if meta.IP == "" {
				meta.IP = ext.Network.IPAddress
			}
		}
	}

	if meta.IP == "" {
		meta.IP = t.RemoteAddr
	}
	return meta
}
