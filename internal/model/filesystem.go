package model

import "math"

// Inodes holds the inode counters of a filesystem. Both counters are optional upstream,
// so a record carries a nil *Inodes when the source did not report them.
type Inodes struct {
	Total int64 `json:"total" yaml:"total"` // inode 总数
	Avail int64 `json:"avail" yaml:"avail"` // 可用 inode 数
}

// Used returns the number of used inodes, never below zero.
func (i *Inodes) Used() int64 {
	if i == nil || i.Avail > i.Total {
		return 0
	}
	return i.Total - i.Avail
}

// FilesystemRecord is one observed storage object at one point in time.
// Records are built fresh every cycle by a source and treated as immutable.
type FilesystemRecord struct {
	Device     string  `json:"device" yaml:"device"`           // 设备名（可为空）
	Mountpoint string  `json:"mountpoint" yaml:"mountpoint"`   // 挂载点，分组与关联的键
	FSType     string  `json:"fstype,omitempty" yaml:"fstype"` // 文件系统类型
	SizeMB     float64 `json:"size_mb" yaml:"size_mb"`         // 总容量（MB）
	AvailMB    float64 `json:"avail_mb" yaml:"avail_mb"`       // 可用空间（MB）
	ReservedMB float64 `json:"reserved_mb" yaml:"reserved_mb"` // root 保留空间（MB，可能为负）
	Inodes     *Inodes `json:"inodes,omitempty" yaml:"inodes"` // inode 信息（可选）
	IsNA       bool    `json:"is_na" yaml:"is_na"`             // 数据源未返回容量信息
}

// HasData reports whether the record carries usable size information.
// A record flagged IsNA or with a non-finite size, avail or reserved value
// counts as missing data.
func (r *FilesystemRecord) HasData() bool {
	if r.IsNA {
		return false
	}
	return isFinite(r.SizeMB) && isFinite(r.AvailMB) && isFinite(r.ReservedMB)
}

// HasInodes reports whether inode evaluation applies to the record.
func (r *FilesystemRecord) HasInodes() bool {
	return r.Inodes != nil && r.Inodes.Total > 0
}

// NewNARecord creates a record for a mountpoint the source knows about but could not size.
func NewNARecord(device, mountpoint string) FilesystemRecord {
	return FilesystemRecord{
		Device:     device,
		Mountpoint: mountpoint,
		IsNA:       true,
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
