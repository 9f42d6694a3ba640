package model

// RecordField names a FilesystemRecord field that a query fills in.
type RecordField string

const (
	FieldSize        RecordField = "size"         // 总容量
	FieldAvail       RecordField = "avail"        // 可用空间
	FieldReserved    RecordField = "reserved"     // root 保留空间
	FieldInodesTotal RecordField = "inodes_total" // inode 总数
	FieldInodesFree  RecordField = "inodes_free"  // 可用 inode 数
)

// ValueUnit is the unit a query returns its samples in.
type ValueUnit string

const (
	UnitBytes     ValueUnit = "bytes"     // 字节
	UnitKilobytes ValueUnit = "kilobytes" // KB
	UnitMegabytes ValueUnit = "megabytes" // MB
	UnitCount     ValueUnit = "count"     // 个数（inode）
)

// ToMB returns the factor that converts a value in this unit into MB.
func (u ValueUnit) ToMB() float64 {
	switch u {
	case UnitKilobytes:
		return 1.0 / 1024
	case UnitMegabytes, UnitCount:
		return 1
	default:
		return 1.0 / (1024 * 1024)
	}
}

// QueryDefinition maps one record field to a PromQL expression, loaded from df-queries.yaml.
type QueryDefinition struct {
	Field RecordField `yaml:"field" json:"field"`                   // 记录字段
	Query string      `yaml:"query" json:"query"`                   // PromQL 查询表达式
	Unit  ValueUnit   `yaml:"unit,omitempty" json:"unit,omitempty"` // 返回值单位
	Note  string      `yaml:"note,omitempty" json:"note,omitempty"` // 备注说明
}

// IsPending returns true if the field has no query configured.
func (d *QueryDefinition) IsPending() bool {
	return d.Query == ""
}

// QueriesConfig represents the root structure of df-queries.yaml.
type QueriesConfig struct {
	// Labels used to join the field queries into records.
	PathLabel   string             `yaml:"path_label" json:"path_label"`
	DeviceLabel string             `yaml:"device_label" json:"device_label"`
	FSTypeLabel string             `yaml:"fstype_label" json:"fstype_label"`
	Queries     []*QueryDefinition `yaml:"queries" json:"queries"`
}

// Get returns the definition for a field, or nil.
func (c *QueriesConfig) Get(field RecordField) *QueryDefinition {
	for _, q := range c.Queries {
		if q != nil && q.Field == field {
			return q
		}
	}
	return nil
}
