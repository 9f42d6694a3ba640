package model

// ItemKind distinguishes single filesystems from aggregated groups.
type ItemKind string

const (
	ItemKindFilesystem ItemKind = "filesystem" // 单个文件系统
	ItemKindGroup      ItemKind = "group"      // 文件系统分组
)

// GroupPatterns are the shell-style include/exclude globs of a filesystem group.
type GroupPatterns struct {
	Include []string `json:"include" yaml:"include" mapstructure:"include"`
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty" mapstructure:"exclude"`
}

// Item is a single monitorable unit produced by discovery.
// Items carry the naming modes, and group items the patterns, that were in
// effect when they were discovered. Empty modes fall back to the current settings.
type Item struct {
	Name              string         `json:"name" yaml:"name"`                                                 // 监控项名称（挂载点或分组名）
	Kind              ItemKind       `json:"kind" yaml:"kind"`                                                 // 监控项类型
	Patterns          *GroupPatterns `json:"patterns,omitempty" yaml:"patterns,omitempty"`                     // 分组模式（仅分组）
	ItemAppearance    string         `json:"item_appearance,omitempty" yaml:"item_appearance,omitempty"`       // 发现时的命名方式
	GroupingBehaviour string         `json:"grouping_behaviour,omitempty" yaml:"grouping_behaviour,omitempty"` // 发现时的分组匹配方式
}

// IsGroup returns true if the item aggregates several filesystems.
func (i *Item) IsGroup() bool {
	return i.Kind == ItemKindGroup
}
