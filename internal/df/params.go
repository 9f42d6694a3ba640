package df

import "dfinspect/internal/model"

// ShowLevels controls when the levels text is added to the summary.
type ShowLevels string

const (
	ShowLevelsAlways    ShowLevels = "always"
	ShowLevelsOnProblem ShowLevels = "onproblem"
	ShowLevelsOnMagic   ShowLevels = "onmagic"
)

// ShowInodes controls when the inode text is added to the summary.
type ShowInodes string

const (
	ShowInodesAlways    ShowInodes = "always"
	ShowInodesOnLow     ShowInodes = "onlow"
	ShowInodesOnProblem ShowInodes = "onproblem"
)

// NameMode selects how a record is named as an item or matched by a group pattern.
type NameMode string

const (
	NameMountpoint              NameMode = "mountpoint"
	NameVolumeNameAndMountpoint NameMode = "volume_name_and_mountpoint"
)

// ItemName returns the name of a record under the given mode.
func ItemName(rec *model.FilesystemRecord, mode NameMode) string {
	if mode == NameVolumeNameAndMountpoint && rec.Device != "" {
		return rec.Device + " " + rec.Mountpoint
	}
	return rec.Mountpoint
}

// Floor is the lowest warn/crit percentage the magic factor may produce.
type Floor struct {
	Warn float64
	Crit float64
}

// Params is the level configuration of one item.
type Params struct {
	Levels        LevelSpec
	LevelsLow     Floor
	Magic         float64 // 0 disables scaling
	MagicNormsize float64 // GB
	InodesLevels  *LevelSpec

	TrendRange        int // hours, 0 disables the trend
	TrendPerfdata     bool
	TrendMB           *[2]float64 // MB growth per trend range
	TrendPercent      *[2]float64 // % of size growth per trend range
	TrendTimeleft     *[2]float64 // hours left until full
	TrendShowTimeleft bool

	ShowLevels       ShowLevels
	ShowReserved     bool
	SubtractReserved bool
	ShowInodes       ShowInodes
	ShowVolumeName   bool

	ItemAppearance    NameMode
	GroupingBehaviour NameMode
}

// DefaultParams returns the factory settings.
func DefaultParams() Params {
	inodes := FixedLevels(PercentPair(10.0, 5.0))
	return Params{
		Levels:            FixedLevels(PercentPair(80.0, 90.0)),
		LevelsLow:         Floor{Warn: 50.0, Crit: 60.0},
		MagicNormsize:     20,
		InodesLevels:      &inodes,
		TrendRange:        24,
		TrendPerfdata:     true,
		ShowLevels:        ShowLevelsOnMagic,
		ShowInodes:        ShowInodesOnLow,
		ItemAppearance:    NameMountpoint,
		GroupingBehaviour: NameMountpoint,
	}
}

func (p Params) magicNormsize() float64 {
	if p.MagicNormsize <= 0 {
		return 20
	}
	return p.MagicNormsize
}

func (p Params) showLevels(state model.State, magic bool) bool {
	switch p.ShowLevels {
	case ShowLevelsAlways:
		return true
	case ShowLevelsOnProblem:
		return state != model.StateOK
	default:
		return state != model.StateOK || magic
	}
}

func (p Params) showInodes(inodeState, overall model.State) bool {
	switch p.ShowInodes {
	case ShowInodesAlways:
		return true
	case ShowInodesOnProblem:
		return overall != model.StateOK
	default:
		return inodeState != model.StateOK
	}
}
