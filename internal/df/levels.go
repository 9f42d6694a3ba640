package df

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// LevelKind tells how a level value is interpreted.
type LevelKind int

const (
	// KindPercent is a percentage of the object size.
	KindPercent LevelKind = iota
	// KindAbsoluteMB is an absolute amount in MB (inodes: a count).
	KindAbsoluteMB
)

// Level is a single warn or crit value. Negative values mean "free space
// remaining" instead of "space used".
type Level struct {
	Kind  LevelKind
	Value float64
}

// Percent creates a percentage level.
func Percent(v float64) Level { return Level{Kind: KindPercent, Value: v} }

// AbsoluteMB creates an absolute level in MB.
func AbsoluteMB(v float64) Level { return Level{Kind: KindAbsoluteMB, Value: v} }

// IsPercent returns true for percentage levels.
func (l Level) IsPercent() bool { return l.Kind == KindPercent }

func (l Level) String() string {
	if l.IsPercent() {
		return strconv.FormatFloat(l.Value, 'f', -1, 64) + "%"
	}
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + "MB"
}

// ParseLevel converts a configuration value into a Level.
//
// Floating point numbers select a percentage and integers select absolute MB,
// which is how level tuples have always been written. Strings may carry an
// explicit "%", "MB", "GB" or "TB" suffix; a map may use a "percent" or "mb" key.
func ParseLevel(v any) (Level, error) {
	switch x := v.(type) {
	case Level:
		return x, nil
	case float64:
		return Percent(x), nil
	case float32:
		return Percent(float64(x)), nil
	case int:
		return AbsoluteMB(float64(x)), nil
	case int32:
		return AbsoluteMB(float64(x)), nil
	case int64:
		return AbsoluteMB(float64(x)), nil
	case uint:
		return AbsoluteMB(float64(x)), nil
	case uint32:
		return AbsoluteMB(float64(x)), nil
	case uint64:
		return AbsoluteMB(float64(x)), nil
	case string:
		return parseLevelString(x)
	case map[string]any:
		if p, ok := x["percent"]; ok {
			f, err := toFloat(p)
			if err != nil {
				return Level{}, fmt.Errorf("invalid percent level: %w", err)
			}
			return Percent(f), nil
		}
		if mb, ok := x["mb"]; ok {
			f, err := toFloat(mb)
			if err != nil {
				return Level{}, fmt.Errorf("invalid mb level: %w", err)
			}
			return AbsoluteMB(f), nil
		}
		return Level{}, fmt.Errorf("level map needs a 'percent' or 'mb' key")
	case nil:
		return Level{}, fmt.Errorf("level is empty")
	}
	return Level{}, fmt.Errorf("unsupported level type %T", v)
}

var sizeSuffixes = []struct {
	suffix string
	factor float64
}{
	{"tb", 1024 * 1024},
	{"gb", 1024},
	{"mb", 1},
}

func parseLevelString(s string) (Level, error) {
	raw := strings.TrimSpace(s)
	lower := strings.ToLower(raw)
	if num, ok := strings.CutSuffix(lower, "%"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return Level{}, fmt.Errorf("invalid percent level %q", s)
		}
		return Percent(f), nil
	}
	for _, sfx := range sizeSuffixes {
		if num, ok := strings.CutSuffix(lower, sfx.suffix); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
			if err != nil {
				return Level{}, fmt.Errorf("invalid size level %q", s)
			}
			return AbsoluteMB(f * sfx.factor), nil
		}
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return AbsoluteMB(float64(i)), nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Level{}, fmt.Errorf("invalid level %q", s)
	}
	return Percent(f), nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(x), 64)
	}
	return 0, fmt.Errorf("unsupported number type %T", v)
}

// Pair is a warn/crit level pair.
type Pair struct {
	Warn Level
	Crit Level
}

// PercentPair creates a pair of percentage levels.
func PercentPair(warn, crit float64) Pair {
	return Pair{Warn: Percent(warn), Crit: Percent(crit)}
}

// AbsolutePair creates a pair of absolute levels.
func AbsolutePair(warn, crit float64) Pair {
	return Pair{Warn: AbsoluteMB(warn), Crit: AbsoluteMB(crit)}
}

// neverTrips is used when no tier applies.
var neverTrips = PercentPair(100, 100)

// Tier applies Levels to objects larger than AboveBytes (inodes: more inodes than AboveBytes).
type Tier struct {
	AboveBytes float64
	Levels     Pair
}

// LevelSpec is either a fixed pair or an ordered list of tiers.
type LevelSpec struct {
	Fixed Pair
	Tiers []Tier
}

// FixedLevels creates a non-tiered spec.
func FixedLevels(p Pair) LevelSpec { return LevelSpec{Fixed: p} }

// TieredLevels creates a tiered spec. Order is significant.
func TieredLevels(tiers ...Tier) LevelSpec { return LevelSpec{Tiers: tiers} }

// IsTiered reports whether levels are selected by object size.
func (s LevelSpec) IsTiered() bool { return len(s.Tiers) > 0 }

// Select returns the pair that applies to an object of the given size.
// Tiers are scanned in configuration order and the last one whose threshold
// is strictly below size wins, so non-monotonic lists keep their meaning.
// When no tier applies the levels never trip.
func (s LevelSpec) Select(size float64) Pair {
	if !s.IsTiered() {
		return s.Fixed
	}
	selected := neverTrips
	for _, t := range s.Tiers {
		if t.AboveBytes < size {
			selected = t.Levels
		}
	}
	return selected
}

// ResolvedLevels are the concrete "used >=" thresholds for one object.
type ResolvedLevels struct {
	WarnMB       float64
	CritMB       float64
	WarnPercent  float64
	CritPercent  float64
	MagicApplied bool
	Text         string
}

// Resolve turns the configured levels into MB thresholds for an object of sizeMB.
// maxUsedMB is the size minus any subtracted reservation and anchors negative
// (free space) levels.
func Resolve(sizeMB, maxUsedMB float64, p Params) ResolvedLevels {
	sizeGB := sizeMB / 1024
	pair := p.Levels.Select(sizeGB * 1024 * 1024 * 1024)

	res := ResolvedLevels{}
	if p.Magic > 0 && p.Magic != 1.0 {
		res.MagicApplied = true
		warnPct := levelToPercent(pair.Warn, sizeMB)
		critPct := levelToPercent(pair.Crit, sizeMB)

		scale := magicScale(sizeGB, p.magicNormsize(), p.Magic)
		warnPct = math.Max(100-(100-warnPct)*scale, p.LevelsLow.Warn)
		critPct = math.Max(100-(100-critPct)*scale, p.LevelsLow.Crit)

		res.WarnMB = sizeMB * warnPct / 100
		res.CritMB = sizeMB * critPct / 100
	} else {
		res.WarnMB = levelToMB(pair.Warn, sizeMB)
		res.CritMB = levelToMB(pair.Crit, sizeMB)
	}

	if res.WarnMB < 0 {
		res.WarnMB = maxUsedMB + res.WarnMB
	}
	if res.CritMB < 0 {
		res.CritMB = maxUsedMB + res.CritMB
	}

	if sizeMB > 0 {
		res.WarnPercent = res.WarnMB / sizeMB * 100
		res.CritPercent = res.CritMB / sizeMB * 100
	}

	absolute := !res.MagicApplied && !pair.Warn.IsPercent() && !pair.Crit.IsPercent()
	if absolute {
		res.Text = fmt.Sprintf("warn/crit at %s/%s", formatBytes(res.WarnMB*mebi), formatBytes(res.CritMB*mebi))
	} else {
		res.Text = fmt.Sprintf("warn/crit at %.2f%%/%.2f%%", res.WarnPercent, res.CritPercent)
	}
	return res
}

// magicScale is (size/normsize)^magic / (size/normsize): below 1 for large
// objects (levels move towards 100%) and above 1 for small ones.
func magicScale(sizeGB, normsize, magic float64) float64 {
	relSize := sizeGB / normsize
	if relSize <= 0 || math.IsNaN(relSize) || math.IsInf(relSize, 0) {
		return 1
	}
	return math.Pow(relSize, magic) / relSize
}

func levelToPercent(l Level, sizeMB float64) float64 {
	if l.IsPercent() {
		return l.Value
	}
	if sizeMB == 0 {
		return 0
	}
	return l.Value / sizeMB * 100
}

func levelToMB(l Level, sizeMB float64) float64 {
	if l.IsPercent() {
		return sizeMB * l.Value / 100
	}
	return l.Value
}

// InodeLevels are "used inodes >=" thresholds. Configured inode levels
// describe free inodes; a percentage is a share of inodes_total.
type InodeLevels struct {
	WarnUsed float64
	CritUsed float64
	Percent  bool
	Text     string
}

// ResolveInodes converts free-inode levels into used-inode thresholds.
// Tiered inode levels are selected against the inode total.
func ResolveInodes(total int64, spec LevelSpec) InodeLevels {
	pair := spec.Select(float64(total))
	res := InodeLevels{
		WarnUsed: inodeUsedThreshold(pair.Warn, total),
		CritUsed: inodeUsedThreshold(pair.Crit, total),
		Percent:  pair.Warn.IsPercent() && pair.Crit.IsPercent(),
	}
	if res.Percent {
		res.Text = fmt.Sprintf("warn/crit at %.2f%%/%.2f%%", 100-pair.Warn.Value, 100-pair.Crit.Value)
	} else {
		res.Text = fmt.Sprintf("warn/crit at %s/%s",
			humanize.Comma(int64(math.Round(res.WarnUsed))), humanize.Comma(int64(math.Round(res.CritUsed))))
	}
	return res
}

func inodeUsedThreshold(l Level, total int64) float64 {
	t := float64(total)
	if l.IsPercent() {
		return (100 - l.Value) / 100 * t
	}
	return t - l.Value
}
