package df

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"dfinspect/internal/model"
)

// Evaluator evaluates filesystem records against level parameters.
// A nil trend store disables the growth trend.
type Evaluator struct {
	store  TrendStore
	logger zerolog.Logger
}

// NewEvaluator creates a new evaluator backed by store.
func NewEvaluator(store TrendStore, logger zerolog.Logger) *Evaluator {
	return &Evaluator{
		store:  store,
		logger: logger.With().Str("component", "df-evaluator").Logger(),
	}
}

// CheckItem evaluates a discovered item against the records of the current cycle.
// The naming modes recorded at discovery take precedence over those in p.
func (e *Evaluator) CheckItem(ctx context.Context, item model.Item, records []model.FilesystemRecord, p Params, now time.Time) model.Verdict {
	if item.ItemAppearance != "" {
		p.ItemAppearance = NameMode(item.ItemAppearance)
	}
	if item.GroupingBehaviour != "" {
		p.GroupingBehaviour = NameMode(item.GroupingBehaviour)
	}

	if item.IsGroup() {
		patterns := model.GroupPatterns{}
		if item.Patterns != nil {
			patterns = *item.Patterns
		}
		return e.EvaluateGroup(ctx, item.Name, patterns, records, p, now)
	}

	rec, ok := FindRecord(records, item.Name, p.ItemAppearance)
	if !ok {
		return model.NewVerdict(model.StateUnknown, "Item not found in monitoring data")
	}
	return e.Evaluate(ctx, item.Name, rec, p, now)
}

// FindRecord returns the first record named name under mode.
func FindRecord(records []model.FilesystemRecord, name string, mode NameMode) (model.FilesystemRecord, bool) {
	for i := range records {
		if ItemName(&records[i], mode) == name {
			return records[i], true
		}
	}
	return model.FilesystemRecord{}, false
}

// Evaluate computes the verdict for a single record. key identifies the item
// in the trend store.
func (e *Evaluator) Evaluate(ctx context.Context, key string, rec model.FilesystemRecord, p Params, now time.Time) model.Verdict {
	v := e.evaluate(ctx, key, rec, p, now)
	if p.ShowVolumeName && rec.Device != "" {
		v.PrependPart("[" + rec.Device + "]")
	}
	return v
}

func (e *Evaluator) evaluate(ctx context.Context, key string, rec model.FilesystemRecord, p Params, now time.Time) model.Verdict {
	if !rec.IsNA && rec.SizeMB == 0 {
		return model.NewVerdict(model.StateWarn, "Size of filesystem is 0 B")
	}
	if !rec.HasData() {
		return model.NewVerdict(model.StateOK, "no filesystem size information")
	}

	sizeMB := rec.SizeMB
	reservedMB := rec.ReservedMB

	usedMB := sizeMB - rec.AvailMB
	maxUsedMB := sizeMB
	if p.SubtractReserved {
		usedMB -= reservedMB
		maxUsedMB -= reservedMB
	}
	if usedMB < 0 {
		usedMB = 0
	}
	if maxUsedMB <= 0 {
		maxUsedMB = sizeMB
	}

	levels := Resolve(sizeMB, maxUsedMB, p)

	state := upperState(usedMB, levels.WarnMB, levels.CritMB)

	usedPercent := 100.0 * (usedMB / maxUsedMB)
	text := fmt.Sprintf("%s used (%s", formatPercent(usedPercent), formatUsedOf(usedMB, maxUsedMB))
	if p.showLevels(state, levels.MagicApplied) {
		text += ", " + levels.Text
	}
	text += ")"

	v := model.Verdict{}
	v.AddPart(state, text)
	v.AddMetrics(
		model.NewMetric("fs_used", usedMB).WithLevels(levels.WarnMB, levels.CritMB).WithBoundaries(0, sizeMB),
		model.NewMetric("fs_size", sizeMB),
		model.NewMetric("fs_used_percent", usedPercent).WithLevels(levels.WarnPercent, levels.CritPercent),
	)

	if p.ShowReserved && reservedMB > 0 {
		reserved := formatBytes(reservedMB * mebi)
		if p.SubtractReserved {
			v.AddPart(model.StateOK, "additionally reserved for root: "+reserved)
		} else {
			v.AddPart(model.StateOK, fmt.Sprintf("therein reserved for root: %s (%s)",
				reserved, formatPercent(100*reservedMB/sizeMB)))
		}
	}
	if p.SubtractReserved || p.ShowReserved {
		v.AddMetrics(
			model.NewMetric("fs_free", math.Max(0, maxUsedMB-usedMB)).WithBoundaries(0, sizeMB),
			model.NewMetric("reserved", reservedMB),
		)
	}

	if e.store != nil && p.TrendRange > 0 {
		e.checkTrend(ctx, &v, key, usedMB, maxUsedMB, sizeMB, p, now)
	}

	if rec.HasInodes() {
		e.checkInodes(&v, rec.Inodes, p)
	}
	return v
}

func (e *Evaluator) checkTrend(ctx context.Context, v *model.Verdict, key string, usedMB, maxUsedMB, sizeMB float64, p Params, now time.Time) {
	rangeHours := float64(p.TrendRange)
	label := "trend per " + formatTimespan(rangeHours*3600)

	rate, err := RecordAndGetRate(ctx, e.store, key, now, usedMB, rangeHours)
	if err != nil {
		e.logger.Warn().Err(err).Str("item", key).Msg("trend store unavailable, skipping trend")
		v.AddPart(model.StateOK, label+": n/a")
		return
	}
	if !rate.Available {
		e.logger.Debug().Str("item", key).Bool("first_sample", rate.FirstSample).Msg("no trend rate this cycle")
		v.AddPart(model.StateOK, label+": n/a")
		return
	}

	trendMB := rate.MBPerHour * rangeHours
	state := model.StateOK
	text := label + ": " + formatSignedIEC(trendMB*mebi)

	var levelsMB *[2]float64
	if p.TrendMB != nil {
		levelsMB = p.TrendMB
		s := upperState(trendMB, p.TrendMB[0], p.TrendMB[1])
		if s != model.StateOK {
			text += fmt.Sprintf(" (warn/crit at %s/%s)",
				formatSignedIEC(p.TrendMB[0]*mebi), formatSignedIEC(p.TrendMB[1]*mebi))
		}
		state = model.Worst(state, s)
	}
	if p.TrendPercent != nil {
		trendPercent := trendMB / sizeMB * 100
		s := upperState(trendPercent, p.TrendPercent[0], p.TrendPercent[1])
		text += fmt.Sprintf(", %s of size", formatPercent(trendPercent))
		if s != model.StateOK {
			text += fmt.Sprintf(" (warn/crit at %.2f%%/%.2f%%)", p.TrendPercent[0], p.TrendPercent[1])
		}
		state = model.Worst(state, s)
		if levelsMB == nil {
			levelsMB = &[2]float64{sizeMB * p.TrendPercent[0] / 100, sizeMB * p.TrendPercent[1] / 100}
		}
	}
	v.AddPart(state, text)

	if p.TrendPerfdata {
		trend := model.NewMetric("trend", trendMB)
		if levelsMB != nil {
			trend = trend.WithLevels(levelsMB[0], levelsMB[1])
		}
		v.AddMetrics(model.NewMetric("growth", rate.MBPerHour*24), trend)
	}

	if rate.MBPerHour <= 0 {
		return
	}
	hoursLeft := math.Max(0, maxUsedMB-usedMB) / rate.MBPerHour
	leftState := model.StateOK
	if p.TrendTimeleft != nil {
		switch {
		case hoursLeft <= p.TrendTimeleft[1]:
			leftState = model.StateCrit
		case hoursLeft <= p.TrendTimeleft[0]:
			leftState = model.StateWarn
		}
	}
	if p.TrendShowTimeleft || leftState != model.StateOK {
		leftText := "time left until disk full: " + formatTimespan(hoursLeft*3600)
		if leftState != model.StateOK {
			leftText += fmt.Sprintf(" (warn/crit below %s/%s)",
				formatTimespan(p.TrendTimeleft[0]*3600), formatTimespan(p.TrendTimeleft[1]*3600))
		}
		v.AddPart(leftState, leftText)
	}
	if p.TrendPerfdata {
		v.AddMetrics(model.NewMetric("trend_hoursleft", hoursLeft))
	}
}

func (e *Evaluator) checkInodes(v *model.Verdict, inodes *model.Inodes, p Params) {
	used := inodes.Used()
	metric := model.NewMetric("inodes_used", float64(used))

	if p.InodesLevels == nil {
		v.AddMetrics(metric.WithBoundaries(0, float64(inodes.Total)))
		if p.ShowInodes == ShowInodesAlways {
			v.AddPart(model.StateOK, "Inodes used: "+humanize.Comma(used))
		}
		return
	}

	levels := ResolveInodes(inodes.Total, *p.InodesLevels)
	state := upperState(float64(used), levels.WarnUsed, levels.CritUsed)
	v.AddMetrics(metric.WithLevels(levels.WarnUsed, levels.CritUsed).WithBoundaries(0, float64(inodes.Total)))

	overall := model.Worst(v.State, state)
	if !p.showInodes(state, overall) {
		v.AddPart(state, "")
		return
	}

	var text string
	if levels.Percent {
		text = "Inodes used: " + formatPercent(100*float64(used)/float64(inodes.Total))
	} else {
		text = "Inodes used: " + humanize.Comma(used)
	}
	if state != model.StateOK {
		text += " (" + levels.Text + ")"
	}
	avail := inodes.Total - used
	text += fmt.Sprintf(", inodes available: %s (%s)",
		humanize.Comma(avail), formatPercent(100*float64(avail)/float64(inodes.Total)))
	v.AddPart(state, text)
}

// upperState compares value against upper levels, crit first.
func upperState(value, warn, crit float64) model.State {
	switch {
	case value >= crit:
		return model.StateCrit
	case value >= warn:
		return model.StateWarn
	}
	return model.StateOK
}
