package config

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"dfinspect/internal/df"
	"dfinspect/internal/model"
)

// Params converts the df section into evaluation parameters.
func (c *Config) Params() (df.Params, error) {
	p := df.DefaultParams()
	d := c.DF

	levels, err := d.Levels.toSpec()
	if err != nil {
		return p, fmt.Errorf("df.levels: %w", err)
	}
	p.Levels = levels
	p.LevelsLow = df.Floor{Warn: d.LevelsLow.Warning, Crit: d.LevelsLow.Critical}
	p.Magic = d.Magic
	if d.MagicNormsize > 0 {
		p.MagicNormsize = d.MagicNormsize
	}

	if d.InodesLevels.Disabled {
		p.InodesLevels = nil
	} else {
		inodes, err := d.InodesLevels.toSpec()
		if err != nil {
			return p, fmt.Errorf("df.inodes_levels: %w", err)
		}
		p.InodesLevels = &inodes
	}

	p.TrendRange = d.TrendRange
	p.TrendPerfdata = d.TrendPerfdata
	p.TrendMB = d.TrendMB.array()
	p.TrendPercent = d.TrendPerc.array()
	p.TrendTimeleft = d.TrendTimeleft.array()
	p.TrendShowTimeleft = d.TrendShowTimeleft

	if d.ShowLevels != "" {
		p.ShowLevels = df.ShowLevels(d.ShowLevels)
	}
	if d.ShowInodes != "" {
		p.ShowInodes = df.ShowInodes(d.ShowInodes)
	}
	p.ShowReserved = d.ShowReserved
	p.SubtractReserved = d.SubtractReserved
	p.ShowVolumeName = d.ShowVolumeName

	if c.Discovery.ItemAppearance != "" {
		p.ItemAppearance = df.NameMode(c.Discovery.ItemAppearance)
	}
	if c.Discovery.GroupingBehaviour != "" {
		p.GroupingBehaviour = df.NameMode(c.Discovery.GroupingBehaviour)
	}
	return p, nil
}

// DiscoveryOptions converts the discovery section.
func (c *Config) DiscoveryOptions() df.DiscoveryOptions {
	opts := df.DefaultDiscoveryOptions()
	if c.Discovery.ItemAppearance != "" {
		opts.ItemAppearance = df.NameMode(c.Discovery.ItemAppearance)
	}
	if c.Discovery.GroupingBehaviour != "" {
		opts.GroupingBehaviour = df.NameMode(c.Discovery.GroupingBehaviour)
	}
	if c.Discovery.IgnoreFSTypes != nil {
		opts.IgnoreFSTypes = c.Discovery.IgnoreFSTypes
	}
	opts.NeverIgnoreMountpoints = c.Discovery.NeverIgnoreMountpoints
	return opts
}

// GroupDefinitions returns the configured groups in order.
func (c *Config) GroupDefinitions() []df.GroupDefinition {
	groups := make([]df.GroupDefinition, 0, len(c.Groups))
	for _, g := range c.Groups {
		groups = append(groups, df.GroupDefinition{
			Name: g.Name,
			Patterns: model.GroupPatterns{
				Include: append([]string(nil), g.Include...),
				Exclude: append([]string(nil), g.Exclude...),
			},
		})
	}
	return groups
}

func (l LevelsConfig) toSpec() (df.LevelSpec, error) {
	if len(l.Tiers) == 0 {
		pair, err := parsePair(l.Warning, l.Critical)
		if err != nil {
			return df.LevelSpec{}, err
		}
		return df.FixedLevels(pair), nil
	}

	tiers := make([]df.Tier, 0, len(l.Tiers))
	for i, t := range l.Tiers {
		above, err := humanize.ParseBytes(t.Above)
		if err != nil {
			return df.LevelSpec{}, fmt.Errorf("tier %d: invalid size %q: %w", i, t.Above, err)
		}
		pair, err := parsePair(t.Warning, t.Critical)
		if err != nil {
			return df.LevelSpec{}, fmt.Errorf("tier %d: %w", i, err)
		}
		tiers = append(tiers, df.Tier{AboveBytes: float64(above), Levels: pair})
	}
	return df.TieredLevels(tiers...), nil
}

func parsePair(warning, critical any) (df.Pair, error) {
	warn, err := df.ParseLevel(warning)
	if err != nil {
		return df.Pair{}, fmt.Errorf("warning: %w", err)
	}
	crit, err := df.ParseLevel(critical)
	if err != nil {
		return df.Pair{}, fmt.Errorf("critical: %w", err)
	}
	return df.Pair{Warn: warn, Crit: crit}, nil
}

func (t *ThresholdPair) array() *[2]float64 {
	if t == nil {
		return nil
	}
	return &[2]float64{t.Warning, t.Critical}
}
