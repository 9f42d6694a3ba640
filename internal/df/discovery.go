package df

import (
	"strings"

	"dfinspect/internal/model"
)

// GroupDefinition is a configured filesystem group.
type GroupDefinition struct {
	Name     string
	Patterns model.GroupPatterns
}

// DiscoveryOptions control which records become items.
type DiscoveryOptions struct {
	ItemAppearance         NameMode
	GroupingBehaviour      NameMode
	IgnoreFSTypes          []string
	NeverIgnoreMountpoints []string
}

// DefaultDiscoveryOptions returns the factory discovery settings.
func DefaultDiscoveryOptions() DiscoveryOptions {
	return DiscoveryOptions{
		ItemAppearance:    NameMountpoint,
		GroupingBehaviour: NameMountpoint,
		IgnoreFSTypes:     []string{"tmpfs", "nfs", "smbfs", "cifs", "iso9660"},
	}
}

const dockerRoot = "/var/lib/docker/"

// Discover returns the items to monitor: one per configured group that
// matches at least one record, followed by one per record not covered by any
// group. Group items carry their patterns, and every item the naming mode it
// was discovered under, so that later configuration changes do not change
// what an already discovered item monitors.
func Discover(records []model.FilesystemRecord, groups []GroupDefinition, opts DiscoveryOptions) []model.Item {
	candidates := make([]model.FilesystemRecord, 0, len(records))
	for _, rec := range records {
		if opts.ignored(&rec) {
			continue
		}
		candidates = append(candidates, rec)
	}

	items := make([]model.Item, 0)
	emitted := make(map[string]struct{})
	grouped := make(map[string]struct{})

	for _, g := range groups {
		names := ResolveGroup(g.Patterns, candidates, opts.GroupingBehaviour)
		if len(names) == 0 {
			continue
		}
		for _, n := range names {
			grouped[n] = struct{}{}
		}
		if _, dup := emitted[g.Name]; dup {
			continue
		}
		emitted[g.Name] = struct{}{}
		patterns := model.GroupPatterns{
			Include: append([]string(nil), g.Patterns.Include...),
			Exclude: append([]string(nil), g.Patterns.Exclude...),
		}
		items = append(items, model.Item{
			Name:              g.Name,
			Kind:              model.ItemKindGroup,
			Patterns:          &patterns,
			GroupingBehaviour: string(opts.GroupingBehaviour),
		})
	}

	for i := range candidates {
		if _, ok := grouped[ItemName(&candidates[i], opts.GroupingBehaviour)]; ok {
			continue
		}
		name := ItemName(&candidates[i], opts.ItemAppearance)
		if _, dup := emitted[name]; dup {
			continue
		}
		emitted[name] = struct{}{}
		items = append(items, model.Item{
			Name:           name,
			Kind:           model.ItemKindFilesystem,
			ItemAppearance: string(opts.ItemAppearance),
		})
	}
	return items
}

func (o DiscoveryOptions) ignored(rec *model.FilesystemRecord) bool {
	if matchAny(o.NeverIgnoreMountpoints, rec.Mountpoint) {
		return false
	}
	// container layers below the docker root come and go with containers
	if strings.HasPrefix(rec.Mountpoint, dockerRoot) {
		return true
	}
	for _, t := range o.IgnoreFSTypes {
		if rec.FSType == t {
			return true
		}
	}
	return false
}

// CollapseBtrfs merges all records of one btrfs device into a single record
// named "btrfs <device>", since every subvolume reports the same pool.
func CollapseBtrfs(records []model.FilesystemRecord) []model.FilesystemRecord {
	out := make([]model.FilesystemRecord, 0, len(records))
	seen := make(map[string]struct{})
	for _, rec := range records {
		if rec.FSType != "btrfs" {
			out = append(out, rec)
			continue
		}
		if _, dup := seen[rec.Device]; dup {
			continue
		}
		seen[rec.Device] = struct{}{}
		rec.Mountpoint = "btrfs " + rec.Device
		out = append(out, rec)
	}
	return out
}
