package df

import (
	"context"
	"fmt"
	"time"

	"dfinspect/internal/model"
)

// ResolveGroup returns the names of the records matched by patterns, in input
// order and without duplicates. A name belongs to the group when it matches an
// include pattern and no exclude pattern. Names are built with mode.
func ResolveGroup(patterns model.GroupPatterns, records []model.FilesystemRecord, mode NameMode) []string {
	matched := make([]string, 0)
	seen := make(map[string]struct{})
	for i := range records {
		name := ItemName(&records[i], mode)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if matchAny(patterns.Include, name) && !matchAny(patterns.Exclude, name) {
			matched = append(matched, name)
		}
	}
	return matched
}

// SumRecords aggregates the records into one synthetic record named name.
// Any member without usable data makes the aggregate a missing-data record.
// Inodes are only summed when every member reports them.
func SumRecords(name string, members []model.FilesystemRecord) model.FilesystemRecord {
	agg := model.FilesystemRecord{Mountpoint: name}
	inodes := &model.Inodes{}
	for i := range members {
		m := &members[i]
		if !m.HasData() {
			return model.NewNARecord("", name)
		}
		agg.SizeMB += m.SizeMB
		agg.AvailMB += m.AvailMB
		agg.ReservedMB += m.ReservedMB
		if inodes != nil && m.Inodes != nil {
			inodes.Total += m.Inodes.Total
			inodes.Avail += m.Inodes.Avail
		} else {
			inodes = nil
		}
	}
	if inodes != nil && len(members) > 0 {
		agg.Inodes = inodes
	}
	return agg
}

// EvaluateGroup evaluates the combined usage of all records matched by patterns.
// The group name is used as trend store key.
func (e *Evaluator) EvaluateGroup(ctx context.Context, name string, patterns model.GroupPatterns, records []model.FilesystemRecord, p Params, now time.Time) model.Verdict {
	names := ResolveGroup(patterns, records, p.GroupingBehaviour)
	if len(names) == 0 {
		return model.NewVerdict(model.StateUnknown, "No filesystem matching the patterns")
	}

	members := make([]model.FilesystemRecord, 0, len(names))
	for _, n := range names {
		if rec, ok := FindRecord(records, n, p.GroupingBehaviour); ok {
			members = append(members, rec)
		}
	}

	v := e.Evaluate(ctx, name, SumRecords(name, members), p, now)
	v.AddLine(fmt.Sprintf("%d filesystems", len(members)))
	return v
}
