package df

import (
	"context"
	"fmt"
	"math"
	"time"
)

// TrendState is the persisted state of one item's growth trend.
type TrendState struct {
	Timestamp float64 // unix seconds of the last sample
	UsedMB    float64 // used space at Timestamp
	RateAcc   float64 // smoothed growth in MB per hour
}

// TrendStore persists TrendState per item key. Implementations are scoped to
// one host. Lock serializes read-modify-write cycles on a single key; distinct
// keys never block each other.
type TrendStore interface {
	Lock(key string) (unlock func())
	Load(ctx context.Context, key string) (TrendState, bool, error)
	Save(ctx context.Context, key string, state TrendState) error
}

// Rate is the result of one trend store update.
type Rate struct {
	Available   bool    // false on the first sample or a clock anomaly
	FirstSample bool    // no previous sample existed
	MBPerHour   float64 // smoothed rate
	RawPerHour  float64 // point-to-point rate of this update
}

// RecordAndGetRate stores the sample (now, usedMB) under key and returns the
// smoothed growth rate.
//
// The rate is smoothed over rangeHours: weight = min(1, Δt/range) and
// acc = acc*(1-weight) + raw*weight. A non-positive Δt yields no rate but the
// stored sample is still replaced.
func RecordAndGetRate(ctx context.Context, store TrendStore, key string, now time.Time, usedMB, rangeHours float64) (Rate, error) {
	unlock := store.Lock(key)
	defer unlock()

	prev, found, err := store.Load(ctx, key)
	if err != nil {
		return Rate{}, fmt.Errorf("failed to load trend state for %s: %w", key, err)
	}

	ts := float64(now.UnixNano()) / 1e9
	next := TrendState{Timestamp: ts, UsedMB: usedMB, RateAcc: prev.RateAcc}

	rate := Rate{FirstSample: !found}
	if found {
		dt := ts - prev.Timestamp
		if dt > 0 {
			raw := (usedMB - prev.UsedMB) / (dt / 3600)
			weight := 1.0
			if rangeHours > 0 {
				weight = math.Min(1, dt/(rangeHours*3600))
			}
			next.RateAcc = prev.RateAcc*(1-weight) + raw*weight
			rate = Rate{Available: true, MBPerHour: next.RateAcc, RawPerHour: raw}
		}
	}

	if err := store.Save(ctx, key, next); err != nil {
		return Rate{}, fmt.Errorf("failed to save trend state for %s: %w", key, err)
	}
	return rate, nil
}
