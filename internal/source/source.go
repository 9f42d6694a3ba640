// Package source builds filesystem records for a host.
//
// A source failure that means "no data this cycle" is returned wrapped in
// df.ErrSkipCycle so the host is skipped rather than reported down.
package source

import (
	"context"

	"dfinspect/internal/model"
)

// Source produces the filesystem records of one host.
type Source interface {
	Name() string
	Records(ctx context.Context, host *model.HostMeta) ([]model.FilesystemRecord, error)
}
