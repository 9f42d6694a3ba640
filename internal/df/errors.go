// Package df evaluates filesystem usage against configured levels.
//
// The package is pure apart from the trend store it is handed: sources build
// FilesystemRecords, discovery turns them into items, and the Evaluator turns
// one item plus its records into a Verdict.
package df

import "errors"

// ErrSkipCycle signals that an item or host cannot be evaluated this cycle
// and must be skipped without being marked as down.
var ErrSkipCycle = errors.New("skip this cycle")

// SkipCycle wraps err so that errors.Is(err, ErrSkipCycle) holds.
func SkipCycle(err error) error {
	if err == nil {
		return ErrSkipCycle
	}
	return errors.Join(ErrSkipCycle, err)
}
