package plugin

import (
	"bytes"

	"github.com/natefinch/atomic"
)

// dumpBuffer atomically writes buf to path so a reader polling the file
// never observes a torn write mid-mutation (§6.5). It is called both
// before and after a mutation (§11) when path is non-empty; errors are
// logged by the caller rather than propagated, since a failed debug dump
// must never fail the mutation itself.
func dumpBuffer(path string, buf []byte) error {
	if path == "" {
		return nil
	}
	return atomic.WriteFile(path, bytes.NewReader(buf))
}
