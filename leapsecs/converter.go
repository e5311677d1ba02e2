package leapsecs

import (
	"go.uber.org/atomic"
)

// Converter converts between POSIX and TAI seconds using the most recently
// published table. The zero value is unloaded: every conversion returns
// ErrNotReady until Publish is called.
//
// Readers take one snapshot per call, so a concurrent Publish never
// changes the table under a conversion in progress.
type Converter struct {
	table atomic.Pointer[Table]
}

// NewConverter returns a converter publishing t, or an unloaded one if t is nil.
func NewConverter(t *Table) *Converter {
	c := &Converter{}
	if t != nil {
		c.Publish(t)
	}
	return c
}

// Publish replaces the active table. A nil table is ignored: once ready, a
// converter never goes back to unloaded.
func (c *Converter) Publish(t *Table) {
	if t == nil {
		return
	}
	c.table.Store(t)
}

// Snapshot returns the active table, or nil when unloaded.
func (c *Converter) Snapshot() *Table {
	return c.table.Load()
}

// Ready reports whether a table has been published.
func (c *Converter) Ready() bool {
	return c.table.Load() != nil
}

// PosixToTAI converts POSIX seconds to TAI seconds.
func (c *Converter) PosixToTAI(p int64) (int64, error) {
	t := c.table.Load()
	if t == nil {
		return 0, ErrNotReady
	}
	return t.PosixToTAI(p)
}

// TAIToPosix converts TAI seconds to POSIX seconds.
func (c *Converter) TAIToPosix(tai int64) (int64, error) {
	t := c.table.Load()
	if t == nil {
		return 0, ErrNotReady
	}
	return t.TAIToPosix(tai)
}

// PosixRange returns the inclusive POSIX range of the active table.
func (c *Converter) PosixRange() (lo, hi int64, err error) {
	t := c.table.Load()
	if t == nil {
		return 0, 0, ErrNotReady
	}
	lo, hi = t.PosixRange()
	return lo, hi, nil
}

// TAIRange returns the inclusive TAI range of the active table.
func (c *Converter) TAIRange() (lo, hi int64, err error) {
	t := c.table.Load()
	if t == nil {
		return 0, 0, ErrNotReady
	}
	lo, hi = t.TAIRange()
	return lo, hi, nil
}
