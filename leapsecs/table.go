// Package leapsecs loads leap second tables from the IETF leap-seconds.list
// and tzdata leapseconds files and converts between POSIX and TAI seconds.
//
// POSIX time counts UTC seconds since 1970-01-01 with leap seconds removed,
// so it repeats a second whenever one is inserted. TAI time counts the same
// epoch in atomic seconds and never repeats. Both are plain int64 second
// counts here; TAI includes the 10 second offset in force on 1972-01-01.
package leapsecs

import (
	"fmt"
	"math"
	"time"
)

const (
	// EpochPosix is 1972-01-01 00:00:00 UTC, where every table starts.
	EpochPosix = 63072000
	// InitialDelta is TAI-UTC on 1972-01-01, before the first leap second.
	InitialDelta = 10
	// MinEntries is the smallest table accepted as a real leap second record.
	MinEntries = 25
)

// Entry is one leap second insertion. From Posix onwards TAI-UTC is Delta.
type Entry struct {
	Posix int64
	TAI   int64
	Delta int64
}

// NewEntry returns the entry taking effect at posix with the given delta.
func NewEntry(posix, delta int64) Entry {
	return Entry{Posix: posix, TAI: posix + delta, Delta: delta}
}

func (e Entry) String() string {
	return fmt.Sprintf("%d %d %d # %s", e.Posix, e.TAI, e.Delta,
		time.Unix(e.Posix, 0).UTC().Format("2 Jan 2006"))
}

// Table is an immutable, validated leap second table.
type Table struct {
	entries    []Entry
	limitPosix int64
	limitTAI   int64
}

// NewTable validates entries and the validity limit and builds a table.
// The entries slice is copied.
func NewTable(entries []Entry, limitPosix int64) (*Table, error) {
	if len(entries) < MinEntries {
		return nil, fmt.Errorf("%w: %d entries, want at least %d", ErrMalformedTable, len(entries), MinEntries)
	}
	first := entries[0]
	if first != NewEntry(EpochPosix, InitialDelta) {
		return nil, fmt.Errorf("%w: first entry %v is not the 1972 epoch", ErrMalformedTable, first)
	}
	for i, e := range entries {
		if e.TAI != e.Posix+e.Delta {
			return nil, fmt.Errorf("%w: entry %d: tai %d != posix %d + delta %d",
				ErrMalformedTable, i, e.TAI, e.Posix, e.Delta)
		}
		if i == 0 {
			continue
		}
		prev := entries[i-1]
		if e.Delta != prev.Delta+1 {
			return nil, fmt.Errorf("%w: entry %d: delta %d after %d", ErrMalformedTable, i, e.Delta, prev.Delta)
		}
		if e.Posix <= prev.Posix || e.TAI <= prev.TAI {
			return nil, fmt.Errorf("%w: entry %d: not after entry %d", ErrMalformedTable, i, i-1)
		}
	}
	last := entries[len(entries)-1]
	if limitPosix <= last.Posix {
		return nil, fmt.Errorf("%w: validity limit %d not after last leap second %d",
			ErrMalformedTable, limitPosix, last.Posix)
	}
	if limitPosix > math.MaxInt64-last.Delta {
		return nil, fmt.Errorf("%w: validity limit %d overflows in TAI", ErrMalformedTable, limitPosix)
	}

	t := &Table{
		entries:    make([]Entry, len(entries)),
		limitPosix: limitPosix,
		limitTAI:   limitPosix + last.Delta,
	}
	copy(t.entries, entries)
	return t, nil
}

// Entries returns a copy of the table entries in ascending order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len is the number of entries, the 1972 epoch included.
func (t *Table) Len() int { return len(t.entries) }

// First returns the 1972 epoch entry.
func (t *Table) First() Entry { return t.entries[0] }

// Last returns the most recent leap second.
func (t *Table) Last() Entry { return t.entries[len(t.entries)-1] }

// ValidityLimit returns the expiration of the source file in both scales.
func (t *Table) ValidityLimit() (posix, tai int64) {
	return t.limitPosix, t.limitTAI
}

// Expires returns the expiration as a UTC time.
func (t *Table) Expires() time.Time {
	return time.Unix(t.limitPosix, 0).UTC()
}

// Expired reports whether now is past the source file expiration.
func (t *Table) Expired(now time.Time) bool {
	return now.Unix() > t.limitPosix
}

// PosixRange returns the inclusive range PosixToTAI accepts.
func (t *Table) PosixRange() (lo, hi int64) {
	return t.entries[0].Posix, t.limitPosix
}

// TAIRange returns the inclusive range TAIToPosix accepts.
func (t *Table) TAIRange() (lo, hi int64) {
	return t.entries[0].TAI, t.limitTAI
}

// ValidPosix reports whether p lies in the table range.
func (t *Table) ValidPosix(p int64) bool {
	return p >= t.entries[0].Posix && p <= t.limitPosix
}

// ValidTAI reports whether tai lies in the table range.
func (t *Table) ValidTAI(tai int64) bool {
	return tai >= t.entries[0].TAI && tai <= t.limitTAI
}

// PosixToTAI converts a POSIX second to TAI.
//
// At an insertion the POSIX second is mapped to the later TAI second, the
// one where the new delta is in force.
func (t *Table) PosixToTAI(p int64) (int64, error) {
	if !t.ValidPosix(p) {
		return 0, ErrOutOfRange
	}
	// greatest i with entries[i].Posix <= p
	i, j := 0, len(t.entries)
	for j-i > 1 {
		m := int(uint(i+j) >> 1)
		if t.entries[m].Posix <= p {
			i = m
		} else {
			j = m
		}
	}
	e := t.entries[i]
	if e.Posix == p {
		return e.TAI, nil
	}
	return p + e.Delta, nil
}

// TAIToPosix converts a TAI second to POSIX.
//
// The inserted TAI second right before an entry collapses onto the same
// POSIX second as the entry itself, so TAIToPosix is not injective.
func (t *Table) TAIToPosix(tai int64) (int64, error) {
	if !t.ValidTAI(tai) {
		return 0, ErrOutOfRange
	}
	i, j := 0, len(t.entries)
	for j-i > 1 {
		m := int(uint(i+j) >> 1)
		if t.entries[m].TAI <= tai {
			i = m
		} else {
			j = m
		}
	}
	e := t.entries[i]
	if e.TAI == tai {
		return e.Posix, nil
	}
	return tai - e.Delta, nil
}
