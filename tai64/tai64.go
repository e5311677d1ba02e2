// Package tai64 converts between time.Time and TAI64/TAI64N labels using a
// leap second table loaded at runtime.
//
// A TAI64 label is 2^62 plus the TAI second count since 1970-01-01 00:00:00
// TAI, so the Unix epoch is @400000000000000a. See http://cr.yp.to/libtai/.
package tai64

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/karasz/glibtai"
	"github.com/karasz/gtaiconv/leapsecs"
)

// Base is the TAI64 label of TAI second 0.
const Base = uint64(1) << 62

// ErrLabel reports a label outside the range representable as int64 seconds.
var ErrLabel = errors.New("tai64: label out of range")

// Seconds converts POSIX seconds to a TAI64 label value.
func Seconds(c *leapsecs.Converter, posix int64) (uint64, error) {
	tai, err := c.PosixToTAI(posix)
	if err != nil {
		return 0, err
	}
	return Base + uint64(tai), nil
}

// Posix converts a TAI64 label value back to POSIX seconds.
func Posix(c *leapsecs.Converter, label uint64) (int64, error) {
	if label < Base || label-Base > 1<<62 {
		return 0, ErrLabel
	}
	return c.TAIToPosix(int64(label - Base))
}

// FromTime returns the TAI64 label of t.
func FromTime(c *leapsecs.Converter, t time.Time) (glibtai.TAI, error) {
	s, err := Seconds(c, t.Unix())
	if err != nil {
		return glibtai.TAI{}, err
	}
	var buf [glibtai.TAILength]byte
	binary.BigEndian.PutUint64(buf[:], s)
	return glibtai.TAIUnpack(buf[:]), nil
}

// FromTimeN returns the TAI64N label of t.
func FromTimeN(c *leapsecs.Converter, t time.Time) (glibtai.TAIN, error) {
	s, err := Seconds(c, t.Unix())
	if err != nil {
		return glibtai.TAIN{}, err
	}
	var buf [glibtai.TAINLength]byte
	binary.BigEndian.PutUint64(buf[:], s)
	binary.BigEndian.PutUint32(buf[glibtai.TAILength:], uint32(t.Nanosecond()))
	return glibtai.TAINUnpack(buf[:]), nil
}

// Time returns the UTC time of a TAI64 label.
func Time(c *leapsecs.Converter, t glibtai.TAI) (time.Time, error) {
	p, err := Posix(c, binary.BigEndian.Uint64(glibtai.TAIPack(t)))
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(p, 0).UTC(), nil
}

// TimeN returns the UTC time of a TAI64N label.
func TimeN(c *leapsecs.Converter, t glibtai.TAIN) (time.Time, error) {
	buf := glibtai.TAINPack(t)
	p, err := Posix(c, binary.BigEndian.Uint64(buf))
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(p, int64(binary.BigEndian.Uint32(buf[glibtai.TAILength:]))).UTC(), nil
}

// Parse decodes an external "@" label, TAI64N (25 characters) or TAI64
// (17 characters), into UTC.
func Parse(c *leapsecs.Converter, s string) (time.Time, error) {
	label, nsec, err := decode(s)
	if err != nil {
		return time.Time{}, err
	}
	p, err := Posix(c, label)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(p, nsec).UTC(), nil
}

// MultilogBase is the label daemontools tai64n and multilog write for
// POSIX second 0. They add 10 to POSIX time and ignore leap seconds, so
// their labels are not true TAI after 1972.
const MultilogBase = Base + 10

// ParseMultilog decodes a label written by daemontools into UTC. It needs
// no leap second table.
func ParseMultilog(s string) (time.Time, error) {
	label, nsec, err := decode(s)
	if err != nil {
		return time.Time{}, err
	}
	if label < MultilogBase || label-MultilogBase > 1<<62 {
		return time.Time{}, ErrLabel
	}
	return time.Unix(int64(label-MultilogBase), nsec).UTC(), nil
}

// decode returns the seconds label and the nanoseconds of s.
func decode(s string) (uint64, int64, error) {
	switch len(s) {
	case 1 + 2*glibtai.TAINLength:
		tn, err := glibtai.TAINfromString(s)
		if err != nil {
			return 0, 0, err
		}
		buf := glibtai.TAINPack(tn)
		return binary.BigEndian.Uint64(buf), int64(binary.BigEndian.Uint32(buf[glibtai.TAILength:])), nil
	case 1 + 2*glibtai.TAILength:
		t, err := glibtai.TAIfromString(s)
		if err != nil {
			return 0, 0, err
		}
		return binary.BigEndian.Uint64(glibtai.TAIPack(t)), 0, nil
	}
	return 0, 0, errors.New("tai64: label " + s + " has the wrong length")
}
