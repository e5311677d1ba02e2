package leapsecs

import (
	"fmt"
	"io"
)

// NTPEpochOffset is the number of seconds from 1900-01-01 (NTP epoch) to
// 1970-01-01 (POSIX epoch), as given by RFC 868.
const NTPEpochOffset = 2208988800

// NTPList parses the IETF/IANA leap-seconds.list file:
//
//	#@	3960057600
//	2272060800	10	# 1 Jan 1972
//	2287785600	11	# 1 Jul 1972
//
// Data lines carry NTP seconds and TAI-UTC; "#@" carries the expiration in
// NTP seconds. Every other comment is ignored.
type NTPList struct{}

var _ Parser = NTPList{}

// Format implements Parser.
func (NTPList) Format() string { return "leap-seconds.list" }

// DefaultName implements Parser.
func (NTPList) DefaultName() string { return "leap-seconds.list" }

// Parse implements Parser.
func (NTPList) Parse(name string, r io.Reader) (*Table, error) {
	var (
		entries []Entry
		expires int64
		seen    bool
	)
	err := scanLines(r, func(n int, line string) error {
		p := newLineParser(name, n, line)
		switch tok := p.lx.Peek(); {
		case tok.Kind == EOL:
			return nil
		case tok.Is("#"):
			p.lx.Next()
			if at := p.lx.Peek(); !at.Is("@") || at.Spaced {
				return nil
			}
			p.lx.Next()
			ntp, err := p.number(StageExpiration)
			if err != nil {
				return err
			}
			expires, seen = ntp-NTPEpochOffset, true
			return nil
		default:
			ntp, err := p.integer(StageSyntax)
			if err != nil {
				return err
			}
			delta, err := p.integer(StageSyntax)
			if err != nil {
				return err
			}
			if err := p.endOfLine(StageSyntax, true); err != nil {
				return err
			}
			entries = append(entries, NewEntry(ntp-NTPEpochOffset, delta))
			return nil
		}
	})
	if err != nil {
		return nil, err
	}
	if !seen {
		return nil, fmt.Errorf("%s: %w: no #@ line", name, ErrMissingExpiration)
	}
	if len(entries) < MinEntries {
		return nil, fmt.Errorf("%s: %w: %d data lines, want at least %d",
			name, ErrInsufficientEntries, len(entries), MinEntries)
	}
	t, err := NewTable(entries, expires)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return t, nil
}
