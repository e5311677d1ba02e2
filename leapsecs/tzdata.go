package leapsecs

import (
	"fmt"
	"io"
	"time"
)

const (
	minLeapYear = 1972
	maxLeapYear = 3000
)

var months = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// maxDays ignores leap years on purpose: Feb 29 is always accepted.
var maxDays = [...]int64{
	time.January: 31, time.February: 29, time.March: 31, time.April: 30,
	time.May: 31, time.June: 30, time.July: 31, time.August: 31,
	time.September: 30, time.October: 31, time.November: 30, time.December: 31,
}

// TZData parses the tzdata "leapseconds" file read by zic:
//
//	Leap	1972	Jun	30	23:59:60	+	S
//	Expires	2026	Jun	28	00:00:00
//	#expires 1782604800 (2026-06-28 00:00:00 UTC)
//
// The table starts with the 1972 epoch entry and each Leap line moves
// TAI-UTC by one second in the direction of its sign.
type TZData struct{}

var _ Parser = TZData{}

// Format implements Parser.
func (TZData) Format() string { return "tzdata leapseconds" }

// DefaultName implements Parser.
func (TZData) DefaultName() string { return "leapseconds" }

// Parse implements Parser.
func (TZData) Parse(name string, r io.Reader) (*Table, error) {
	var (
		entries = []Entry{NewEntry(EpochPosix, InitialDelta)}
		delta   = int64(InitialDelta)
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
			if kw := p.lx.Peek(); !kw.Is("expires") || kw.Spaced {
				return nil
			}
			p.lx.Next()
			v, err := p.integer(StageExpiration)
			if err != nil {
				return err
			}
			expires, seen = v, true
			return nil
		case tok.Is("Expires"):
			p.lx.Next()
			v, err := p.date()
			if err != nil {
				return err
			}
			if err := p.endOfLine(StageSuffix, false); err != nil {
				return err
			}
			expires, seen = v, true
			return nil
		default:
			posix, step, err := p.leap()
			if err != nil {
				return err
			}
			delta += step
			entries = append(entries, NewEntry(posix, delta))
			return nil
		}
	})
	if err != nil {
		return nil, err
	}
	if len(entries) == 1 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoEntries)
	}
	if !seen {
		return nil, fmt.Errorf("%s: %w: no #expires line", name, ErrMissingExpiration)
	}
	t, err := NewTable(entries, expires)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return t, nil
}

// leap parses "Leap YEAR MON DAY HH:MM:SS SIGN S" and returns the POSIX
// time the correction takes effect and its direction.
func (p *lineParser) leap() (posix, step int64, err error) {
	if tok := p.lx.Next(); !tok.Is("Leap") {
		return 0, 0, p.fail(tok, StageKeyword, "want Leap, got %q", tok.Text)
	}
	if posix, err = p.date(); err != nil {
		return 0, 0, err
	}

	tok := p.lx.Next()
	switch {
	case tok.Kind == EOL:
		return 0, 0, p.fail(tok, StageSign, "missing sign")
	case !tok.Spaced:
		return 0, 0, p.fail(tok, StageSign, "missing blank before %q", tok.Text)
	case tok.Is("+"):
		step = 1
	case tok.Is("-"):
		step = -1
	default:
		return 0, 0, p.fail(tok, StageSign, "want + or -, got %q", tok.Text)
	}
	if err = p.endOfField(StageSign); err != nil {
		return 0, 0, err
	}

	tok = p.lx.Next()
	if !tok.Is("S") || !tok.Spaced {
		return 0, 0, p.fail(tok, StageSuffix, "want S, got %q", tok.Text)
	}
	if err = p.endOfLine(StageSuffix, false); err != nil {
		return 0, 0, err
	}
	return posix, step, nil
}

// date parses "YEAR MON DAY HH:MM:SS" into POSIX seconds. 23:59:60 lands
// on the following midnight, which is where the new offset starts.
func (p *lineParser) date() (int64, error) {
	year, err := p.integer(StageYear)
	if err != nil {
		return 0, err
	}
	if year < minLeapYear || year > maxLeapYear {
		return 0, p.fail(p.lx.Peek(), StageYearRange, "year %d not in %d..%d", year, minLeapYear, maxLeapYear)
	}

	tok := p.lx.Next()
	month, ok := months[tok.Text]
	if tok.Kind != Word || !tok.Spaced || !ok {
		return 0, p.fail(tok, StageMonth, "unknown month %q", tok.Text)
	}
	if err := p.endOfField(StageMonth); err != nil {
		return 0, err
	}

	day, err := p.integer(StageDay)
	if err != nil {
		return 0, err
	}
	if day < 1 || day > maxDays[month] {
		return 0, p.fail(p.lx.Peek(), StageDay, "day %d not in 1..%d for %s", day, maxDays[month], month)
	}

	hour, minute, second, err := p.clock()
	if err != nil {
		return 0, err
	}
	return time.Date(int(year), month, int(day), int(hour), int(minute), int(second), 0, time.UTC).Unix(), nil
}

// clock parses HH:MM:SS, allowing second 60.
func (p *lineParser) clock() (hour, minute, second int64, err error) {
	if tok := p.lx.Peek(); tok.Kind == Int && !tok.Spaced {
		return 0, 0, 0, p.fail(tok, StageTime, "missing blank before %q", tok.Text)
	}
	if hour, err = p.number(StageTime); err != nil {
		return 0, 0, 0, err
	}
	for _, f := range []*int64{&minute, &second} {
		if tok := p.lx.Next(); !tok.Is(":") || tok.Spaced {
			return 0, 0, 0, p.fail(tok, StageTime, "want ':', got %q", tok.Text)
		}
		if tok := p.lx.Peek(); tok.Spaced {
			return 0, 0, 0, p.fail(tok, StageTime, "blank inside time of day")
		}
		if *f, err = p.number(StageTime); err != nil {
			return 0, 0, 0, err
		}
	}
	if err = p.endOfField(StageTime); err != nil {
		return 0, 0, 0, err
	}
	switch {
	case hour > 23:
		err = p.fail(p.lx.Peek(), StageTime, "hour %d > 23", hour)
	case minute > 59:
		err = p.fail(p.lx.Peek(), StageTime, "minute %d > 59", minute)
	case second > 60:
		err = p.fail(p.lx.Peek(), StageTime, "second %d > 60", second)
	}
	return hour, minute, second, err
}
