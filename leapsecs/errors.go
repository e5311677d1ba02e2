package leapsecs

import (
	"errors"
	"fmt"
)

var (
	// ErrIO reports a source file that could not be opened or read.
	ErrIO = errors.New("leap second file unreadable")
	// ErrMalformedLine reports a line that does not follow the file grammar.
	ErrMalformedLine = errors.New("malformed line")
	// ErrInsufficientEntries reports an NTP list with too few data lines.
	ErrInsufficientEntries = errors.New("not enough leap seconds")
	// ErrNoEntries reports a tzdata file without any Leap line.
	ErrNoEntries = errors.New("no leap seconds found")
	// ErrMissingExpiration reports a file without an expiration marker.
	ErrMissingExpiration = errors.New("missing expiration date")
	// ErrMalformedTable reports a parsed table that breaks the table invariants.
	ErrMalformedTable = errors.New("malformed leap second table")
	// ErrNotReady is returned by conversions before any table was published.
	ErrNotReady = errors.New("leap second table not loaded")
	// ErrOutOfRange is returned by conversions outside the table validity range.
	ErrOutOfRange = errors.New("time outside leap second table range")
)

// Stage identifies the grammar element a LineError failed on.
type Stage int

// Parse stages, in the order a line is consumed.
const (
	StageSyntax Stage = iota
	StageKeyword
	StageYear
	StageYearRange
	StageMonth
	StageDay
	StageTime
	StageSign
	StageSuffix
	StageExpiration
)

var stageNames = [...]string{
	StageSyntax:     "syntax",
	StageKeyword:    "keyword",
	StageYear:       "year",
	StageYearRange:  "year range",
	StageMonth:      "month",
	StageDay:        "day",
	StageTime:       "time of day",
	StageSign:       "sign",
	StageSuffix:     "suffix",
	StageExpiration: "expiration",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// LineError describes a rejected line of a leap second file.
type LineError struct {
	Path   string
	Line   int
	Column int
	Stage  Stage
	Text   string
	Reason string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d:%d: bad %s: %s in %q", e.Path, e.Line, e.Column, e.Stage, e.Reason, e.Text)
}

// Unwrap makes every LineError match ErrMalformedLine.
func (*LineError) Unwrap() error {
	return ErrMalformedLine
}
