package leapsecs

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Parser builds a table from one leap second file format.
type Parser interface {
	// Format names the file format in diagnostics.
	Format() string
	// DefaultName is the conventional file name inside a zoneinfo directory.
	DefaultName() string
	// Parse reads a complete file; name is only used in error messages.
	Parse(name string, r io.Reader) (*Table, error)
}

// ParseFile opens path and parses it with p.
func ParseFile(p Parser, path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer func() { _ = f.Close() }()
	return p.Parse(path, f)
}

// scanLines calls fn for each line of r with its 1-based number.
func scanLines(r io.Reader, fn func(n int, line string) error) error {
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		if err := fn(n, sc.Text()); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// lineParser carries the position of the line being parsed so grammar
// failures can be reported precisely.
type lineParser struct {
	name string
	n    int
	line string
	lx   *Lexer
}

func newLineParser(name string, n int, line string) *lineParser {
	return &lineParser{name: name, n: n, line: line, lx: NewLexer(line)}
}

func (p *lineParser) fail(tok Token, stage Stage, format string, args ...any) error {
	return &LineError{
		Path:   p.name,
		Line:   p.n,
		Column: tok.Col,
		Stage:  stage,
		Text:   p.line,
		Reason: fmt.Sprintf(format, args...),
	}
}

// integer consumes a blank-separated integer field.
func (p *lineParser) integer(stage Stage) (int64, error) {
	if tok := p.lx.Peek(); tok.Kind == Int && !tok.Spaced {
		return 0, p.fail(tok, stage, "missing blank before %q", tok.Text)
	}
	v, err := p.number(stage)
	if err != nil {
		return 0, err
	}
	return v, p.endOfField(stage)
}

// number consumes one integer token.
func (p *lineParser) number(stage Stage) (int64, error) {
	tok := p.lx.Next()
	if tok.Kind != Int {
		return 0, p.fail(tok, stage, "want integer, got %s %q", tok.Kind, tok.Text)
	}
	v, err := tok.Value()
	if err != nil {
		return 0, p.fail(tok, stage, "integer %s out of range", tok.Text)
	}
	return v, nil
}

// endOfField checks that the field just consumed is not glued to the next token.
func (p *lineParser) endOfField(stage Stage) error {
	tok := p.lx.Peek()
	if tok.Kind != EOL && !tok.Spaced {
		return p.fail(tok, stage, "unexpected %q", tok.Text)
	}
	return nil
}

// endOfLine accepts the end of the line, or a trailing comment when
// comments is set.
func (p *lineParser) endOfLine(stage Stage, comments bool) error {
	tok := p.lx.Peek()
	if tok.Kind == EOL || comments && tok.Is("#") {
		return nil
	}
	return p.fail(tok, stage, "trailing %q", p.lx.Rest())
}
