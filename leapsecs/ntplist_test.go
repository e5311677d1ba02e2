package leapsecs

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var trailingComment = regexp.MustCompile(`(?m)^(\d+\t\d+)\t#.*$`)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(fixture(name))
	require.NoError(t, err)
	return string(b)
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func parseNTP(content string) (*Table, error) {
	return NTPList{}.Parse("leap-seconds.list", strings.NewReader(content))
}

func TestNTPListFixture(t *testing.T) {
	tbl, err := ParseFile(NTPList{}, fixture("leap-seconds.list"))
	require.NoError(t, err)
	require.Equal(t, canonical, tbl.Entries())

	posix, tai := tbl.ValidityLimit()
	assert.EqualValues(t, fixtureExpires, posix)
	assert.EqualValues(t, fixtureExpiresTAI, tai)
}

func TestNTPListVariants(t *testing.T) {
	src := readFixture(t, "leap-seconds.list")

	tests := []struct {
		name    string
		content string
	}{
		{"crlf", strings.ReplaceAll(src, "\n", "\r\n")},
		{"blank lines", strings.ReplaceAll(src, "#\n", "\n\n")},
		{"no trailing comments", trailingComment.ReplaceAllString(src, "$1")},
		{"expiration glued", strings.Replace(src, "#@\t", "#@", 1)},
		{"spaces instead of tabs", strings.ReplaceAll(src, "\t", "   ")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := parseNTP(tt.content)
			require.NoError(t, err)
			require.Equal(t, canonical, tbl.Entries())
		})
	}
}

func TestNTPListErrors(t *testing.T) {
	src := readFixture(t, "leap-seconds.list")
	lines := strings.Split(src, "\n")
	var data []string
	for _, l := range lines {
		if l != "" && !strings.HasPrefix(l, "#") {
			data = append(data, l)
		}
	}

	tests := []struct {
		name    string
		content string
		want    error
		line    int
	}{
		{
			name:    "missing expiration",
			content: strings.Replace(src, "#@\t3991593600\n", "", 1),
			want:    ErrMissingExpiration,
		},
		{
			name:    "expiration not a number",
			content: strings.Replace(src, "#@\t3991593600", "#@\tsoon", 1),
			want:    ErrMalformedLine,
			line:    11,
		},
		{
			name:    "too few entries",
			content: "#@\t3991593600\n" + strings.Join(data[:MinEntries-1], "\n") + "\n",
			want:    ErrInsufficientEntries,
		},
		{
			name:    "empty",
			content: "",
			want:    ErrMissingExpiration,
		},
		{
			name:    "single field",
			content: strings.Replace(src, "2287785600\t11", "2287785600", 1),
			want:    ErrMalformedLine,
			line:    14,
		},
		{
			name:    "three fields",
			content: strings.Replace(src, "2287785600\t11", "2287785600\t11\t12", 1),
			want:    ErrMalformedLine,
			line:    14,
		},
		{
			name:    "not a number",
			content: strings.Replace(src, "2287785600\t11", "2287785600\televen", 1),
			want:    ErrMalformedLine,
			line:    14,
		},
		{
			name:    "glued garbage",
			content: strings.Replace(src, "2287785600\t11", "2287785600x\t11", 1),
			want:    ErrMalformedLine,
			line:    14,
		},
		{
			name:    "delta skips",
			content: strings.Replace(src, "2287785600\t11", "2287785600\t12", 1),
			want:    ErrMalformedTable,
		},
		{
			name:    "expiration before last leap second",
			content: strings.Replace(src, "#@\t3991593600", "#@\t3600000000", 1),
			want:    ErrMalformedTable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := parseNTP(tt.content)
			require.Nil(t, tbl)
			require.ErrorIs(t, err, tt.want)
			if tt.line != 0 {
				var le *LineError
				require.True(t, errors.As(err, &le))
				assert.Equal(t, tt.line, le.Line)
				assert.Equal(t, "leap-seconds.list", le.Path)
			}
		})
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(NTPList{}, filepath.Join(t.TempDir(), "nope"))
	require.ErrorIs(t, err, ErrIO)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseFileTemp(t *testing.T) {
	path := writeTemp(t, "leap-seconds.list", readFixture(t, "leap-seconds.list"))
	tbl, err := ParseFile(NTPList{}, path)
	require.NoError(t, err)
	require.Equal(t, len(canonical), tbl.Len())
}
