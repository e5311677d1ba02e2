package cmd

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/karasz/gtaiconv/leapsecs"
	"github.com/karasz/gtaiconv/tai64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const leapfile = "../leapsecs/testdata/leap-seconds.list"

func converter(t *testing.T) *leapsecs.Converter {
	t.Helper()
	tbl, err := leapsecs.ParseFile(leapsecs.NTPList{}, leapfile)
	require.NoError(t, err)
	return leapsecs.NewConverter(tbl)
}

func TestGTAILocal(t *testing.T) {
	c := converter(t)

	mp := make(map[string]string)
	mp["@40000000433225833b6e1a8c"] = "2005-09-22 03:30:43.9970715 +0000 UTC"
	mp["@40000000433225833b6e2644"] = "2005-09-22 03:30:43.9970745 +0000 UTC"
	mp["@40000000433225840c85ba04"] = "2005-09-22 03:30:44.2100905 +0000 UTC"
	mp["@40000000433225840c8f0cbc"] = "2005-09-22 03:30:44.2107015 +0000 UTC"
	mp["@40000000433225852a9ada4c"] = "2005-09-22 03:30:45.7147915 +0000 UTC"
	mp["@"] = "@"
	mp["@452452"] = "@452452"
	mp["@40000000gsdf fgsfdgsfdg"] = "@40000000gsdf fgsfdgsfdg"
	mp["@400000005A848EAD"] = "2018-02-14 19:31:20 +0000 UTC"
	mp["@400000005A848EAD sshd: started\n"] = "2018-02-14 19:31:20 +0000 UTC sshd: started\n"
	mp["no label here"] = "no label here"
	// Before 1972 the table has nothing to say.
	mp["@400000000000000a"] = "@400000000000000a"

	for i, k := range mp {
		if z := processline(tableDecoder(c), i); z != k {
			t.Errorf("Line %s was translated to %s instead of %s", i, z, k)
		}
	}
}

func TestGTAILocalMultilog(t *testing.T) {
	mp := map[string]string{
		"@400000005A848EAD":                  "2018-02-14 19:31:47 +0000 UTC",
		"@400000005A848EAD00000000 x":        "2018-02-14 19:31:47 +0000 UTC x",
		"@400000000000000a":                  "1970-01-01 00:00:00 +0000 UTC",
		"@4000000000000009 before the epoch": "@4000000000000009 before the epoch",
	}
	for i, k := range mp {
		if z := processline(tai64.ParseMultilog, i); z != k {
			t.Errorf("Line %s was translated to %s instead of %s", i, z, k)
		}
	}
}

func TestProcessInputStream(t *testing.T) {
	c := converter(t)
	in := "@400000005A848EAD one\n@40000000433225833b6e1a8c two\nthree"

	var buf bytes.Buffer
	out := bufio.NewWriter(&buf)
	require.NoError(t, processInputStream(tableDecoder(c), bufio.NewReader(strings.NewReader(in)), out))
	assert.Equal(t,
		"2018-02-14 19:31:20 +0000 UTC one\n2005-09-22 03:30:43.9970715 +0000 UTC two\nthree",
		buf.String())
}

func TestGTAILocalCommand(t *testing.T) {
	stdout, code := execute(t, "@400000005A848EAD hello\n", "gtailocal", "--leapfile", leapfile)
	require.Equal(t, 0, code)
	assert.Equal(t, "2018-02-14 19:31:20 +0000 UTC hello\n", stdout)

	stdout, code = execute(t, "@400000005A848EAD hello\n", "gtailocal", "--multilog", "--leapfile", leapfile)
	require.Equal(t, 0, code)
	assert.Equal(t, "2018-02-14 19:31:47 +0000 UTC hello\n", stdout)

	stdout, code = execute(t, "", "gtailocal", "--leapfile", leapfile, "/does/not/exist")
	assert.Equal(t, exitFailure, code)
	assert.Empty(t, stdout)
}
