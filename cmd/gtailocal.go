package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/karasz/glibtai"
	"github.com/karasz/gtaiconv/leapsecs"
	"github.com/karasz/gtaiconv/tai64"
	"github.com/spf13/cobra"
)

const (
	taiLabelLength  = 1 + 2*glibtai.TAILength
	tainLabelLength = 1 + 2*glibtai.TAINLength
)

// labelDecoder turns one "@" label into UTC.
type labelDecoder func(label string) (time.Time, error)

func tableDecoder(c *leapsecs.Converter) labelDecoder {
	return func(label string) (time.Time, error) { return tai64.Parse(c, label) }
}

func newGTAILocalCommand(a *app) *cobra.Command {
	var multilog bool
	cmd := &cobra.Command{
		Use:   "gtailocal [file|-]...",
		Short: "Replace TAI64 and TAI64N labels in log lines with UTC times",
		Long: `gtailocal reads log lines, for example from multilog, and replaces the
first @-prefixed TAI64N or TAI64 label on each line with its UTC time.

Labels are read as true TAI64, 2^62 plus TAI seconds, and converted through
the leap second table. daemontools tai64n and multilog instead write 2^62
plus 10 plus POSIX seconds, ignoring leap seconds; reading such labels as
TAI puts them TAI-UTC minus 10 seconds early (27 s since 2017). Use
--multilog for those logs.

With no file, or when file is -, standard input is read. Standard input must
be a pipe.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			decode := tableDecoder(a.conv)
			if multilog {
				decode = tai64.ParseMultilog
			}
			output := bufio.NewWriter(cmd.OutOrStdout())
			defer output.Flush()

			if len(args) == 0 {
				args = []string{"-"}
			}
			for _, name := range args {
				if err := localizeFile(decode, cmd.InOrStdin(), name, output); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&multilog, "multilog", false,
		"read labels as daemontools writes them (POSIX seconds plus 10, no leap seconds)")
	return cmd
}

func localizeFile(decode labelDecoder, stdin io.Reader, name string, output *bufio.Writer) error {
	if name == "-" {
		if f, ok := stdin.(*os.File); ok {
			if err := validateInputFile(f); err != nil {
				return err
			}
		}
		return processInputStream(decode, bufio.NewReader(stdin), output)
	}

	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return processInputStream(decode, bufio.NewReader(f), output)
}

// tryParseTimestamp attempts to parse and replace a label of the given length at atpos.
func tryParseTimestamp(decode labelDecoder, working string, atpos int, length int) (string, bool) {
	if len(working) < atpos+length {
		return working, false
	}

	lbl := working[atpos : atpos+length]
	t, err := decode(lbl)
	if err != nil {
		return working, false
	}
	return working[:atpos] + fmt.Sprint(t) + working[atpos+length:], true
}

func processline(decode labelDecoder, s string) string {
	atpos := strings.Index(s, "@")
	if atpos == -1 {
		return s
	}

	if result, ok := tryParseTimestamp(decode, s, atpos, tainLabelLength); ok {
		return result
	}
	if result, ok := tryParseTimestamp(decode, s, atpos, taiLabelLength); ok {
		return result
	}
	return s
}

// validateInputFile checks that stdin is a pipe.
func validateInputFile(file *os.File) error {
	info, err := file.Stat()
	if err != nil {
		return err
	}

	if info.Mode()&os.ModeNamedPipe == 0 {
		return errors.New("the command is intended to work with pipes.\nUsage: cat logfile | gtailocal")
	}

	return nil
}

// processInputStream reads from in and writes processed lines to output.
func processInputStream(decode labelDecoder, in *bufio.Reader, output *bufio.Writer) error {
	for {
		input, err := in.ReadString('\n')
		if input != "" {
			if _, werr := output.WriteString(processline(decode, input)); werr != nil {
				return werr
			}
			if werr := output.Flush(); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
