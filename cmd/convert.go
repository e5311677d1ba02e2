package cmd

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/karasz/glibtai"
	"github.com/karasz/gtaiconv/tai64"
	"github.com/spf13/cobra"
)

// parsePosix accepts POSIX seconds or an RFC 3339 timestamp.
func parsePosix(s string) (int64, error) {
	if p, err := strconv.ParseInt(s, 10, 64); err == nil {
		return p, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("%q is neither POSIX seconds nor an RFC 3339 time", s)
	}
	return t.Unix(), nil
}

// parseTAI accepts TAI seconds or an @-prefixed TAI64 label.
func parseTAI(s string) (int64, error) {
	if !strings.HasPrefix(s, "@") {
		tai, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is neither TAI seconds nor a TAI64 label", s)
		}
		return tai, nil
	}
	if len(s) == 1+2*glibtai.TAINLength {
		s = s[:1+2*glibtai.TAILength]
	}
	if len(s) != 1+2*glibtai.TAILength {
		return 0, fmt.Errorf("%q is not a TAI64 label", s)
	}
	label, err := glibtai.TAIfromString(s)
	if err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(glibtai.TAIPack(label))
	if v < tai64.Base || v-tai64.Base > 1<<62 {
		return 0, tai64.ErrLabel
	}
	return int64(v - tai64.Base), nil
}

func newPosixToTAICommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "posix2tai [seconds|rfc3339]...",
		Short: "Convert POSIX times to TAI seconds",
		Long: `posix2tai prints "posix tai" for each argument, or for the current time
when there is none.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{strconv.FormatInt(a.now().Unix(), 10)}
			}
			var errs []error
			for _, arg := range args {
				p, err := parsePosix(arg)
				if err == nil {
					var tai int64
					if tai, err = a.conv.PosixToTAI(p); err == nil {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d %d\n", p, tai)
						continue
					}
				}
				errs = append(errs, fmt.Errorf("%s: %w", arg, err))
			}
			return errors.Join(errs...)
		},
	}
}

func newTAIToPosixCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tai2posix seconds|@label...",
		Short: "Convert TAI seconds to POSIX times",
		Long: `tai2posix prints "tai posix utc" for each argument. A second inserted by
a leap second shares its POSIX time with the second after it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var errs []error
			for _, arg := range args {
				tai, err := parseTAI(arg)
				if err == nil {
					var p int64
					if p, err = a.conv.TAIToPosix(tai); err == nil {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d %d %s\n", tai, p,
							time.Unix(p, 0).UTC().Format(time.RFC3339))
						continue
					}
				}
				errs = append(errs, fmt.Errorf("%s: %w", arg, err))
			}
			return errors.Join(errs...)
		},
	}
}

func newRangeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "range",
		Short: "Print the POSIX and TAI ranges the loaded table covers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plo, phi, err := a.conv.PosixRange()
			if err != nil {
				return err
			}
			tlo, thi, err := a.conv.TAIRange()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "posix %d %d\n", plo, phi)
			_, _ = fmt.Fprintf(out, "tai %d %d\n", tlo, thi)
			return nil
		},
	}
}
