package cmd

import (
	"fmt"
	"time"

	units "github.com/docker/go-units"
	"github.com/karasz/gtaiconv/leapsecs"
	"github.com/spf13/cobra"
)

func newLeapInfoCommand(a *app) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "leapinfo",
		Short: "Print the loaded leap second table",
		Long: `leapinfo prints the validity limit of the loaded table followed by one
"posix tai delta" line per leap second. With --quiet only the expiration
line is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := a.conv.Snapshot()
			out := cmd.OutOrStdout()

			_, _ = fmt.Fprintln(out, expiration(t, a.now()))
			if quiet {
				return nil
			}
			for _, e := range t.Entries() {
				_, _ = fmt.Fprintln(out, e)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the expiration")
	return cmd
}

func expiration(t *leapsecs.Table, now time.Time) string {
	expires := t.Expires()
	date := expires.UTC().Format(time.RFC3339)
	if t.Expired(now) {
		return fmt.Sprintf("expired %s (%s ago)", date, units.HumanDuration(now.Sub(expires)))
	}
	return fmt.Sprintf("expires %s (in %s)", date, units.HumanDuration(expires.Sub(now)))
}
