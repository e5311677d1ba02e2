// Package cmd implements the gtaiconv applets.
package cmd

import (
	"flag"
	"time"

	"github.com/karasz/gtaiconv/leapsecs"
	"github.com/spf13/cobra"
)

// exitFailure is the daemontools-style "temporary failure" exit code.
const exitFailure = 111

type app struct {
	leapfile string
	zoneinfo string
	conv     *leapsecs.Converter
	now      func() time.Time
}

func newApp() *app {
	return &app{conv: &leapsecs.Converter{}, now: time.Now}
}

// load publishes a table unless one is already loaded.
func (a *app) load() error {
	if a.conv.Ready() {
		return nil
	}
	return leapsecs.NewLoader(a.conv, a.zoneinfo).Load(a.leapfile)
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "gtaiconv",
		Short: "Convert between POSIX and TAI time",
		Long: `gtaiconv converts between POSIX time, which repeats a second at every
leap second, and TAI time, which never does.

The leap second table is read from leap-seconds.list (IETF/IANA) and, if that
fails, from the tzdata leapseconds file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.load()
		},
	}
	root.PersistentFlags().StringVarP(&a.leapfile, "leapfile", "f", "",
		"leap second file (default: leap-seconds.list, then leapseconds, in the zoneinfo directory)")
	root.PersistentFlags().StringVar(&a.zoneinfo, "zoneinfo", "",
		"directory holding the default leap second files (default $ZONEINFO or "+leapsecs.DefaultZoneinfo+")")
	root.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	root.AddCommand(
		newPosixToTAICommand(a),
		newTAIToPosixCommand(a),
		newRangeCommand(a),
		newLeapInfoCommand(a),
		newGTAILocalCommand(a),
	)
	return root
}
