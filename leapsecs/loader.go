package leapsecs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/glog"
	"go.uber.org/atomic"
	"golang.org/x/sync/singleflight"
)

// DefaultZoneinfo is where the system timezone database usually lives.
const DefaultZoneinfo = "/usr/share/zoneinfo"

// ZoneinfoDir returns $ZONEINFO when set and DefaultZoneinfo otherwise.
func ZoneinfoDir() string {
	if dir := os.Getenv("ZONEINFO"); dir != "" {
		return dir
	}
	return DefaultZoneinfo
}

// Parsers lists the formats a Loader tries, in order.
var Parsers = []Parser{NTPList{}, TZData{}}

// Loader builds tables from disk and publishes them on a Converter.
type Loader struct {
	conv    *Converter
	dir     string
	parsers []Parser
	group   singleflight.Group
	seq     atomic.Int64

	mu        sync.Mutex
	published int64 // seq of the load that last published
}

// NewLoader returns a loader publishing on conv. An empty dir means
// ZoneinfoDir().
func NewLoader(conv *Converter, dir string) *Loader {
	if dir == "" {
		dir = ZoneinfoDir()
	}
	return &Loader{conv: conv, dir: dir, parsers: Parsers}
}

// Converter returns the converter tables are published on.
func (l *Loader) Converter() *Converter { return l.conv }

// Dir returns the directory default file names are resolved in.
func (l *Loader) Dir() string { return l.dir }

// Load tries every format in order against path, or against each format's
// default file in the loader directory when path is empty, and publishes
// the first table that parses. When every attempt fails the error joins
// all of them and the previously published table stays in place.
//
// Calls for the same path made before a read starts share it. A call made
// once the read is under way starts its own, so it always sees the file as
// it was at or after the call. A read that finishes after a later one has
// published is dropped.
func (l *Loader) Load(path string) error {
	_, err, _ := l.group.Do(path, func() (any, error) {
		l.group.Forget(path)
		seq := l.seq.Inc()

		t, err := l.build(path)
		if err != nil {
			return nil, err
		}
		if !l.publish(seq, t) {
			glog.V(1).Infof("dropping table read from %q: a later load already published", path)
			return nil, nil
		}
		lo, hi := t.PosixRange()
		glog.Infof("leap second table published: %d entries, posix range [%d, %d], expires %s",
			t.Len(), lo, hi, t.Expires().Format("2006-01-02"))
		return nil, nil
	})
	return err
}

func (l *Loader) publish(seq int64, t *Table) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if seq < l.published {
		return false
	}
	l.published = seq
	l.conv.Publish(t)
	return true
}

func (l *Loader) build(path string) (*Table, error) {
	var errs []error
	for _, p := range l.parsers {
		file := path
		if file == "" {
			file = filepath.Join(l.dir, p.DefaultName())
		}
		glog.V(1).Infof("loading %s from %s", p.Format(), file)
		t, err := ParseFile(p, file)
		if err == nil {
			return t, nil
		}
		glog.Warningf("%s: %v", p.Format(), err)
		errs = append(errs, fmt.Errorf("%s: %w", p.Format(), err))
	}
	return nil, fmt.Errorf("no leap second table loaded: %w", errors.Join(errs...))
}
