package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/karasz/gtaiconv/cmd"
)

func main() {
	// glog writes to files under $TMPDIR unless told otherwise.
	_ = flag.Set("logtostderr", "true")
	_ = flag.CommandLine.Parse(nil)

	_, calledAs := filepath.Split(os.Args[0])
	args := os.Args[1:]
	res := 0
	switch calledAs {
	case "gtaiconv":
		res = cmd.MainDispatcher(args)
	case "gtailocal", "leapinfo", "posix2tai", "tai2posix":
		res = cmd.MainDispatcher(append([]string{calledAs}, args...))
	default:
		fmt.Println("Called as ", calledAs, ". I don't recognize that name")
		res = 111
	}
	os.Exit(res)
}
