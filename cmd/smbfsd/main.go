// Command smbfsd is the resident installer/remover (C8): a foreground
// rendition of what a real trampoline would load once and keep
// resident, since this module has no real Human68k process to attach
// to (spec.md §1, §4.8).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/yunkya2/smbfs-x68k/internal/config"
	"github.com/yunkya2/smbfs-x68k/internal/hostenv"
	"github.com/yunkya2/smbfs-x68k/internal/logging"
	"github.com/yunkya2/smbfs-x68k/internal/resident"
)

func main() {
	units := flag.IntP("units", "u", 1, "number of mount units (1..8)")
	heapKiB := flag.IntP("heap", "m", config.DefaultHeapKiB, "heap size in KiB (>=96)")
	remove := flag.BoolP("remove", "r", false, "remove an installed resident")
	debug := flag.CountP("debug", "D", "increment debug level")
	flag.Parse()

	log := logging.New(*debug)
	opts := config.Options{Units: *units, HeapKiB: *heapKiB, Remove: *remove, Debug: *debug}

	if err := run(opts, log); err != nil {
		fmt.Fprintln(os.Stderr, "smbfsd:", err)
		os.Exit(1)
	}
}

func run(opts config.Options, log *logrus.Logger) error {
	if opts.Remove {
		// A standalone process can't reattach to a previously-installed
		// resident's live Go state; this rendition only demonstrates the
		// install-then-serve lifecycle within one run.
		return fmt.Errorf("remove a resident from the same process that installed it")
	}

	env := hostenv.NewSimulated('Z')
	env.SetNetworkingLoaded(hostenv.ProbeTCPStack())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, err := resident.Install(ctx, env, opts, log)
	if err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	return r.Remove(env)
}
