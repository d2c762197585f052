// Package resident is the Resident Installer/Remover (C8): the
// install/remove lifecycle a real trampoline's entry point would call
// into once at load and once at unload (spec.md §4.8).
package resident

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yunkya2/smbfs-x68k/internal/config"
	"github.com/yunkya2/smbfs-x68k/internal/direnum"
	"github.com/yunkya2/smbfs-x68k/internal/dispatch"
	"github.com/yunkya2/smbfs-x68k/internal/encoding"
	"github.com/yunkya2/smbfs-x68k/internal/filetable"
	"github.com/yunkya2/smbfs-x68k/internal/hostenv"
	"github.com/yunkya2/smbfs-x68k/internal/keepalive"
	"github.com/yunkya2/smbfs-x68k/internal/mount"
	"github.com/yunkya2/smbfs-x68k/internal/pathtrans"
)

// DriverName is the 8-byte resident name the current-directory table
// records, matching mount.Signature's driver identity.
var DriverName = [8]byte{'S', 'M', 'B', 'F', 'S', ' ', ' ', ' '}

// Resident bundles the component graph one installed driver owns.
type Resident struct {
	Dispatcher *dispatch.Dispatcher
	Manager    *mount.Manager
	Keepalive  *keepalive.Driver
	Drives     []byte
	log        *logrus.Entry
}

// Install runs the load-time sequence of spec.md §4.8: verify
// networking, refuse a duplicate resident, reserve drive letters,
// populate the current-directory table, spawn keepalive, and splice
// into the driver chain.
func Install(ctx context.Context, env hostenv.Environment, opts config.Options, log *logrus.Logger) (*Resident, error) {
	if log == nil {
		log = logrus.New()
	}
	entry := log.WithField("component", "resident")

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if !env.NetworkingLoaded() {
		return nil, fmt.Errorf("resident: TCP networking stack is not loaded")
	}
	if env.DriverInstalled(DriverName) {
		return nil, fmt.Errorf("resident: %q is already installed", DriverName)
	}

	drives := env.ReserveDriveLetters(opts.Units)
	if len(drives) < opts.Units {
		return nil, fmt.Errorf("resident: only %d of %d drive letters available", len(drives), opts.Units)
	}
	for _, drive := range drives {
		env.SetCurrentDirEntry(hostenv.CurrentDirEntry{
			Drive: drive,
			Path:  string(rune(pathSeparator)),
			Type:  hostenv.RemoteDriveType,
		})
	}

	codec := encoding.NewCodec()
	mgr := mount.New(env)
	translator := pathtrans.New(mgr, codec)
	dirs := direnum.New(translator, mgr)
	files := filetable.New()
	mgr.Bind(dirs, files)

	d := dispatch.New(translator, codec, dirs, files, mgr, entry)

	kd := keepalive.New(mgr, d.Mutex(), entry)
	kd.Start(ctx)

	if err := env.LinkDriver(DriverName); err != nil {
		kd.Stop()
		return nil, err
	}

	entry.WithField("units", opts.Units).Info("driver installed")
	return &Resident{Dispatcher: d, Manager: mgr, Keepalive: kd, Drives: drives, log: entry}, nil
}

// pathSeparator is the host's directory separator byte (wire.DirSeparator),
// duplicated here to avoid importing internal/wire for a single byte.
const pathSeparator = 0x09

// Remove runs the unload sequence of spec.md §4.8 Remove: force every
// unit to unmount (refusing if any is busy), stop keepalive, unsplice
// from the driver chain, and clear the drive slots this resident owns.
func (r *Resident) Remove(env hostenv.Environment) error {
	if err := r.Manager.UnmountAll(); err != nil {
		return err
	}
	r.Keepalive.Stop()
	if err := env.UnlinkDriver(DriverName); err != nil {
		return err
	}
	for _, drive := range r.Drives {
		env.ClearCurrentDirEntry(drive)
	}
	r.log.Info("driver removed")
	return nil
}
