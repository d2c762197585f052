package dispatch

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/yunkya2/smbfs-x68k/internal/direnum"
	"github.com/yunkya2/smbfs-x68k/internal/encoding"
	"github.com/yunkya2/smbfs-x68k/internal/errmap"
	"github.com/yunkya2/smbfs-x68k/internal/filetable"
	"github.com/yunkya2/smbfs-x68k/internal/mount"
	"github.com/yunkya2/smbfs-x68k/internal/pathtrans"
	"github.com/yunkya2/smbfs-x68k/internal/wire"
)

// Dispatcher is the Request Dispatcher (C5): the single entry point a
// host request arrives through, holding the global mutex spec.md §5
// requires be shared with the Keepalive Driver.
type Dispatcher struct {
	mu sync.Mutex

	translator *pathtrans.Translator
	codec      *encoding.Codec
	dirs       *direnum.Engine
	files      *filetable.Table
	mgr        *mount.Manager
	log        *logrus.Entry
}

// New builds a Request Dispatcher wiring every component it routes to.
func New(translator *pathtrans.Translator, codec *encoding.Codec, dirs *direnum.Engine, files *filetable.Table, mgr *mount.Manager, log *logrus.Entry) *Dispatcher {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Dispatcher{translator: translator, codec: codec, dirs: dirs, files: files, mgr: mgr, log: log}
}

// Mutex returns the dispatcher's global mutex, shared with
// keepalive.Driver per spec.md §5.
func (d *Dispatcher) Mutex() *sync.Mutex { return &d.mu }

// Dispatch decodes hdr.Command and runs the matching handler, holding
// the global mutex for the request's whole duration (spec.md §4.5/§5).
// It always returns with hdr.Status carrying either the handler's
// result value or a negated host error code, and never returns a Go
// error itself -- every failure is encoded into the host reply.
func (d *Dispatcher) Dispatch(mem HostMemory, hdr *wire.RequestHeader) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if hdr.Command == CmdInit {
		hdr.Status = uint32(int32(errmap.HostIllegalFunction))
		return
	}

	status, err, overrides := d.route(mem, hdr)
	if err != nil {
		if err == errUnknownCommand {
			hdr.Status = uint32(int32(errmap.HostUnknownCommand))
			return
		}
		code := errmap.Map(err, overrides)
		d.log.WithError(err).WithFields(logrus.Fields{
			"command": hdr.Command,
			"unit":    hdr.Unit,
			"code":    int16(code),
		}).Debug("request failed")
		hdr.Status = uint32(int32(code))
		return
	}
	hdr.Status = status
}

// route is the command-byte switch itself (spec.md §4.5). A nil
// Overrides is fine: errmap.Map treats it as "use the base table".
func (d *Dispatcher) route(mem HostMemory, hdr *wire.RequestHeader) (status uint32, err error, overrides errmap.Overrides) {
	unit := int(hdr.Unit)

	switch hdr.Command {
	case CmdChdir:
		status, err = d.handleChdir(mem, unit, hdr)
	case CmdMkdir:
		status, err = d.handleMkdir(mem, unit, hdr)
		overrides = errmap.MkdirOverrides
	case CmdRmdir:
		status, err = d.handleRmdir(mem, unit, hdr)
		overrides = errmap.RmdirOverrides
	case CmdRename:
		status, err = d.handleRename(mem, unit, hdr)
		overrides = errmap.RenameOverrides
	case CmdDelete:
		status, err = d.handleDelete(mem, unit, hdr)
	case CmdChmod:
		status, err = d.handleChmod(mem, unit, hdr)
	case CmdFiles:
		status, err = d.handleFindFirst(mem, unit, hdr)
	case CmdNFiles:
		status, err = d.handleFindNext(mem, hdr)
	case CmdCreate:
		status, err = d.handleCreate(mem, unit, hdr)
		overrides = errmap.CreateOverrides
	case CmdOpen:
		status, err = d.handleOpen(mem, unit, hdr)
	case CmdClose:
		status, err = d.handleClose(hdr)
	case CmdRead:
		status, err = d.handleRead(mem, hdr)
	case CmdWrite:
		status, err = d.handleWrite(mem, hdr)
	case CmdSeek:
		status, err = d.handleSeek(mem, hdr)
	case CmdFiledate:
		status, err = d.handleFiledate(hdr)
	case CmdDskfre:
		status, err = d.handleDskfre(mem, unit, hdr)
	case CmdDrvctrl, CmdDiskred, CmdDiskwrt, CmdAbort, CmdMediacheck, CmdLock:
		status, err = 0, nil
	case CmdGetdpb:
		status, err = d.handleGetdpb(mem, hdr)
	case CmdIoctl:
		status, err = d.handleIOCTL(mem, unit, hdr)
	default:
		return 0, errUnknownCommand, nil
	}
	return status, err, overrides
}

// errUnknownCommand carries no Kind mapping; Dispatch special-cases it
// rather than routing it through errmap, since 0x1003 isn't one
// of the POSIX-shaped Kinds (spec.md §4.5: "Unknown commands return
// host error 0x1003").
type unknownCommandError struct{}

func (unknownCommandError) Error() string { return "dispatch: unknown command" }

var errUnknownCommand = unknownCommandError{}
