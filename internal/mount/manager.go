// Package mount is the Mount Manager (C6): per-unit mount/unmount/
// getmount IOCTL handlers, owning protocol-context lifecycle
// (spec.md §4.6).
package mount

import (
	"sync"

	"github.com/yunkya2/smbfs-x68k/internal/direnum"
	"github.com/yunkya2/smbfs-x68k/internal/errmap"
	"github.com/yunkya2/smbfs-x68k/internal/filetable"
	"github.com/yunkya2/smbfs-x68k/internal/hostenv"
	"github.com/yunkya2/smbfs-x68k/internal/smbclient"
)

// MaxUnits is the number of mount slots (spec.md §3).
const MaxUnits = 8

// Signature is the fixed 8-byte reply to IOCTL GET-SIGNATURE
// (spec.md §4.6/§6).
var Signature = [8]byte{'S', 'M', 'B', 'F', 'S', 'v', '1', ' '}

// unit holds one mount slot's state (spec.md §3's Unit).
type unit struct {
	client   *smbclient.Client
	rootPath string
	share    string
	user     string
	mounted  bool
}

// Manager owns the process-wide mount tables and the directory/file
// arenas whose entries belong to a unit.
type Manager struct {
	mu    sync.Mutex
	units [MaxUnits]unit

	env   hostenv.Environment
	dirs  *direnum.Engine
	files *filetable.Table
}

// New builds a Mount Manager. dirs/files are wired in after
// construction with Bind (see resident.Install), because
// direnum.Engine and filetable.Table are built with the Manager as
// their client lookup and so must exist after it.
func New(env hostenv.Environment) *Manager {
	return &Manager{env: env}
}

// Bind wires the directory-enumeration engine and file-handle table
// this manager's unmount path must drain.
func (m *Manager) Bind(dirs *direnum.Engine, files *filetable.Table) {
	m.dirs = dirs
	m.files = files
}

// Client implements direnum.ClientLookup and is used directly by
// dispatch handlers needing a unit's protocol client.
func (m *Manager) Client(u int) (*smbclient.Client, bool) {
	if u < 0 || u >= MaxUnits {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.units[u].mounted {
		return nil, false
	}
	return m.units[u].client, true
}

// RootPath implements pathtrans.RootResolver.
func (m *Manager) RootPath(u int) (string, bool) {
	if u < 0 || u >= MaxUnits {
		return "", false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.units[u].mounted {
		return "", false
	}
	return m.units[u].rootPath, true
}

// Mounted reports whether unit u currently holds a session.
func (m *Manager) Mounted(u int) bool {
	_, ok := m.RootPath(u)
	return ok
}

func validUnit(u int) error {
	if u < 0 || u >= MaxUnits {
		return errmap.ErrIllegalDrive
	}
	return nil
}
