package mount

import (
	"github.com/yunkya2/smbfs-x68k/internal/errmap"
)

// Unmount implements the IOCTL UNMOUNT sub-command: refuses if the
// host's open-file table still has a file against this unit, else
// drains every DirCursor/FileHandle and tears the session down
// (spec.md §4.6).
func (m *Manager) Unmount(u int) error {
	if err := validUnit(u); err != nil {
		return err
	}
	if m.env.AnyOpenFileUsesUnit(u) {
		return errBusy
	}
	m.teardown(u)
	return nil
}

// UnmountAll implements UNMOUNT-ALL: every target unit must pass the
// busy check before any of them is touched (spec.md §4.6). Teardown
// itself then proceeds one unit at a time, in unit order: all remote
// operations within one host request are strictly sequenced (spec.md
// §5), so two units' sessions are never torn down concurrently even
// though each teardown is otherwise independent per-unit work.
func (m *Manager) UnmountAll() error {
	m.mu.Lock()
	var targets []int
	for i := range m.units {
		if m.units[i].mounted {
			targets = append(targets, i)
		}
	}
	m.mu.Unlock()

	for _, u := range targets {
		if m.env.AnyOpenFileUsesUnit(u) {
			return errBusy
		}
	}

	for _, u := range targets {
		m.teardown(u)
	}
	return nil
}

func (m *Manager) teardown(u int) {
	if m.dirs != nil {
		m.dirs.DropAllForUnit(u)
	}
	if m.files != nil {
		m.files.CloseAllForUnit(u)
	}
	m.mu.Lock()
	client := m.units[u].client
	m.units[u] = unit{}
	m.mu.Unlock()
	if client != nil {
		_ = client.Close()
	}
}

// errBusy is surfaced to the IOCTL caller (spec.md §7: "Unmount-while-
// busy is surfaced to the IOCTL caller, which presents a localised
// message").
var errBusy = errmap.ErrBusy

// GetMountInfo is the GET-MOUNT reply payload: server, share,
// root-path, user, each to be legacy-encoded by the caller before
// writing into the four (buf,len) pairs (spec.md §4.6).
type GetMountInfo struct {
	Server   string
	Share    string
	RootPath string
	User     string
}

// GetMount reports a mounted unit's connection details. It never
// discloses the password.
func (m *Manager) GetMount(u int) (GetMountInfo, error) {
	if err := validUnit(u); err != nil {
		return GetMountInfo{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.units[u].mounted {
		return GetMountInfo{}, errmap.ErrNoSuchDirectory
	}
	return GetMountInfo{
		Server:   m.units[u].client.String(),
		Share:    m.units[u].share,
		RootPath: m.units[u].rootPath,
		User:     m.units[u].user,
	}, nil
}

// GetSignature implements IOCTL GET-SIGNATURE: the fixed 8-byte
// identification string, regardless of mount state (spec.md §4.6,
// invariant spec.md §8.6).
func GetSignature() [8]byte {
	return Signature
}
