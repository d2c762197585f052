// Package filetable is the File-Handle Table (C4): maps host
// file-control-block addresses to open remote handles and an
// authoritative file-position cursor (spec.md §4.4).
package filetable

import (
	"sync"
	"time"

	"github.com/yunkya2/smbfs-x68k/internal/errmap"
	"github.com/yunkya2/smbfs-x68k/internal/smbclient"
	"github.com/yunkya2/smbfs-x68k/internal/wire"
)

// FileHandle is one live open-file entry, keyed by the host's
// file-control-block address (spec.md §3).
type FileHandle struct {
	key    uint32
	unit   int
	f      *smbclient.File
	pos    uint32 // authoritative in-driver byte offset
	path   string
	client *smbclient.Client
}

func (h *FileHandle) Key() uint32 { return h.key }
func (h *FileHandle) Unit() int   { return h.unit }

// Table owns the arena of live FileHandles.
type Table struct {
	mu      sync.Mutex
	handles map[uint32]*FileHandle
}

// New builds an empty File-Handle Table.
func New() *Table {
	return &Table{handles: make(map[uint32]*FileHandle)}
}

// Create opens a remote path for create|truncate|read-write, adding
// exclusive-create when excl is set, and allocates (or reuses, closing
// the prior handle first) a FileHandle under key. It sets pos to 0 and
// returns the size the host's FCB size field should be written to
// (always 0 for a freshly created file) (spec.md §4.4).
func (t *Table) Create(unit int, client *smbclient.Client, path string, excl bool, key uint32) (size uint32, err error) {
	f, err := client.Create(path, excl)
	if err != nil {
		return 0, err
	}
	t.install(key, unit, client, path, f)
	return 0, nil
}

// Open maps the host's 0/1/2 mode byte to read/write/read-write, opens
// the remote path, discovers its length via seek-to-end then
// seek-back, and allocates the FileHandle with pos=0 (spec.md §4.4).
func (t *Table) Open(unit int, client *smbclient.Client, path string, mode int, key uint32) (size uint32, err error) {
	f, err := client.Open(path, mode)
	if err != nil {
		return 0, err
	}
	length, err := f.Seek(0, 2) // io.SeekEnd
	if err != nil {
		_ = f.Close()
		return 0, err
	}
	if _, err := f.Seek(0, 0); err != nil { // io.SeekStart
		_ = f.Close()
		return 0, err
	}
	t.install(key, unit, client, path, f)
	if length > 0xffffffff {
		length = 0xffffffff
	}
	return uint32(length), nil
}

func (t *Table) install(key uint32, unit int, client *smbclient.Client, path string, f *smbclient.File) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if old, ok := t.handles[key]; ok {
		_ = old.f.Close()
	}
	t.handles[key] = &FileHandle{key: key, unit: unit, f: f, pos: 0, path: path, client: client}
}

func (t *Table) lookup(key uint32) (*FileHandle, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	h, ok := t.handles[key]
	return h, ok
}

// Close finds the handle by key, closes the remote file, and drops the
// entry. A missing key is bad-file-number (spec.md §4.4).
func (t *Table) Close(key uint32) error {
	t.mu.Lock()
	h, ok := t.handles[key]
	delete(t.handles, key)
	t.mu.Unlock()
	if !ok {
		return errmap.ErrBadFileNumber
	}
	return h.f.Close()
}

// reconcile seeks the remote file to fcbPos if it disagrees with the
// handle's authoritative pos, the way read/write must before touching
// the file (spec.md §4.4).
func (h *FileHandle) reconcile(fcbPos uint32) error {
	if fcbPos == h.pos {
		return nil
	}
	if _, err := h.f.Seek(int64(fcbPos), 0); err != nil {
		return err
	}
	h.pos = fcbPos
	return nil
}

// Read finds the handle, reconciles position against the host's FCB,
// reads into buf, advances pos by the bytes read, and reports the new
// position to write back into the host's FCB (spec.md §4.4, invariant
// spec.md §8.2).
func (t *Table) Read(key uint32, fcbPos uint32, buf []byte) (n int, newPos uint32, err error) {
	h, ok := t.lookup(key)
	if !ok {
		return 0, 0, errmap.ErrBadFileNumber
	}
	if err := h.reconcile(fcbPos); err != nil {
		return 0, h.pos, err
	}
	n, err = h.f.Read(buf)
	if n > 0 {
		h.pos += uint32(n)
	}
	if err != nil && n == 0 {
		return 0, h.pos, err
	}
	return n, h.pos, nil
}

// Write finds the handle. If len(buf) == 0 it truncates the remote
// file at the host's current position and reports that as the new
// size (spec.md §4.4, boundary scenario spec.md §8.6). Otherwise it
// reconciles position, writes, advances pos, and reports the new
// position plus the new size: fcbSize, or the new position when the
// write went past the end.
func (t *Table) Write(key uint32, fcbPos uint32, fcbSize uint32, buf []byte) (n int, newPos uint32, newSize uint32, err error) {
	h, ok := t.lookup(key)
	if !ok {
		return 0, 0, 0, errmap.ErrBadFileNumber
	}
	if len(buf) == 0 {
		if err := h.f.Truncate(int64(fcbPos)); err != nil {
			return 0, h.pos, fcbSize, err
		}
		h.pos = fcbPos
		return 0, h.pos, fcbPos, nil
	}
	if err := h.reconcile(fcbPos); err != nil {
		return 0, h.pos, fcbSize, err
	}
	n, err = h.f.Write(buf)
	if n > 0 {
		h.pos += uint32(n)
	}
	newSize = fcbSize
	if h.pos > newSize {
		newSize = h.pos
	}
	if err != nil {
		return n, h.pos, newSize, err
	}
	return n, h.pos, newSize, nil
}

// Filedate reads or sets a file's modification time. value == 0 means
// "read": fstat the remote file and return its packed date|time.
// Otherwise value is a packed date|time to set as the remote mtime
// (spec.md §4.4).
func (t *Table) Filedate(key uint32, value uint32) (uint32, error) {
	h, ok := t.lookup(key)
	if !ok {
		return 0, errmap.ErrBadFileNumber
	}
	if value == 0 {
		fi, err := h.f.Stat()
		if err != nil {
			return 0, err
		}
		date := wire.PackDate(fi.ModTime())
		pt := wire.PackTime(fi.ModTime())
		return uint32(date)<<16 | uint32(pt), nil
	}
	date := uint16(value >> 16)
	pt := uint16(value)
	mtime := wire.UnpackDateTime(date, pt, time.Local)
	if err := h.client.Chtimes(h.path, mtime); err != nil {
		return 0, err
	}
	return 0, nil
}

// CloseAllForUnit closes every handle owned by unit, used on unmount
// (spec.md §3 lifecycle).
func (t *Table) CloseAllForUnit(unit int) {
	t.mu.Lock()
	var keys []uint32
	for k, h := range t.handles {
		if h.unit == unit {
			keys = append(keys, k)
		}
	}
	t.mu.Unlock()
	for _, k := range keys {
		_ = t.Close(k)
	}
}

// Live reports the number of live handles, used by tests.
func (t *Table) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.handles)
}
