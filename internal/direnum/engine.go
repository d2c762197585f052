package direnum

import (
	"bytes"
	"sync"

	"github.com/yunkya2/smbfs-x68k/internal/encoding"
	"github.com/yunkya2/smbfs-x68k/internal/errmap"
	"github.com/yunkya2/smbfs-x68k/internal/pathtrans"
	"github.com/yunkya2/smbfs-x68k/internal/smbclient"
	"github.com/yunkya2/smbfs-x68k/internal/wire"
)

// ClientLookup resolves a mounted unit to its protocol client, the
// slice of Mount Manager (C6) state the engine needs.
type ClientLookup interface {
	Client(unit int) (*smbclient.Client, bool)
}

// Engine owns the live DirCursors, held in a map keyed by the host's
// cursor key.
type Engine struct {
	mu         sync.Mutex
	cursors    map[uint32]*DirCursor
	translator *pathtrans.Translator
	clients    ClientLookup
}

// New builds a Directory-Enumeration Engine.
func New(translator *pathtrans.Translator, clients ClientLookup) *Engine {
	return &Engine{
		cursors:    make(map[uint32]*DirCursor),
		translator: translator,
		clients:    clients,
	}
}

// FindFirstRequest bundles a find-first call's inputs, mirroring the
// host fields spec.md §4.3 names.
type FindFirstRequest struct {
	Unit     int
	Key      uint32
	Name     wire.PackedName
	AttrMask uint8
	Name1    [8]byte
	Name2    [10]byte
	Ext      [3]byte
}

// FindFirst allocates (or reuses) a DirCursor under req.Key, translates
// the path, opens a remote iterator, composes the search pattern, and
// emits the first result (spec.md §4.3).
func (e *Engine) FindFirst(req FindFirstRequest) (wire.FilesInfo, error) {
	e.mu.Lock()
	if old, ok := e.cursors[req.Key]; ok {
		_ = old.close()
		delete(e.cursors, req.Key)
	}
	e.mu.Unlock()

	remotePath, err := e.translator.ToRemote(req.Unit, req.Name, false)
	if err != nil {
		return wire.FilesInfo{}, errmap.ErrNoSuchDirectory
	}

	client, ok := e.clients.Client(req.Unit)
	if !ok {
		return wire.FilesInfo{}, errmap.ErrNoSuchDirectory
	}

	it, err := client.Opendir(remotePath)
	if err != nil {
		return wire.FilesInfo{}, errmap.ErrNoSuchDirectory
	}

	c := &DirCursor{
		key:       req.Key,
		unit:      req.Unit,
		isRoot:    req.Name.IsVirtualRoot(),
		firstCall: true,
		attrMask:  req.AttrMask,
		pattern:   pathtrans.ComposePattern(req.Name1, req.Name2, req.Ext),
		dir:       it,
		hostPath:  remotePath,
	}

	e.mu.Lock()
	e.cursors[req.Key] = c
	e.mu.Unlock()

	return e.emit(c)
}

// FindNext locates the cursor by key and emits the next result. A
// missing key is illegal-argument (spec.md §4.3).
func (e *Engine) FindNext(key uint32) (wire.FilesInfo, error) {
	e.mu.Lock()
	c, ok := e.cursors[key]
	e.mu.Unlock()
	if !ok {
		return wire.FilesInfo{}, errmap.ErrIllegalArgument
	}
	return e.emit(c)
}

// emit runs the result-emission loop shared by find-first and
// find-next (spec.md §4.3).
func (e *Engine) emit(c *DirCursor) (wire.FilesInfo, error) {
	if c.volumeLabelEligible() {
		c.firstCall = false
		legacy, err := encoding.NewCodec().ToLegacy(c.hostPath)
		var fi wire.FilesInfo
		fi.Attribute = AttrVolumeLabel
		if err == nil {
			fi.SetName(legacy)
		}
		return fi, nil
	}
	c.firstCall = false

	for {
		osInfo, more := c.dir.Next()
		if !more {
			e.drop(c.key)
			return wire.FilesInfo{}, errmap.ErrNoMoreEntries
		}
		name := osInfo.Name()
		if c.isRoot && (name == "." || name == "..") {
			continue
		}

		legacy, err := e.translator.FromRemote(name)
		if err != nil {
			continue
		}

		stem, ext, ok := splitStemExt(legacy)
		if !ok {
			continue
		}
		candidate, ok := pathtrans.SplitCandidate(stem, ext)
		if !ok {
			continue
		}
		candidate = pathtrans.Lowercase(candidate)

		if !pathtrans.Match(c.pattern, candidate) {
			continue
		}

		if osInfo.Size() > 0xffffffff {
			continue
		}

		attr := attributeOf(osInfo)
		if !attrMatches(attr, c.attrMask) {
			continue
		}

		var out wire.FilesInfo
		out.Attribute = attr
		out.Date = wire.PackDate(osInfo.ModTime())
		out.Time = wire.PackTime(osInfo.ModTime())
		out.Length = uint32(osInfo.Size())
		out.SetName(append(append([]byte{}, stem...), append([]byte{'.'}, ext...)...))
		return out, nil
	}
}

// splitStemExt splits a legacy-encoded name into a stem (<=18 bytes)
// and an extension (<=3 bytes) on the last '.', rejecting names whose
// stem exceeds 18 bytes (spec.md §4.3).
func splitStemExt(legacy []byte) (stem, ext []byte, ok bool) {
	i := bytes.LastIndexByte(legacy, '.')
	if i < 0 {
		stem = legacy
	} else {
		stem = legacy[:i]
		ext = legacy[i+1:]
	}
	if len(stem) > StemSize18 || len(ext) > 3 {
		return nil, nil, false
	}
	return stem, ext, true
}

// StemSize18 has the same value as pathtrans.StemSize; both values are
// part of the same 21-byte layout defined by spec.md §3.
const StemSize18 = 18

// Drop removes a cursor, closing its iterator (invariant spec.md §8.1).
// Exported for the Mount Manager to call on unmount.
func (e *Engine) Drop(key uint32) error {
	return e.drop(key)
}

func (e *Engine) drop(key uint32) error {
	e.mu.Lock()
	c, ok := e.cursors[key]
	delete(e.cursors, key)
	e.mu.Unlock()
	if !ok {
		return nil
	}
	return c.close()
}

// DropAllForUnit closes every live cursor owned by unit, used when the
// unit unmounts (spec.md §3 lifecycle, invariant spec.md §8.1).
func (e *Engine) DropAllForUnit(unit int) {
	e.mu.Lock()
	var keys []uint32
	for k, c := range e.cursors {
		if c.unit == unit {
			keys = append(keys, k)
		}
	}
	e.mu.Unlock()
	for _, k := range keys {
		_ = e.drop(k)
	}
}

// Live reports the number of live cursors, used by tests.
func (e *Engine) Live() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.cursors)
}
