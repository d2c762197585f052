// Package direnum is the Directory-Enumeration Engine (C3): a
// per-enumeration-handle state machine producing one filtered
// host-format entry per find-first/find-next call (spec.md §4.3).
package direnum

import (
	"os"

	"github.com/yunkya2/smbfs-x68k/internal/pathtrans"
	"github.com/yunkya2/smbfs-x68k/internal/smbclient"
)

// Attribute bits used by the host's filesystem-info attribute byte and
// by find-first's attribute mask (spec.md §6).
const (
	AttrReadOnly    = 0x01
	AttrHidden      = 0x02
	AttrSystem      = 0x04
	AttrVolumeLabel = 0x08
	AttrDirectory   = 0x10
	AttrArchive     = 0x20

	// specialBits are the attribute bits a find-first mask must
	// explicitly request before an entry carrying them is returned;
	// read-only and archive never gate filtering.
	specialBits = AttrHidden | AttrSystem | AttrVolumeLabel | AttrDirectory
)

// DirCursor is one live enumeration handle, keyed by the host-supplied
// cursor address (spec.md §3).
type DirCursor struct {
	key       uint32
	unit      int
	isRoot    bool
	firstCall bool
	attrMask  uint8
	pattern   pathtrans.Pattern
	dir       *smbclient.DirIterator
	hostPath  string // translated remote path; diagnostic + volume label source
}

// Key returns the cursor's host-supplied identifier.
func (c *DirCursor) Key() uint32 { return c.key }

// Unit returns the cursor's owning unit.
func (c *DirCursor) Unit() int { return c.unit }

// close drops the underlying remote iterator. Invariant (spec.md §8.1):
// every live cursor's iterator is open; drop closes it exactly once.
func (c *DirCursor) close() error {
	if c.dir == nil {
		return nil
	}
	err := c.dir.Close()
	c.dir = nil
	return err
}

// volumeLabelEligible reports whether this call may emit the synthetic
// volume-label entry: first call, at the virtual root, mask requests
// the volume-label bit, and the pattern is all-wildcards (spec.md §4.3,
// invariant 4 of spec.md §8).
func (c *DirCursor) volumeLabelEligible() bool {
	return c.firstCall && c.isRoot &&
		c.attrMask&AttrVolumeLabel != 0 &&
		pathtrans.AllWildcards(c.pattern)
}

// attrMatches applies the DOS-style attribute filter: an entry's
// "special" bits (hidden/system/volume-label/directory) must all be
// requested by mask; read-only and archive never gate filtering
// (spec.md §4.3 "Filter by attribute mask; on mismatch, continue").
func attrMatches(entryAttr, mask uint8) bool {
	return entryAttr&specialBits & ^mask == 0
}

func attributeOf(fi os.FileInfo) uint8 {
	if fi.IsDir() {
		return AttrDirectory
	}
	return AttrArchive
}
