package smbclient

import "os"

// DirIterator is the protocol-layer directory iterator a DirCursor (C3)
// owns. go-smb2 only exposes a one-shot ReadDir, so the iterator buffers
// that single call's result and serves it incrementally, the way
// rclone's vfs.DirHandle generalizes a one-shot Fs.List into a resumable
// os.FileInfo cursor (vfs/dir_handle_test.go).
type DirIterator struct {
	entries []os.FileInfo
	pos     int
	closed  bool
}

// Opendir opens path for enumeration.
func (c *Client) Opendir(path string) (*DirIterator, error) {
	entries, err := c.ReadDir(path)
	if err != nil {
		return nil, err
	}
	return &DirIterator{entries: entries}, nil
}

// Next returns the next entry, or (nil, false) once exhausted.
func (d *DirIterator) Next() (os.FileInfo, bool) {
	if d.closed || d.pos >= len(d.entries) {
		return nil, false
	}
	e := d.entries[d.pos]
	d.pos++
	return e, true
}

// Close releases the iterator. go-smb2's ReadDir has no server-side
// cursor to release, so this only marks the iterator unusable; it
// exists so DirCursor.close (reached through Engine.Drop) has something
// symmetrical to call, matching
// invariant 1 of spec.md §8 ("unmounting U closes C's remote iterator
// exactly once").
func (d *DirIterator) Close() error {
	d.closed = true
	d.entries = nil
	return nil
}
