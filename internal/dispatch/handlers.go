package dispatch

import (
	"github.com/yunkya2/smbfs-x68k/internal/direnum"
	"github.com/yunkya2/smbfs-x68k/internal/errmap"
	"github.com/yunkya2/smbfs-x68k/internal/wire"
)

// packedNameAt reads and decodes a wire.PackedName from hdr.Addr.
func (d *Dispatcher) packedNameAt(mem HostMemory, addr uint32) (wire.PackedName, error) {
	buf, err := mem.ReadBytes(addr, wire.PackedNameSize)
	if err != nil {
		return wire.PackedName{}, err
	}
	return wire.DecodePackedName(buf)
}

// translate resolves a request's packed name buffer into a remote
// path, escalating any translation failure to no-such-directory
// (spec.md §4.1 "Failure mode").
func (d *Dispatcher) translate(unit int, name wire.PackedName, fullName bool) (string, error) {
	path, err := d.translator.ToRemote(unit, name, fullName)
	if err != nil {
		return "", errmap.ErrNoSuchDirectory
	}
	return path, nil
}

func (d *Dispatcher) handleChdir(mem HostMemory, unit int, hdr *wire.RequestHeader) (uint32, error) {
	name, err := d.packedNameAt(mem, hdr.Addr)
	if err != nil {
		return 0, err
	}
	path, err := d.translate(unit, name, false)
	if err != nil {
		return 0, err
	}
	client, ok := d.mgr.Client(unit)
	if !ok {
		return 0, errmap.ErrNoSuchDirectory
	}
	fi, err := client.Stat(path)
	if err != nil {
		return 0, err
	}
	if !fi.IsDir() {
		return 0, errmap.ErrNoSuchDirectory
	}
	return 0, nil
}

func (d *Dispatcher) handleMkdir(mem HostMemory, unit int, hdr *wire.RequestHeader) (uint32, error) {
	name, err := d.packedNameAt(mem, hdr.Addr)
	if err != nil {
		return 0, err
	}
	path, err := d.translate(unit, name, true)
	if err != nil {
		return 0, err
	}
	client, ok := d.mgr.Client(unit)
	if !ok {
		return 0, errmap.ErrNoSuchDirectory
	}
	return 0, client.Mkdir(path)
}

func (d *Dispatcher) handleRmdir(mem HostMemory, unit int, hdr *wire.RequestHeader) (uint32, error) {
	name, err := d.packedNameAt(mem, hdr.Addr)
	if err != nil {
		return 0, err
	}
	path, err := d.translate(unit, name, false)
	if err != nil {
		return 0, err
	}
	client, ok := d.mgr.Client(unit)
	if !ok {
		return 0, errmap.ErrNoSuchDirectory
	}
	return 0, client.Rmdir(path)
}

// handleRename reads two consecutive packed name buffers at hdr.Addr:
// the source, then the destination, mirroring the FILES-family rename
// request's "old name, new name" pairing (spec.md §4 doesn't spell out
// the two-buffer layout explicitly; this is the natural extension of
// the single-packed-name convention every other name-bearing command
// uses).
func (d *Dispatcher) handleRename(mem HostMemory, unit int, hdr *wire.RequestHeader) (uint32, error) {
	buf, err := mem.ReadBytes(hdr.Addr, 2*wire.PackedNameSize)
	if err != nil {
		return 0, err
	}
	oldName, err := wire.DecodePackedName(buf[:wire.PackedNameSize])
	if err != nil {
		return 0, err
	}
	newName, err := wire.DecodePackedName(buf[wire.PackedNameSize:])
	if err != nil {
		return 0, err
	}
	oldPath, err := d.translate(unit, oldName, true)
	if err != nil {
		return 0, err
	}
	newPath, err := d.translate(unit, newName, true)
	if err != nil {
		return 0, err
	}
	client, ok := d.mgr.Client(unit)
	if !ok {
		return 0, errmap.ErrNoSuchDirectory
	}
	return 0, client.Rename(oldPath, newPath)
}

func (d *Dispatcher) handleDelete(mem HostMemory, unit int, hdr *wire.RequestHeader) (uint32, error) {
	name, err := d.packedNameAt(mem, hdr.Addr)
	if err != nil {
		return 0, err
	}
	path, err := d.translate(unit, name, true)
	if err != nil {
		return 0, err
	}
	client, ok := d.mgr.Client(unit)
	if !ok {
		return 0, errmap.ErrNoSuchDirectory
	}
	return 0, client.Remove(path)
}

// handleChmod reports a file's DOS-style attribute byte. Setting a new
// attribute is accepted (hdr.Attr carries the requested value) but not
// forwarded to the remote share: the protocol client has no attribute
// call, so chmod here stats the path and reports directory or archive,
// whatever attribute was requested.
func (d *Dispatcher) handleChmod(mem HostMemory, unit int, hdr *wire.RequestHeader) (uint32, error) {
	name, err := d.packedNameAt(mem, hdr.Addr)
	if err != nil {
		return 0, err
	}
	path, err := d.translate(unit, name, true)
	if err != nil {
		return 0, err
	}
	client, ok := d.mgr.Client(unit)
	if !ok {
		return 0, errmap.ErrNoSuchDirectory
	}
	fi, err := client.Stat(path)
	if err != nil {
		return 0, err
	}
	attr := uint32(direnum.AttrArchive)
	if fi.IsDir() {
		attr = direnum.AttrDirectory
	}
	return attr, nil
}

func (d *Dispatcher) handleFindFirst(mem HostMemory, unit int, hdr *wire.RequestHeader) (uint32, error) {
	name, err := d.packedNameAt(mem, hdr.Addr)
	if err != nil {
		return 0, err
	}
	entry, err := d.dirs.FindFirst(direnum.FindFirstRequest{
		Unit:     unit,
		Key:      hdr.FCB,
		Name:     name,
		AttrMask: hdr.Attr,
		Name1:    name.Name1,
		Name2:    name.Name2,
		Ext:      name.Ext,
	})
	if err != nil {
		return 0, err
	}
	return 0, d.writeFilesInfo(mem, hdr.FCB, entry)
}

func (d *Dispatcher) handleFindNext(mem HostMemory, hdr *wire.RequestHeader) (uint32, error) {
	entry, err := d.dirs.FindNext(hdr.FCB)
	if err != nil {
		return 0, err
	}
	return 0, d.writeFilesInfo(mem, hdr.FCB, entry)
}

func (d *Dispatcher) writeFilesInfo(mem HostMemory, addr uint32, entry wire.FilesInfo) error {
	buf := make([]byte, wire.FilesInfoSize)
	if err := entry.Encode(buf); err != nil {
		return err
	}
	return mem.WriteBytes(addr, buf)
}

func (d *Dispatcher) handleCreate(mem HostMemory, unit int, hdr *wire.RequestHeader) (uint32, error) {
	name, err := d.packedNameAt(mem, hdr.Addr)
	if err != nil {
		return 0, err
	}
	path, err := d.translate(unit, name, true)
	if err != nil {
		return 0, err
	}
	client, ok := d.mgr.Client(unit)
	if !ok {
		return 0, errmap.ErrNoSuchDirectory
	}
	excl := hdr.Attr&0x01 != 0
	size, err := d.files.Create(unit, client, path, excl, hdr.FCB)
	if err != nil {
		return 0, err
	}
	return 0, d.writeFCBSizeAndPos(mem, hdr.FCB, 0, size)
}

func (d *Dispatcher) handleOpen(mem HostMemory, unit int, hdr *wire.RequestHeader) (uint32, error) {
	name, err := d.packedNameAt(mem, hdr.Addr)
	if err != nil {
		return 0, err
	}
	path, err := d.translate(unit, name, true)
	if err != nil {
		return 0, err
	}
	client, ok := d.mgr.Client(unit)
	if !ok {
		return 0, errmap.ErrNoSuchDirectory
	}
	size, err := d.files.Open(unit, client, path, int(hdr.Attr), hdr.FCB)
	if err != nil {
		return 0, err
	}
	return 0, d.writeFCBSizeAndPos(mem, hdr.FCB, 0, size)
}

func (d *Dispatcher) writeFCBSizeAndPos(mem HostMemory, fcbAddr uint32, pos, size uint32) error {
	buf, err := mem.ReadBytes(fcbAddr, fcbBufSize)
	if err != nil {
		return err
	}
	if err := wire.WritePos(buf, pos); err != nil {
		return err
	}
	if err := wire.WriteSize(buf, size); err != nil {
		return err
	}
	return mem.WriteBytes(fcbAddr, buf)
}

func (d *Dispatcher) handleClose(hdr *wire.RequestHeader) (uint32, error) {
	return 0, d.files.Close(hdr.FCB)
}

func (d *Dispatcher) handleRead(mem HostMemory, hdr *wire.RequestHeader) (uint32, error) {
	fcbBuf, err := mem.ReadBytes(hdr.FCB, fcbBufSize)
	if err != nil {
		return 0, err
	}
	view, err := wire.ReadFCB(fcbBuf)
	if err != nil {
		return 0, err
	}
	length := hdr.Status
	payload := make([]byte, length)
	n, newPos, err := d.files.Read(hdr.FCB, view.Pos, payload)
	if err != nil && n == 0 {
		return 0, err
	}
	if werr := mem.WriteBytes(hdr.Addr, payload[:n]); werr != nil {
		return 0, werr
	}
	if werr := wire.WritePos(fcbBuf, newPos); werr != nil {
		return 0, werr
	}
	if werr := mem.WriteBytes(hdr.FCB, fcbBuf); werr != nil {
		return 0, werr
	}
	return uint32(n), nil
}

func (d *Dispatcher) handleWrite(mem HostMemory, hdr *wire.RequestHeader) (uint32, error) {
	fcbBuf, err := mem.ReadBytes(hdr.FCB, fcbBufSize)
	if err != nil {
		return 0, err
	}
	view, err := wire.ReadFCB(fcbBuf)
	if err != nil {
		return 0, err
	}
	length := hdr.Status
	var payload []byte
	if length > 0 {
		payload, err = mem.ReadBytes(hdr.Addr, int(length))
		if err != nil {
			return 0, err
		}
	}
	n, newPos, newSize, err := d.files.Write(hdr.FCB, view.Pos, view.Size, payload)
	if err != nil {
		return 0, err
	}
	if werr := wire.WritePos(fcbBuf, newPos); werr != nil {
		return 0, werr
	}
	if werr := wire.WriteSize(fcbBuf, newSize); werr != nil {
		return 0, werr
	}
	if werr := mem.WriteBytes(hdr.FCB, fcbBuf); werr != nil {
		return 0, werr
	}
	return uint32(n), nil
}

// handleSeek is purely in-driver (spec.md §4.4): it only consults and
// updates the host's own FCB position/size fields. whence is carried in
// hdr.Attr (0=start, 1=current, 2=end); the signed offset is carried in
// hdr.Status. Per spec.md §9's Open Question resolution, an
// out-of-range result leaves the FCB position field untouched and
// reports cannot-seek; an in-range result (including landing exactly on
// size, i.e. seek-to-end) writes the new position back and returns it.
func (d *Dispatcher) handleSeek(mem HostMemory, hdr *wire.RequestHeader) (uint32, error) {
	fcbBuf, err := mem.ReadBytes(hdr.FCB, fcbBufSize)
	if err != nil {
		return 0, err
	}
	view, err := wire.ReadFCB(fcbBuf)
	if err != nil {
		return 0, err
	}
	offset := int64(int32(hdr.Status))
	var base int64
	switch hdr.Attr {
	case 1:
		base = int64(view.Pos)
	case 2:
		base = int64(view.Size)
	default:
		base = 0
	}
	newPos := base + offset
	if newPos < 0 || newPos > int64(view.Size) {
		return 0, errmap.ErrCannotSeek
	}
	if werr := wire.WritePos(fcbBuf, uint32(newPos)); werr != nil {
		return 0, werr
	}
	if werr := mem.WriteBytes(hdr.FCB, fcbBuf); werr != nil {
		return 0, werr
	}
	return uint32(newPos), nil
}

func (d *Dispatcher) handleFiledate(hdr *wire.RequestHeader) (uint32, error) {
	return d.files.Filedate(hdr.FCB, hdr.Status)
}

// handleDskfre reports a stub disk-free block: free/total cluster
// counts plus the share's sector size, via the protocol library's
// statvfs-equivalent collaborator (spec.md §6 collaborator list).
func (d *Dispatcher) handleDskfre(mem HostMemory, unit int, hdr *wire.RequestHeader) (uint32, error) {
	client, ok := d.mgr.Client(unit)
	if !ok {
		return 0, errmap.ErrNoSuchDirectory
	}
	root, _ := d.mgr.RootPath(unit)
	st, err := client.Statfs(root)
	if err != nil {
		return 0, err
	}
	buf := make([]byte, 16)
	putU32(buf[0:4], uint32(st.AvailableBlocks))
	putU32(buf[4:8], uint32(st.TotalBlocks))
	putU32(buf[8:12], uint32(st.BlockSize))
	putU32(buf[12:16], 1)
	return 0, mem.WriteBytes(hdr.Addr, buf)
}

// handleGetdpb writes a stub 16-byte drive-parameter-block whose first
// field is the sector size, 512 (spec.md §4.5).
func (d *Dispatcher) handleGetdpb(mem HostMemory, hdr *wire.RequestHeader) (uint32, error) {
	buf := make([]byte, 16)
	putU32(buf[0:4], 512)
	return 0, mem.WriteBytes(hdr.Addr, buf)
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
