package wire

// PackedNameSize is the on-wire size of the host's path structure:
// flag(1) + drive(1) + path[65] + name1[8] + ext[3] + name2[10], per
// include/humandefs.h's commented-out dos_namestbuf layout.
const PackedNameSize = 1 + 1 + 65 + 8 + 3 + 10

// DirSeparator is the byte the host uses to separate directory
// segments inside the 65-byte path field (spec.md §3/§4.1).
const DirSeparator = 0x09

// PackedName is the host's packed name buffer (spec.md §3 Glossary).
type PackedName struct {
	Flag  uint8
	Drive uint8
	Path  [65]byte
	Name1 [8]byte
	Ext   [3]byte
	Name2 [10]byte
}

// DecodePackedName parses a PackedNameSize-byte buffer.
func DecodePackedName(buf []byte) (PackedName, error) {
	var n PackedName
	if len(buf) < PackedNameSize {
		return n, ErrShortBuffer
	}
	off := 0
	n.Flag = buf[off]
	off++
	n.Drive = buf[off]
	off++
	copy(n.Path[:], buf[off:off+65])
	off += 65
	copy(n.Name1[:], buf[off:off+8])
	off += 8
	copy(n.Ext[:], buf[off:off+3])
	off += 3
	copy(n.Name2[:], buf[off:off+10])
	return n, nil
}

// IsVirtualRoot reports whether the path field names the drive's
// virtual root: a single separator byte (spec.md §4.3).
func (n PackedName) IsVirtualRoot() bool {
	return n.Path[0] == DirSeparator && n.Path[1] == 0
}
