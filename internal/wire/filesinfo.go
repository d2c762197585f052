package wire

import "encoding/binary"

// FilesInfoSize is the on-wire size of one enumeration result entry:
// u8 reserved, u8 attribute, u16 time, u16 date, u32 length, 23-byte name.
const FilesInfoSize = 1 + 1 + 2 + 2 + 4 + 23

// NameFieldSize is the name field's fixed width, null-padded.
const NameFieldSize = 23

// FilesInfo is the host's filesystem-info entry emitted by find-first
// and find-next (spec.md §6). Time/date/length are transmitted
// big-endian; everything else in the request protocol is little-endian,
// which is why byte order conversions are made explicit here rather
// than folded into a generic struct codec (spec.md §9).
type FilesInfo struct {
	Attribute uint8
	Time      uint16 // packed time, big-endian on the wire
	Date      uint16 // packed date, big-endian on the wire
	Length    uint32 // big-endian on the wire
	Name      [NameFieldSize]byte
}

// Encode writes the entry into a FilesInfoSize-byte buffer.
func (fi FilesInfo) Encode(buf []byte) error {
	if len(buf) < FilesInfoSize {
		return ErrShortBuffer
	}
	buf[0] = 0 // dummy/reserved
	buf[1] = fi.Attribute
	binary.BigEndian.PutUint16(buf[2:4], fi.Time)
	binary.BigEndian.PutUint16(buf[4:6], fi.Date)
	binary.BigEndian.PutUint32(buf[6:10], fi.Length)
	copy(buf[10:10+NameFieldSize], fi.Name[:])
	return nil
}

// SetName copies a legacy-encoded name into the fixed-width Name field,
// null-padding (and truncating, though callers should have already
// rejected overlong names) as needed.
func (fi *FilesInfo) SetName(name []byte) {
	var buf [NameFieldSize]byte
	n := copy(buf[:], name)
	for i := n; i < NameFieldSize; i++ {
		buf[i] = 0
	}
	fi.Name = buf
}
