// Package wire defines the byte-exact, partially big-endian packed
// structures the host OS and this driver exchange (spec.md §6), with
// explicit layout guarantees and explicit byte-order conversions on the
// enumeration fields only, per spec.md §9's "Packed structures" note.
package wire

import "encoding/binary"

// RequestMagic is the constant the host writes into every request
// header's first byte.
const RequestMagic = 26

// RequestHeaderSize is the on-wire size of a RequestHeader: fields run
// through offset 0x16 + 4 bytes of FCB pointer.
const RequestHeaderSize = 0x1a

// RequestHeader is the host's packed 2-byte-aligned request block
// (spec.md §6). Only the fields the core consumes are modeled; the
// reserved region is preserved verbatim on round-trip.
type RequestHeader struct {
	Magic    uint8
	Unit     uint8
	Command  uint8
	Error    uint16 // output
	reserved [8]byte
	Attr     uint8 // attribute byte, or seek whence for seek requests
	Addr     uint32
	Status   uint32 // input parameter, output return value
	FCB      uint32
}

// DecodeRequestHeader parses a RequestHeaderSize-byte little-endian
// buffer as the host supplies it.
func DecodeRequestHeader(buf []byte) (RequestHeader, error) {
	var h RequestHeader
	if len(buf) < RequestHeaderSize {
		return h, ErrShortBuffer
	}
	h.Magic = buf[0x00]
	h.Unit = buf[0x01]
	h.Command = buf[0x02]
	h.Error = binary.LittleEndian.Uint16(buf[0x03:0x05])
	copy(h.reserved[:], buf[0x05:0x0d])
	h.Attr = buf[0x0d]
	h.Addr = binary.LittleEndian.Uint32(buf[0x0e:0x12])
	h.Status = binary.LittleEndian.Uint32(buf[0x12:0x16])
	h.FCB = binary.LittleEndian.Uint32(buf[0x16:0x1a])
	return h, nil
}

// Encode writes h back into a RequestHeaderSize-byte buffer, preserving
// the reserved region it was decoded from.
func (h RequestHeader) Encode(buf []byte) error {
	if len(buf) < RequestHeaderSize {
		return ErrShortBuffer
	}
	buf[0x00] = h.Magic
	buf[0x01] = h.Unit
	buf[0x02] = h.Command
	binary.LittleEndian.PutUint16(buf[0x03:0x05], h.Error)
	copy(buf[0x05:0x0d], h.reserved[:])
	buf[0x0d] = h.Attr
	binary.LittleEndian.PutUint32(buf[0x0e:0x12], h.Addr)
	binary.LittleEndian.PutUint32(buf[0x12:0x16], h.Status)
	binary.LittleEndian.PutUint32(buf[0x16:0x1a], h.FCB)
	return nil
}

// FCB field offsets within the host's file-control-block, per spec.md §6.
const (
	FCBModeOffset = 14
	FCBPosOffset  = 6
	FCBSizeOffset = 64
)

// FCBView holds the position/size/mode fields this driver is allowed
// to touch in a raw host file-control-block buffer.
type FCBView struct {
	Mode uint8
	Pos  uint32
	Size uint32
}

// ReadFCB reads the fields the File-Handle Table (C4) reconciles
// against, from a buffer at least FCBSizeOffset+4 bytes long.
func ReadFCB(buf []byte) (FCBView, error) {
	var v FCBView
	if len(buf) < FCBSizeOffset+4 {
		return v, ErrShortBuffer
	}
	v.Mode = buf[FCBModeOffset]
	v.Pos = binary.LittleEndian.Uint32(buf[FCBPosOffset : FCBPosOffset+4])
	v.Size = binary.LittleEndian.Uint32(buf[FCBSizeOffset : FCBSizeOffset+4])
	return v, nil
}

// WritePos writes back the position field only, used after every
// successful read/write/seek.
func WritePos(buf []byte, pos uint32) error {
	if len(buf) < FCBPosOffset+4 {
		return ErrShortBuffer
	}
	binary.LittleEndian.PutUint32(buf[FCBPosOffset:FCBPosOffset+4], pos)
	return nil
}

// WriteSize writes back the size field only, used by create/open/write.
func WriteSize(buf []byte, size uint32) error {
	if len(buf) < FCBSizeOffset+4 {
		return ErrShortBuffer
	}
	binary.LittleEndian.PutUint32(buf[FCBSizeOffset:FCBSizeOffset+4], size)
	return nil
}
