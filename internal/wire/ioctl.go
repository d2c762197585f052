package wire

import "encoding/binary"

// MountPayloadSize is the on-wire size of the IOCTL MOUNT sub-command's
// payload: four (addr u32, len u16) pairs naming the caller's url,
// username, password and environment-block buffers (spec.md §4.6 step 4
// names the fields; the exact struct layout is this driver's own, since
// the distilled spec leaves the byte offsets unspecified).
const MountPayloadSize = 4 * 6

// MountPayload is the IOCTL MOUNT sub-command payload.
type MountPayload struct {
	URLAddr  uint32
	URLLen   uint16
	UserAddr uint32
	UserLen  uint16
	PassAddr uint32
	PassLen  uint16
	EnvAddr  uint32
	EnvLen   uint16
}

// DecodeMountPayload parses a MountPayloadSize-byte buffer.
func DecodeMountPayload(buf []byte) (MountPayload, error) {
	var p MountPayload
	if len(buf) < MountPayloadSize {
		return p, ErrShortBuffer
	}
	p.URLAddr = binary.LittleEndian.Uint32(buf[0:4])
	p.URLLen = binary.LittleEndian.Uint16(buf[4:6])
	p.UserAddr = binary.LittleEndian.Uint32(buf[6:10])
	p.UserLen = binary.LittleEndian.Uint16(buf[10:12])
	p.PassAddr = binary.LittleEndian.Uint32(buf[12:16])
	p.PassLen = binary.LittleEndian.Uint16(buf[16:18])
	p.EnvAddr = binary.LittleEndian.Uint32(buf[18:22])
	p.EnvLen = binary.LittleEndian.Uint16(buf[22:24])
	return p, nil
}

// Encode writes p back into a MountPayloadSize-byte buffer. Used after a
// MOUNT call that resolves a username but needs a password: the
// resolved username is written back into the username field (spec.md
// §4.6 step 5) and UserLen updated to the encoded length.
func (p MountPayload) Encode(buf []byte) error {
	if len(buf) < MountPayloadSize {
		return ErrShortBuffer
	}
	binary.LittleEndian.PutUint32(buf[0:4], p.URLAddr)
	binary.LittleEndian.PutUint16(buf[4:6], p.URLLen)
	binary.LittleEndian.PutUint32(buf[6:10], p.UserAddr)
	binary.LittleEndian.PutUint16(buf[10:12], p.UserLen)
	binary.LittleEndian.PutUint32(buf[12:16], p.PassAddr)
	binary.LittleEndian.PutUint16(buf[16:18], p.PassLen)
	binary.LittleEndian.PutUint32(buf[18:22], p.EnvAddr)
	binary.LittleEndian.PutUint16(buf[22:24], p.EnvLen)
	return nil
}

// GetMountPayloadSize is the on-wire size of GET-MOUNT's payload: four
// (addr u32, len u16) pairs for server/share/rootpath/user, each an
// in/out buffer the driver fills and truncates to (spec.md §4.6).
const GetMountPayloadSize = 4 * 6

// GetMountPayload is the IOCTL GET-MOUNT sub-command payload.
type GetMountPayload struct {
	ServerAddr, ShareAddr, RootPathAddr, UserAddr     uint32
	ServerLen, ShareLen, RootPathLen, UserLen         uint16
}

// DecodeGetMountPayload parses a GetMountPayloadSize-byte buffer.
func DecodeGetMountPayload(buf []byte) (GetMountPayload, error) {
	var p GetMountPayload
	if len(buf) < GetMountPayloadSize {
		return p, ErrShortBuffer
	}
	p.ServerAddr = binary.LittleEndian.Uint32(buf[0:4])
	p.ServerLen = binary.LittleEndian.Uint16(buf[4:6])
	p.ShareAddr = binary.LittleEndian.Uint32(buf[6:10])
	p.ShareLen = binary.LittleEndian.Uint16(buf[10:12])
	p.RootPathAddr = binary.LittleEndian.Uint32(buf[12:16])
	p.RootPathLen = binary.LittleEndian.Uint16(buf[16:18])
	p.UserAddr = binary.LittleEndian.Uint32(buf[18:22])
	p.UserLen = binary.LittleEndian.Uint16(buf[22:24])
	return p, nil
}
