package dispatch

import (
	"context"
	"strings"

	"github.com/yunkya2/smbfs-x68k/internal/errmap"
	"github.com/yunkya2/smbfs-x68k/internal/mount"
	"github.com/yunkya2/smbfs-x68k/internal/wire"
)

// IOCTL sub-commands, selected by the upper 16 bits of hdr.Status
// (spec.md §4.6).
const (
	ioctlGetSignature = -1
	ioctlNop          = 0
	ioctlMount        = 1
	ioctlUnmount      = 2
	ioctlUnmountAll   = 3
	ioctlGetMount     = 4
)

func (d *Dispatcher) handleIOCTL(mem HostMemory, unit int, hdr *wire.RequestHeader) (uint32, error) {
	sub := int16(hdr.Status >> 16)
	switch sub {
	case ioctlGetSignature:
		sig := mount.GetSignature()
		return 0, mem.WriteBytes(hdr.Addr, sig[:])
	case ioctlNop:
		return 0, nil
	case ioctlMount:
		return d.ioctlMount(mem, unit, hdr)
	case ioctlUnmount:
		return 0, d.mgr.Unmount(unit)
	case ioctlUnmountAll:
		return 0, d.mgr.UnmountAll()
	case ioctlGetMount:
		return d.ioctlGetMount(mem, unit, hdr)
	default:
		return 0, errmap.ErrIllegalArgument
	}
}

func (d *Dispatcher) ioctlMount(mem HostMemory, unit int, hdr *wire.RequestHeader) (uint32, error) {
	buf, err := mem.ReadBytes(hdr.Addr, wire.MountPayloadSize)
	if err != nil {
		return 0, err
	}
	p, err := wire.DecodeMountPayload(buf)
	if err != nil {
		return 0, err
	}

	url, err := d.readLegacyString(mem, p.URLAddr, int(p.URLLen))
	if err != nil {
		return 0, err
	}
	username, err := d.readLegacyString(mem, p.UserAddr, int(p.UserLen))
	if err != nil {
		return 0, err
	}
	password, err := d.readLegacyString(mem, p.PassAddr, int(p.PassLen))
	if err != nil {
		return 0, err
	}
	env, err := d.readEnvBlock(mem, p.EnvAddr, int(p.EnvLen))
	if err != nil {
		return 0, err
	}

	result, err := d.mgr.Mount(context.Background(), unit, mount.MountParams{
		URL:      url,
		Username: username,
		Password: password,
		Env:      env,
	})
	if err != nil {
		return 0, err
	}

	if result.NeedPassword {
		legacy, err := d.codec.ToLegacy(result.ResolvedUsername)
		if err != nil {
			return 0, err
		}
		if len(legacy) > int(p.UserLen) {
			legacy = legacy[:p.UserLen]
		}
		if werr := mem.WriteBytes(p.UserAddr, legacy); werr != nil {
			return 0, werr
		}
		p.UserLen = uint16(len(legacy))
		if werr := p.Encode(buf); werr != nil {
			return 0, werr
		}
		if werr := mem.WriteBytes(hdr.Addr, buf); werr != nil {
			return 0, werr
		}
		return 0, errmap.ErrAgain
	}
	return 0, nil
}

func (d *Dispatcher) ioctlGetMount(mem HostMemory, unit int, hdr *wire.RequestHeader) (uint32, error) {
	buf, err := mem.ReadBytes(hdr.Addr, wire.GetMountPayloadSize)
	if err != nil {
		return 0, err
	}
	p, err := wire.DecodeGetMountPayload(buf)
	if err != nil {
		return 0, err
	}
	info, err := d.mgr.GetMount(unit)
	if err != nil {
		return 0, err
	}
	if err := d.writeLegacyField(mem, p.ServerAddr, p.ServerLen, info.Server); err != nil {
		return 0, err
	}
	if err := d.writeLegacyField(mem, p.ShareAddr, p.ShareLen, info.Share); err != nil {
		return 0, err
	}
	if err := d.writeLegacyField(mem, p.RootPathAddr, p.RootPathLen, info.RootPath); err != nil {
		return 0, err
	}
	if err := d.writeLegacyField(mem, p.UserAddr, p.UserLen, info.User); err != nil {
		return 0, err
	}
	return 0, nil
}

func (d *Dispatcher) readLegacyString(mem HostMemory, addr uint32, n int) (string, error) {
	if n == 0 {
		return "", nil
	}
	raw, err := mem.ReadBytes(addr, n)
	if err != nil {
		return "", err
	}
	return d.codec.ToUnicode(raw)
}

// readEnvBlock decodes a NUL-separated KEY=VALUE environment block, the
// wire rendition of the mount IOCTL's environment payload (spec.md
// §4.6 step 3).
func (d *Dispatcher) readEnvBlock(mem HostMemory, addr uint32, n int) (map[string]string, error) {
	if n == 0 {
		return nil, nil
	}
	raw, err := mem.ReadBytes(addr, n)
	if err != nil {
		return nil, err
	}
	text, err := d.codec.ToUnicode(raw)
	if err != nil {
		return nil, err
	}
	env := make(map[string]string)
	for _, kv := range strings.Split(text, "\x00") {
		if kv == "" {
			continue
		}
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		env[parts[0]] = parts[1]
	}
	return env, nil
}

func (d *Dispatcher) writeLegacyField(mem HostMemory, addr uint32, maxLen uint16, value string) error {
	legacy, err := d.codec.ToLegacy(value)
	if err != nil {
		return err
	}
	if len(legacy) > int(maxLen) {
		legacy = legacy[:maxLen]
	}
	return mem.WriteBytes(addr, legacy)
}
