package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yunkya2/smbfs-x68k/internal/direnum"
	"github.com/yunkya2/smbfs-x68k/internal/encoding"
	"github.com/yunkya2/smbfs-x68k/internal/errmap"
	"github.com/yunkya2/smbfs-x68k/internal/filetable"
	"github.com/yunkya2/smbfs-x68k/internal/hostenv"
	"github.com/yunkya2/smbfs-x68k/internal/mount"
	"github.com/yunkya2/smbfs-x68k/internal/pathtrans"
	"github.com/yunkya2/smbfs-x68k/internal/wire"
)

// fakeMemory is a flat byte-addressable buffer standing in for the
// host's address space.
type fakeMemory struct {
	buf []byte
}

func newFakeMemory(size int) *fakeMemory {
	return &fakeMemory{buf: make([]byte, size)}
}

func (m *fakeMemory) ReadBytes(addr uint32, n int) ([]byte, error) {
	out := make([]byte, n)
	copy(out, m.buf[int(addr):int(addr)+n])
	return out, nil
}

func (m *fakeMemory) WriteBytes(addr uint32, data []byte) error {
	copy(m.buf[int(addr):], data)
	return nil
}

func newTestDispatcher() *Dispatcher {
	env := hostenv.NewSimulated('Z')
	mgr := mount.New(env)
	codec := encoding.NewCodec()
	translator := pathtrans.New(mgr, codec)
	dirs := direnum.New(translator, mgr)
	files := filetable.New()
	mgr.Bind(dirs, files)
	return New(translator, codec, dirs, files, mgr, nil)
}

func TestDispatchCmdInitAlwaysFails(t *testing.T) {
	d := newTestDispatcher()
	hdr := &wire.RequestHeader{Command: CmdInit}
	d.Dispatch(newFakeMemory(256), hdr)
	assert.Equal(t, uint32(int32(errmap.HostIllegalFunction)), hdr.Status)
}

func TestDispatchUnknownCommandReturns0x1003(t *testing.T) {
	d := newTestDispatcher()
	hdr := &wire.RequestHeader{Command: 0xff}
	d.Dispatch(newFakeMemory(256), hdr)
	assert.Equal(t, uint32(errmap.HostUnknownCommand), hdr.Status)
}

func TestDispatchNoOpCommandsSucceed(t *testing.T) {
	d := newTestDispatcher()
	for _, cmd := range []uint8{CmdDrvctrl, CmdDiskred, CmdDiskwrt, CmdAbort, CmdMediacheck, CmdLock} {
		hdr := &wire.RequestHeader{Command: cmd}
		d.Dispatch(newFakeMemory(256), hdr)
		assert.Equal(t, uint32(0), hdr.Status, "command 0x%02x", cmd)
	}
}

func TestDispatchGetdpbWritesSectorSizeStub(t *testing.T) {
	d := newTestDispatcher()
	mem := newFakeMemory(256)
	hdr := &wire.RequestHeader{Command: CmdGetdpb, Addr: 0x10}
	d.Dispatch(mem, hdr)
	assert.Equal(t, uint32(0), hdr.Status)

	got, err := mem.ReadBytes(0x10, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 2, 0, 0}, got) // 512 little-endian
}

func TestDispatchUnmountedCommandsReturnNoSuchDirectory(t *testing.T) {
	d := newTestDispatcher()
	mem := newFakeMemory(256)
	hdr := &wire.RequestHeader{Command: CmdChdir, Addr: 0, FCB: 0}
	d.Dispatch(mem, hdr)
	assert.Equal(t, uint32(int32(errmap.HostNoSuchDirectory)), hdr.Status)
}

func TestDispatchCloseUnknownHandleReturnsBadFileNumber(t *testing.T) {
	d := newTestDispatcher()
	mem := newFakeMemory(256)
	hdr := &wire.RequestHeader{Command: CmdClose, FCB: 0x1234}
	d.Dispatch(mem, hdr)
	assert.Equal(t, uint32(int32(errmap.HostBadFileNumber)), hdr.Status)
}

// TestDispatchSeekBoundary exercises the exact scenario: a 100-byte
// file, seek(200, start) fails with cannot-seek and leaves position
// untouched; seek(0, end) succeeds and reports the new position as 100.
func TestDispatchSeekBoundary(t *testing.T) {
	d := newTestDispatcher()
	mem := newFakeMemory(256)

	fcbAddr := uint32(0x40)
	fcbBuf := make([]byte, fcbBufSize)
	require.NoError(t, wire.WritePos(fcbBuf, 10))
	require.NoError(t, wire.WriteSize(fcbBuf, 100))
	require.NoError(t, mem.WriteBytes(fcbAddr, fcbBuf))

	hdr := &wire.RequestHeader{Command: CmdSeek, FCB: fcbAddr, Attr: 0, Status: 200}
	d.Dispatch(mem, hdr)
	assert.Equal(t, uint32(int32(errmap.HostCannotSeek)), hdr.Status)

	view, err := wire.ReadFCB(fcbBuf)
	require.NoError(t, err)
	unchanged, err := mem.ReadBytes(fcbAddr, fcbBufSize)
	require.NoError(t, err)
	gotView, err := wire.ReadFCB(unchanged)
	require.NoError(t, err)
	assert.Equal(t, view.Pos, gotView.Pos, "position must be left untouched on cannot-seek")

	hdr2 := &wire.RequestHeader{Command: CmdSeek, FCB: fcbAddr, Attr: 2, Status: 0}
	d.Dispatch(mem, hdr2)
	assert.Equal(t, uint32(100), hdr2.Status)

	final, err := mem.ReadBytes(fcbAddr, fcbBufSize)
	require.NoError(t, err)
	finalView, err := wire.ReadFCB(final)
	require.NoError(t, err)
	assert.Equal(t, uint32(100), finalView.Pos)
}

func TestDispatchSeekNegativeFails(t *testing.T) {
	d := newTestDispatcher()
	mem := newFakeMemory(256)
	fcbAddr := uint32(0x40)
	fcbBuf := make([]byte, fcbBufSize)
	require.NoError(t, wire.WriteSize(fcbBuf, 50))
	require.NoError(t, mem.WriteBytes(fcbAddr, fcbBuf))

	hdr := &wire.RequestHeader{Command: CmdSeek, FCB: fcbAddr, Attr: 0, Status: uint32(int32(-1))}
	d.Dispatch(mem, hdr)
	assert.Equal(t, uint32(int32(errmap.HostCannotSeek)), hdr.Status)
}

func TestDispatchIoctlGetSignature(t *testing.T) {
	d := newTestDispatcher()
	mem := newFakeMemory(256)
	hdr := &wire.RequestHeader{Command: CmdIoctl, Status: uint32(int32(ioctlGetSignature)) << 16}
	d.Dispatch(mem, hdr)
	assert.Equal(t, uint32(0), hdr.Status)
}

func TestDispatchIoctlNop(t *testing.T) {
	d := newTestDispatcher()
	mem := newFakeMemory(256)
	hdr := &wire.RequestHeader{Command: CmdIoctl, Status: uint32(ioctlNop) << 16}
	d.Dispatch(mem, hdr)
	assert.Equal(t, uint32(0), hdr.Status)
}

func TestDispatchIoctlGetMountUnmountedReturnsNoSuchDirectory(t *testing.T) {
	d := newTestDispatcher()
	mem := newFakeMemory(256)
	hdr := &wire.RequestHeader{Command: CmdIoctl, Addr: 0x20, Status: uint32(ioctlGetMount) << 16}
	d.Dispatch(mem, hdr)
	assert.Equal(t, uint32(int32(errmap.HostNoSuchDirectory)), hdr.Status)
}

func TestMutexIsSharedAndLockable(t *testing.T) {
	d := newTestDispatcher()
	mu := d.Mutex()
	mu.Lock()
	mu.Unlock()
}
