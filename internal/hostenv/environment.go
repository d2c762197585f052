// Package hostenv models the host OS's process-wide low-memory tables
// (drive-exchange table, last-drive byte, current-directory table,
// driver chain, open-file table) that spec.md §6 says live "at
// well-known low-memory addresses" and are "probed on install/remove
// only". Real hardware access to those addresses is out of scope per
// spec.md §1 ("low-level driver trampoline / heap bootstrap"); this
// package is the interface boundary a real bridge would implement, and
// Simulated is the in-process stand-in used by this module and its
// tests.
package hostenv

// CurrentDirEntry is one current-directory-table slot: a mounted
// drive's letter, separator path, and type byte (spec.md §4.8 step 6:
// "type = 0x40 remote").
type CurrentDirEntry struct {
	Drive byte
	Path  string
	Type  byte
}

// RemoteDriveType is the current-directory-table type byte this
// driver's drives use.
const RemoteDriveType = 0x40

// Environment is the host-OS collaborator the Resident Installer /
// Remover (C8) and Mount Manager (C6) depend on.
type Environment interface {
	// NetworkingLoaded reports whether the TCP networking stack is
	// available, probed by opening a probe socket (spec.md §4.8 step 2).
	NetworkingLoaded() bool

	// DriverInstalled reports whether a resident with this 8-byte
	// driver name is already loaded (spec.md §4.8 step 4).
	DriverInstalled(name [8]byte) bool

	// ReserveDriveLetters finds up to n free drive letters at or below
	// the last-drive byte and returns them in increasing order
	// (spec.md §4.8 steps 5-6). It returns fewer than n letters if
	// that many aren't available. It does not mark them used; a letter
	// is taken once SetCurrentDirEntry fills its slot.
	ReserveDriveLetters(n int) []byte

	// SetCurrentDirEntry populates a drive's current-directory-table
	// slot and increments the mounted-drive count.
	SetCurrentDirEntry(entry CurrentDirEntry)

	// ClearCurrentDirEntry clears a drive's slot if it belongs to this
	// driver and decrements the mounted-drive count.
	ClearCurrentDirEntry(drive byte)

	// FindDriverEntry locates this resident via the current-directory
	// table (spec.md §4.8 Remove step 1), returning the drive letters
	// it owns.
	FindDriverEntry(name [8]byte) []byte

	// LinkDriver splices the driver header into the OS's driver chain,
	// immediately after the existing tail (spec.md §4.8 step 8).
	LinkDriver(name [8]byte) error

	// UnlinkDriver removes the driver header from the chain (spec.md
	// §4.8 Remove step 4).
	UnlinkDriver(name [8]byte) error

	// AnyOpenFileUsesUnit reports whether the host's open-file table
	// has any file whose drive-parameter-block pointer names this
	// unit, used by the unmount-busy check (spec.md §4.6).
	AnyOpenFileUsesUnit(unit int) bool
}
