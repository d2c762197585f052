//go:build !windows && !plan9

package hostenv

import "golang.org/x/sys/unix"

// ProbeTCPStack opens and immediately closes a TCP/IP socket, the Go
// rendition of spec.md §4.8 step 2's "verify the TCP networking stack
// is loaded by opening a probe socket" -- grounded on
// backend/local's unix-syscall build-tag split (lchtimes_unix.go).
// cmd/smbfsd calls this before internal/resident.Install on a real
// host; hostenv.Simulated's NetworkingLoaded is used for everything
// test-driven, so this never runs inside this module's own tests.
func ProbeTCPStack() bool {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	if err != nil {
		return false
	}
	_ = unix.Close(fd)
	return true
}
