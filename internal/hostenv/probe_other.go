//go:build windows || plan9

package hostenv

import "net"

// ProbeTCPStack is the non-unix fallback: dial a closed local port and
// treat success or any *net.OpError as "stack loaded"; an error of any
// other type counts as not loaded. Mirrors backend/local's preallocate_windows.go platform split.
func ProbeTCPStack() bool {
	conn, err := net.Dial("tcp", "127.0.0.1:0")
	if conn != nil {
		_ = conn.Close()
	}
	return err == nil || !isNetworkDown(err)
}

func isNetworkDown(err error) bool {
	_, ok := err.(*net.OpError)
	return !ok
}
