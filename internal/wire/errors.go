package wire

import "errors"

// ErrShortBuffer is returned by the packed-struct codecs when the host
// supplies a buffer shorter than the structure they are decoding.
var ErrShortBuffer = errors.New("wire: buffer too short")
