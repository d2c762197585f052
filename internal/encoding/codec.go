// Package encoding implements the two "assumed available" functions of
// spec.md §6 — iconv_s2u and iconv_u2s — for the X68k's native legacy
// encoding. The lead-byte ranges spec.md's Glossary names (0x81-0x9F,
// 0xE0-0xFC) are exactly Shift-JIS's, so the transform is built on
// golang.org/x/text/encoding/japanese.ShiftJIS, the same kind of
// stdlib-adjacent codepage table rclone's lib/encoder wraps for its own
// per-backend escaping (lib/encoder/filename).
package encoding

import (
	"golang.org/x/text/encoding/japanese"

	"github.com/pkg/errors"
)

// Codec converts between the legacy encoding and Unicode.
type Codec struct{}

// NewCodec returns the driver's legacy-encoding codec.
func NewCodec() *Codec {
	return &Codec{}
}

// ToUnicode implements iconv_s2u: legacy bytes -> UTF-8 string.
func (c *Codec) ToUnicode(legacy []byte) (string, error) {
	out, err := japanese.ShiftJIS.NewDecoder().Bytes(legacy)
	if err != nil {
		return "", errors.Wrap(err, "encoding: iconv_s2u")
	}
	return string(out), nil
}

// ToLegacy implements iconv_u2s: a Unicode string -> legacy bytes. It
// fails (matching iconv_u2s's "< 0 on any un-representable byte"
// contract) when the string contains characters the legacy encoding
// has no codepoint for.
func (c *Codec) ToLegacy(s string) ([]byte, error) {
	out, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, errors.Wrap(err, "encoding: iconv_u2s")
	}
	return out, nil
}

// IsLeadByte reports whether b starts a two-byte legacy-encoding
// sequence, per the Glossary's "Legacy encoding" lead-byte ranges.
func IsLeadByte(b byte) bool {
	return (b >= 0x81 && b <= 0x9F) || (b >= 0xE0 && b <= 0xFC)
}
