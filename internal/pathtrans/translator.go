// Package pathtrans is the Path & Name Translator (C1): bidirectional
// translation between the host's packed name buffer / legacy encoding
// and a flat forward-slash Unicode remote path (spec.md §4.1).
package pathtrans

import (
	"bytes"
	"strings"

	"github.com/yunkya2/smbfs-x68k/internal/encoding"
	"github.com/yunkya2/smbfs-x68k/internal/wire"
)

// ErrTranslationFailed is the single error kind C1 emits; callers
// escalate it to no-such-directory (spec.md §4.1/§7).
var ErrTranslationFailed = &translationError{}

type translationError struct{ reason string }

func (e *translationError) Error() string {
	if e.reason == "" {
		return "pathtrans: translation failed"
	}
	return "pathtrans: translation failed: " + e.reason
}

func (e *translationError) Is(target error) bool {
	_, ok := target.(*translationError)
	return ok
}

func fail(reason string) error { return &translationError{reason: reason} }

// RootResolver reports the mounted root path for a unit, the only
// piece of Mount Manager (C6) state the translator needs.
type RootResolver interface {
	RootPath(unit int) (root string, mounted bool)
}

// Translator implements the host<->remote path conversions of C1.
type Translator struct {
	roots RootResolver
	codec *encoding.Codec
}

// New builds a Translator over the given root-path resolver.
func New(roots RootResolver, codec *encoding.Codec) *Translator {
	return &Translator{roots: roots, codec: codec}
}

// ToRemote converts a host packed name buffer into a forward-slash
// Unicode path, prefixed by the unit's mounted root, per the five-step
// algorithm of spec.md §4.1.
func (t *Translator) ToRemote(unit int, name wire.PackedName, fullName bool) (string, error) {
	root, mounted := t.roots.RootPath(unit)
	if !mounted {
		return "", fail("unit not mounted")
	}

	var b strings.Builder

	// Step 2: walk the 65-byte directory section, compressing runs of
	// the separator byte and emitting '/' before each segment.
	inSep := true // leading separator run is consumed without emitting
	for _, c := range name.Path {
		if c == 0 {
			break
		}
		if c == wire.DirSeparator {
			inSep = true
			continue
		}
		if inSep {
			b.WriteByte('/')
			inSep = false
		}
		b.WriteByte(c)
	}

	// Step 3: full-name mode appends the 8.3 split name.
	if fullName {
		b.WriteByte('/')
		b.Write(trimTrailingNulSpace(name.Name1[:]))
		b.Write(trimTrailingNulSpace(name.Name2[:]))
		b.WriteByte('.')
		b.Write(trimTrailingSpace(name.Ext[:]))
	}

	assembled := trimTrailingDots(b.String())

	// Step 4: prepend root_path[unit], which is stored without its
	// leading separator (spec.md §8 invariant 5); re-add it here at
	// join time, the way conv_namebuf re-adds it before calling smb_*.
	full := assembled
	if root != "" {
		full = "/" + root + assembled
	}
	full = strings.Replace(full, "//", "/", 1)
	if full == "" {
		full = "/"
	}

	// Step 5: legacy-encoding -> Unicode.
	unicodePath, err := t.codec.ToUnicode([]byte(full))
	if err != nil {
		return "", fail("iconv_s2u: " + err.Error())
	}
	return unicodePath, nil
}

func trimTrailingNulSpace(b []byte) []byte {
	end := len(b)
	for end > 0 && (b[end-1] == 0 || b[end-1] == ' ') {
		end--
	}
	return b[:end]
}

func trimTrailingSpace(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == ' ' {
		end--
	}
	return b[:end]
}

func trimTrailingDots(s string) string {
	return strings.TrimRight(s, ".")
}

// forbiddenRemoteBytes are bytes FromRemote rejects outright (in
// addition to any byte <= 0x1F and '-' as the first byte), per
// spec.md §4.1.
var forbiddenRemoteBytes = []byte("/\\,;<=>[]|")

// FromRemote converts a Unicode name (as returned by a remote
// directory listing) to the legacy encoding, rejecting names that
// can't round-trip through the host's filename grammar: any byte
// <= 0x1F, '-' as the first byte, any of /\,;<=>[]| (skipping trail
// bytes of legacy multi-byte sequences when scanning for those)
// (spec.md §4.1). It does not check the name's length; the 18-byte
// stem limit is applied by the Directory-Enumeration Engine when it
// splits a name into a candidate.
func (t *Translator) FromRemote(name string) ([]byte, error) {
	legacy, err := t.codec.ToLegacy(name)
	if err != nil {
		return nil, fail("iconv_u2s: " + err.Error())
	}
	if len(legacy) > 0 && legacy[0] == '-' {
		return nil, fail("leading '-'")
	}
	inTrail := false
	for _, c := range legacy {
		if inTrail {
			inTrail = false
			continue
		}
		if encoding.IsLeadByte(c) {
			inTrail = true
			continue
		}
		if c <= 0x1f {
			return nil, fail("control byte")
		}
		if bytes.IndexByte(forbiddenRemoteBytes, c) >= 0 {
			return nil, fail("forbidden byte")
		}
	}
	return legacy, nil
}
