package pathtrans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkName1(s string) [8]byte {
	var b [8]byte
	copy(b[:], s)
	return b
}

func mkName2(s string) [10]byte {
	var b [10]byte
	copy(b[:], s)
	return b
}

func mkExt(s string) [3]byte {
	var b [3]byte
	copy(b[:], s)
	return b
}

func TestComposePatternPlainName(t *testing.T) {
	p := ComposePattern(mkName1("FOO     "), mkName2("          "), mkExt("TXT"))
	assert.Equal(t, "foo               txt", string(p[:]))
}

func TestComposePatternTrailingWildcardExpansion(t *testing.T) {
	p := ComposePattern(mkName1("????????"), mkName2(""), mkExt("???"))
	assert.True(t, AllWildcards(p))
}

func TestAllWildcardsFalseOnOrdinaryPattern(t *testing.T) {
	p := ComposePattern(mkName1("FOO     "), mkName2(""), mkExt("TXT"))
	assert.False(t, AllWildcards(p))
}

func TestLowercaseSkipsLeadByteTrail(t *testing.T) {
	var p Pattern
	p[0] = 0x82 // Shift-JIS lead byte
	p[1] = 0x41 // would be 'a' if folded, must be preserved as trail
	p[2] = 'B'
	got := Lowercase(p)
	assert.Equal(t, byte(0x82), got[0])
	assert.Equal(t, byte(0x41), got[1])
	assert.Equal(t, byte('b'), got[2])
}

func TestMatchWildcardAndCaseFolding(t *testing.T) {
	pattern := ComposePattern(mkName1("FOO?????"), mkName2(""), mkExt("TXT"))
	candidate, ok := SplitCandidate([]byte("FOOBAR"), []byte("TXT"))
	require.True(t, ok)
	assert.True(t, Match(pattern, candidate))
}

func TestMatchRejectsMismatch(t *testing.T) {
	pattern := ComposePattern(mkName1("FOO     "), mkName2(""), mkExt("TXT"))
	candidate, ok := SplitCandidate([]byte("BAR"), []byte("TXT"))
	require.True(t, ok)
	assert.False(t, Match(pattern, candidate))
}

func TestSplitCandidateRejectsOverlongStem(t *testing.T) {
	_, ok := SplitCandidate(make([]byte, StemSize+1), []byte("TXT"))
	assert.False(t, ok)
}
