package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestASCIIRoundTrip(t *testing.T) {
	c := NewCodec()
	legacy, err := c.ToLegacy("FOO.TXT")
	require.NoError(t, err)
	assert.Equal(t, "FOO.TXT", string(legacy))

	back, err := c.ToUnicode(legacy)
	require.NoError(t, err)
	assert.Equal(t, "FOO.TXT", back)
}

func TestShiftJISRoundTrip(t *testing.T) {
	c := NewCodec()
	const want = "日本語.txt"
	legacy, err := c.ToLegacy(want)
	require.NoError(t, err)

	back, err := c.ToUnicode(legacy)
	require.NoError(t, err)
	assert.Equal(t, want, back)
}

func TestIsLeadByte(t *testing.T) {
	assert.True(t, IsLeadByte(0x81))
	assert.True(t, IsLeadByte(0x9F))
	assert.True(t, IsLeadByte(0xE0))
	assert.True(t, IsLeadByte(0xFC))
	assert.False(t, IsLeadByte(0x41)) // 'A'
	assert.False(t, IsLeadByte(0xA0))
}
