package direnum

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yunkya2/smbfs-x68k/internal/pathtrans"
)

func TestAttrMatchesReadOnlyAndArchiveNeverGate(t *testing.T) {
	assert.True(t, attrMatches(AttrReadOnly, 0))
	assert.True(t, attrMatches(AttrArchive, 0))
}

func TestAttrMatchesRequiresSpecialBitInMask(t *testing.T) {
	assert.False(t, attrMatches(AttrDirectory, 0))
	assert.True(t, attrMatches(AttrDirectory, AttrDirectory))
	assert.False(t, attrMatches(AttrHidden, AttrDirectory))
	assert.True(t, attrMatches(AttrHidden|AttrDirectory, AttrHidden|AttrDirectory))
}

func TestVolumeLabelEligible(t *testing.T) {
	var allWild pathtrans.Pattern
	for i := range allWild {
		allWild[i] = '?'
	}
	c := &DirCursor{firstCall: true, isRoot: true, attrMask: AttrVolumeLabel, pattern: allWild}
	assert.True(t, c.volumeLabelEligible())

	c.firstCall = false
	assert.False(t, c.volumeLabelEligible())

	c.firstCall = true
	c.isRoot = false
	assert.False(t, c.volumeLabelEligible())
}

func TestCloseNilIteratorIsNoOp(t *testing.T) {
	c := &DirCursor{}
	assert.NoError(t, c.close())
}
