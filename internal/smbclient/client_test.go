package smbclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnmountedClientGuardsEveryShareOperation(t *testing.T) {
	c := &Client{host: "testhost"}

	_, err := c.Open("x", ModeRead)
	assert.ErrorIs(t, err, errNotMounted)

	_, err = c.Create("x", false)
	assert.ErrorIs(t, err, errNotMounted)

	_, err = c.Stat("x")
	assert.ErrorIs(t, err, errNotMounted)

	assert.ErrorIs(t, c.Mkdir("x"), errNotMounted)
	assert.ErrorIs(t, c.Rmdir("x"), errNotMounted)
	assert.ErrorIs(t, c.Remove("x"), errNotMounted)
	assert.ErrorIs(t, c.Rename("x", "y"), errNotMounted)

	_, err = c.ReadDir("x")
	assert.ErrorIs(t, err, errNotMounted)

	_, err = c.Statfs("x")
	assert.ErrorIs(t, err, errNotMounted)
}

func TestClientString(t *testing.T) {
	c := &Client{host: "myserver"}
	assert.Equal(t, "smb://myserver", c.String())
}

func TestOpenFlagsMapping(t *testing.T) {
	assert.NotEqual(t, openFlags(ModeRead), openFlags(ModeWrite))
	assert.NotEqual(t, openFlags(ModeWrite), openFlags(ModeReadWrite))
}
