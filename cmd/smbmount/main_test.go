package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	cases := []struct{ in, want string }{
		{"host/share", "smb://host/share"},
		{"host", "smb://host/"},
		{"//host/share", "smb://host/share"},
		{"/host/share", "smb://host/share"},
		{"smb://host/share", "smb://host/share"},
		{"  host/share", "smb://host/share"},
		{"", "smb://"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, normalizeURL(c.in), "input %q", c.in)
	}
}

func TestSplitUserFlag(t *testing.T) {
	user, pass := splitUserFlag("alice%secret")
	assert.Equal(t, "alice", user)
	assert.Equal(t, "secret", pass)

	user, pass = splitUserFlag("alice")
	assert.Equal(t, "alice", user)
	assert.Equal(t, "", pass)

	user, pass = splitUserFlag("")
	assert.Equal(t, "", user)
	assert.Equal(t, "", pass)
}

func TestDriveSyntax(t *testing.T) {
	assert.True(t, driveSyntax.MatchString("A:"))
	assert.True(t, driveSyntax.MatchString("z:"))
	assert.False(t, driveSyntax.MatchString("A"))
	assert.False(t, driveSyntax.MatchString("AB:"))
}
