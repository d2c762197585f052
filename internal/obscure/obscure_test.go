package obscure

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObscure(t *testing.T) {
	for _, test := range []struct {
		in   string
		want string
		iv   string
	}{
		{"", "YWFhYWFhYWFhYWFhYWFhYQ", "aaaaaaaaaaaaaaaa"},
		{"potato", "YWFhYWFhYWFhYWFhYWFhYXMaGgIlEQ", "aaaaaaaaaaaaaaaa"},
		{"potato", "YmJiYmJiYmJiYmJiYmJiYp3gcEWbAw", "bbbbbbbbbbbbbbbb"},
	} {
		cryptRand = bytes.NewBufferString(test.iv)
		got, err := Obscure(test.in)
		cryptRand = rand.Reader
		assert.NoError(t, err)
		assert.Equal(t, test.want, got)

		recoveredIn, err := Reveal(got)
		assert.NoError(t, err)
		assert.Equal(t, test.in, recoveredIn, "not bidirectional")

		cryptRand = bytes.NewBufferString(test.iv)
		got = MustObscure(test.in)
		cryptRand = rand.Reader
		assert.Equal(t, test.want, got)
		assert.Equal(t, test.in, MustReveal(got), "not bidirectional")
	}
}

func TestReveal(t *testing.T) {
	for _, test := range []struct {
		in   string
		want string
	}{
		{"YWFhYWFhYWFhYWFhYWFhYQ", ""},
		{"YWFhYWFhYWFhYWFhYWFhYXMaGgIlEQ", "potato"},
		{"YmJiYmJiYmJiYmJiYmJiYp3gcEWbAw", "potato"},
	} {
		got, err := Reveal(test.in)
		assert.NoError(t, err)
		assert.Equal(t, test.want, got)
	}
}

func TestRevealErrors(t *testing.T) {
	for _, test := range []struct {
		in string
	}{
		{"YmJiYmJiYmJiYmJiYmJiYp*gcEWbAw"},
		{"aGVsbG8"},
		{""},
	} {
		got, err := Reveal(test.in)
		assert.Equal(t, "", got)
		assert.Error(t, err)
	}
}
