// Package obscure provides reversible obfuscation for passwords
// persisted by the mount utility's saved-connection file, mirroring
// fs/config/obscure exactly: a fixed AES-256-CTR key (obfuscation, not
// security — it only keeps a password from being readable by a casual
// glance or grep) with a random IV prepended to the ciphertext and the
// whole thing base64-encoded.
package obscure

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"io"

	"github.com/pkg/errors"
)

// cryptKey is the fixed key every rclone-style obscure implementation
// shares; it is not a secret, it only prevents a password surviving in
// a saved mount list as cleartext.
var cryptKey = []byte{
	0x9c, 0x93, 0x5b, 0x48, 0x73, 0x0a, 0x55, 0x4d,
	0x6b, 0xfd, 0x7c, 0x63, 0xc8, 0x86, 0xa9, 0x2b,
	0xd3, 0x90, 0x19, 0x8e, 0xb8, 0x12, 0x8a, 0xfb,
	0xf4, 0xde, 0x16, 0x2b, 0x8b, 0x95, 0xf6, 0x38,
}

// cryptRand is the IV source; tests in the teacher's style swap it for
// a deterministic buffer.
var cryptRand io.Reader = rand.Reader

// crypt returns an AES-256-CTR cipher block keyed by cryptKey.
func crypt() (cipher.Block, error) {
	return aes.NewCipher(cryptKey)
}

// Obscure obfuscates a password for storage.
func Obscure(x string) (string, error) {
	block, err := crypt()
	if err != nil {
		return "", errors.Wrap(err, "obscure: failed to create cipher")
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(cryptRand, iv); err != nil {
		return "", errors.Wrap(err, "obscure: failed to read iv")
	}
	buf := []byte(x)
	stream := cipher.NewCTR(block, iv)
	stream.XORKeyStream(buf, buf)
	result := append(iv, buf...)
	return base64.RawURLEncoding.EncodeToString(result), nil
}

// MustObscure is like Obscure but panics on error.
func MustObscure(x string) string {
	out, err := Obscure(x)
	if err != nil {
		panic(err)
	}
	return out
}

// Reveal recovers a password obfuscated by Obscure.
func Reveal(x string) (string, error) {
	ciphertext, err := base64.RawURLEncoding.DecodeString(x)
	if err != nil {
		return "", errors.Wrap(err, "base64 decode failed when revealing password - is it obscured?")
	}
	if len(ciphertext) < aes.BlockSize {
		return "", errors.New("input too short when revealing password - is it obscured?")
	}
	block, err := crypt()
	if err != nil {
		return "", errors.Wrap(err, "obscure: failed to create cipher")
	}
	iv := ciphertext[:aes.BlockSize]
	buf := ciphertext[aes.BlockSize:]
	stream := cipher.NewCTR(block, iv)
	stream.XORKeyStream(buf, buf)
	return string(buf), nil
}

// MustReveal is like Reveal but panics on error.
func MustReveal(x string) string {
	out, err := Reveal(x)
	if err != nil {
		panic(err)
	}
	return out
}
