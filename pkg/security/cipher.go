package security

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	pkgerrors "github.com/angelmondragon/shopgen/pkg/errors"
)

const tokenVersion byte = 0x01

// ErrDecryption signals a token that does not authenticate under the cipher's key.
var ErrDecryption = pkgerrors.New(pkgerrors.CodeDecryption, "decryption failed")

// FieldCipher encrypts individual string fields with XChaCha20-Poly1305.
// Tokens are base64url(version || nonce || ciphertext+tag).
type FieldCipher struct {
	aead  cipher.AEAD
	nonce io.Reader
}

// NewFieldCipher builds a cipher for key, which must be KeySize bytes long.
func NewFieldCipher(key Key) (*FieldCipher, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid field encryption key")
	}
	return &FieldCipher{aead: aead, nonce: rand.Reader}, nil
}

// Encrypt seals plaintext under a fresh random nonce.
func (c *FieldCipher) Encrypt(plaintext string) (string, error) {
	nonceSize := c.aead.NonceSize()
	token := make([]byte, 1+nonceSize, 1+nonceSize+len(plaintext)+c.aead.Overhead())
	token[0] = tokenVersion
	nonce := token[1 : 1+nonceSize]
	if _, err := io.ReadFull(c.nonce, nonce); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate nonce")
	}

	token = c.aead.Seal(token, nonce, []byte(plaintext), []byte{tokenVersion})
	return base64.RawURLEncoding.EncodeToString(token), nil
}

// Decrypt opens a token produced by Encrypt with the same key.
func (c *FieldCipher) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDecryption, err, "decryption failed")
	}

	nonceSize := c.aead.NonceSize()
	if len(raw) < 1+nonceSize+c.aead.Overhead() {
		return "", ErrDecryption
	}
	if raw[0] != tokenVersion {
		return "", ErrDecryption
	}

	nonce := raw[1 : 1+nonceSize]
	plaintext, err := c.aead.Open(nil, nonce, raw[1+nonceSize:], []byte{tokenVersion})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDecryption, err, "decryption failed")
	}
	return string(plaintext), nil
}
