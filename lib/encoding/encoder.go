// Package encoding seals values into compact, URL- and cookie-safe
// strings using msgpack.
//
// Two modes are supported:
//   - Signed (default): base64 payload + truncated HMAC-SHA256, readable
//     but tamper-proof
//   - Encrypted: AES-256-GCM, opaque to clients
package encoding

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Errors returned by Open.
var (
	ErrInvalidFormat    = errors.New("encoding: invalid format")
	ErrSignatureInvalid = errors.New("encoding: signature verification failed")
	ErrDecryptFailed    = errors.New("encoding: decryption failed")
)

// Codec seals and opens msgpack-encoded values with a shared secret.
type Codec struct {
	key []byte
	gcm cipher.AEAD
}

// NewCodec creates a codec from secret. Secrets shorter than 32 bytes
// are stretched with SHA-256.
func NewCodec(secret []byte) (*Codec, error) {
	key := secret
	if len(key) < 32 {
		h := sha256.Sum256(key)
		key = h[:]
	}

	block, err := aes.NewCipher(key[:32])
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Codec{key: key, gcm: gcm}, nil
}

// Seal encodes v. If encrypt is true the result is encrypted; otherwise
// it is signed.
func (c *Codec) Seal(v any, encrypt bool) (string, error) {
	packed, err := msgpack.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding: marshal: %w", err)
	}
	if encrypt {
		return c.encrypt(packed)
	}
	return c.sign(packed), nil
}

// Open reverses Seal into v, which must be a pointer.
func (c *Codec) Open(sealed string, encrypt bool, v any) error {
	var packed []byte
	var err error
	if encrypt {
		packed, err = c.decrypt(sealed)
	} else {
		packed, err = c.verify(sealed)
	}
	if err != nil {
		return err
	}

	if err := msgpack.Unmarshal(packed, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return nil
}

// sign produces base64(data).base64(mac)
func (c *Codec) sign(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data) + "." + base64.RawURLEncoding.EncodeToString(c.mac(data))
}

func (c *Codec) mac(data []byte) []byte {
	m := hmac.New(sha256.New, c.key)
	m.Write(data)
	return m.Sum(nil)[:16] // 128 bits
}

func (c *Codec) verify(sealed string) ([]byte, error) {
	payload, sig, ok := strings.Cut(sealed, ".")
	if !ok {
		return nil, ErrInvalidFormat
	}

	data, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	mac, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return nil, ErrInvalidFormat
	}

	if !hmac.Equal(mac, c.mac(data)) {
		return nil, ErrSignatureInvalid
	}
	return data, nil
}

func (c *Codec) encrypt(data []byte) (string, error) {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(c.gcm.Seal(nonce, nonce, data, nil)), nil
}

func (c *Codec) decrypt(sealed string) ([]byte, error) {
	ciphertext, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	if len(ciphertext) < c.gcm.NonceSize() {
		return nil, ErrInvalidFormat
	}

	nonce, ciphertext := ciphertext[:c.gcm.NonceSize()], ciphertext[c.gcm.NonceSize():]
	data, err := c.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return data, nil
}
