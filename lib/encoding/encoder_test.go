package encoding

import (
	"errors"
	"testing"
)

type payload struct {
	Values map[string]any `msgpack:"v"`
	Flash  map[string]any `msgpack:"f"`
}

func TestNewCodec(t *testing.T) {
	// Any key length works (short keys are stretched)
	if _, err := NewCodec([]byte("short")); err != nil {
		t.Fatalf("NewCodec with short key failed: %v", err)
	}
	if _, err := NewCodec([]byte("this-is-a-32-byte-key-for-aes!!!")); err != nil {
		t.Fatalf("NewCodec with 32-byte key failed: %v", err)
	}
}

func TestSealOpenRoundTrip(t *testing.T) {
	for _, encrypt := range []bool{false, true} {
		c, err := NewCodec([]byte("test-key"))
		if err != nil {
			t.Fatalf("NewCodec failed: %v", err)
		}

		original := payload{
			Values: map[string]any{"_previous.url": "/users?page=2"},
			Flash:  map[string]any{"_old_input": map[string]any{"email": "a@b.c"}},
		}

		sealed, err := c.Seal(original, encrypt)
		if err != nil {
			t.Fatalf("Seal(encrypt=%v) failed: %v", encrypt, err)
		}

		var opened payload
		if err := c.Open(sealed, encrypt, &opened); err != nil {
			t.Fatalf("Open(encrypt=%v) failed: %v", encrypt, err)
		}

		if got := opened.Values["_previous.url"]; got != "/users?page=2" {
			t.Errorf("previous url = %v, want /users?page=2", got)
		}
		old, ok := opened.Flash["_old_input"].(map[string]any)
		if !ok {
			t.Fatalf("old input has type %T, want map[string]any", opened.Flash["_old_input"])
		}
		if old["email"] != "a@b.c" {
			t.Errorf("old email = %v, want a@b.c", old["email"])
		}
	}
}

func TestSignatureVerificationFailure(t *testing.T) {
	c, _ := NewCodec([]byte("test-key"))

	sealed, err := c.Seal(map[string]any{"a": 1}, false)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	tampered := sealed[:len(sealed)-2] + "XX"

	var out map[string]any
	err = c.Open(tampered, false, &out)
	if !errors.Is(err, ErrSignatureInvalid) && !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected signature error, got: %v", err)
	}
}

func TestDecryptionFailure(t *testing.T) {
	c, _ := NewCodec([]byte("test-key"))

	sealed, err := c.Seal(map[string]any{"a": 1}, true)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	tampered := sealed[:len(sealed)-2] + "XX"

	var out map[string]any
	if err := c.Open(tampered, true, &out); err == nil {
		t.Error("expected error for tampered ciphertext, got nil")
	}
}

func TestInvalidFormat(t *testing.T) {
	c, _ := NewCodec([]byte("test-key"))

	var out map[string]any
	if err := c.Open("invalidbase64withoutseparator", false, &out); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got: %v", err)
	}
	if err := c.Open("!!", true, &out); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat for bad ciphertext, got: %v", err)
	}
}

func TestDifferentKeysCannotOpen(t *testing.T) {
	c1, _ := NewCodec([]byte("key-one"))
	c2, _ := NewCodec([]byte("key-two"))

	sealed, err := c1.Seal(map[string]any{"a": "b"}, false)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	var out map[string]any
	if err := c2.Open(sealed, false, &out); err == nil {
		t.Error("expected error when opening with a different key")
	}
}

func TestSealUnsupportedValue(t *testing.T) {
	c, _ := NewCodec([]byte("test-key"))

	if _, err := c.Seal(map[string]any{"fn": func() {}}, false); err == nil {
		t.Error("expected error sealing a func")
	}
}
