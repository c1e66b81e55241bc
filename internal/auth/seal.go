package auth

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// ErrUnseal is returned when a sealed value was not produced with the given key
// or has been tampered with.
var ErrUnseal = errors.New("sealed value cannot be opened")

// Seal encrypts plaintext with the hex-encoded 32-byte key and returns the
// base64 encoding of nonce||box.
func Seal(keyHex string, plaintext []byte) (string, error) {
	key, err := parseKey(keyHex)
	if err != nil {
		return "", err
	}

	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	out := secretbox.Seal(nonce[:], plaintext, &nonce, key)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Unseal reverses Seal.
func Unseal(keyHex, sealed string) ([]byte, error) {
	key, err := parseKey(keyHex)
	if err != nil {
		return nil, err
	}

	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return nil, fmt.Errorf("decoding sealed value: %w", err)
	}
	if len(raw) < nonceSize+secretbox.Overhead {
		return nil, ErrUnseal
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])

	plaintext, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, key)
	if !ok {
		return nil, ErrUnseal
	}
	return plaintext, nil
}

func parseKey(keyHex string) (*[32]byte, error) {
	b, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("decoding seal key: %w", err)
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("seal key must be 32 bytes, got %d", len(b))
	}
	var key [32]byte
	copy(key[:], b)
	return &key, nil
}
