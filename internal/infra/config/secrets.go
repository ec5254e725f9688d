package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const saltSize = 16

// EncryptValue seals a credential with AES-256-GCM under a key derived from
// the passphrase. The output is one hex string of salt || nonce || ciphertext;
// stored in config files as "enc:" + the returned value and decrypted at load
// time with the SEARCHKIT_CONFIG_KEY passphrase.
func EncryptValue(plaintext, passphrase string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	blob := append(append(salt, nonce...), sealed...)
	return hex.EncodeToString(blob), nil
}

// DecryptValue reverses EncryptValue. A wrong passphrase surfaces as a GCM
// authentication failure, never as garbled plaintext.
func DecryptValue(encrypted, passphrase string) (string, error) {
	blob, err := hex.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("decode encrypted value: %w", err)
	}
	if len(blob) < saltSize {
		return "", fmt.Errorf("encrypted value too short")
	}
	salt, rest := blob[:saltSize], blob[saltSize:]

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return "", err
	}
	if len(rest) < gcm.NonceSize() {
		return "", fmt.Errorf("encrypted value too short")
	}
	nonce, ciphertext := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}
	return string(plaintext), nil
}

// newGCM derives a 32-byte Argon2id key from passphrase+salt and wraps it in
// an AES-GCM AEAD.
func newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey([]byte(passphrase), salt, 1, 64*1024, 4, 32)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}
