package secret

import (
	"crypto/rand"
	"fmt"
	"os"

	"golang.org/x/crypto/chacha20poly1305"
)

// File stores the API key encrypted at rest with ChaCha20-Poly1305. The
// random cipher key lives next to the secret in a 0600 file, which keeps
// the key out of plain-text greps and backups without pretending to be a
// full keychain.
type File struct {
	Path    string
	KeyPath string
}

// Get implements Provider.
func (f File) Get() (string, bool) {
	key, err := os.ReadFile(f.KeyPath)
	if err != nil || len(key) != chacha20poly1305.KeySize {
		return "", false
	}
	sealed, err := os.ReadFile(f.Path)
	if err != nil {
		return "", false
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", false
	}
	if len(sealed) < aead.NonceSize() {
		return "", false
	}
	nonce, box := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, box, nil)
	if err != nil || len(plain) == 0 {
		return "", false
	}
	return string(plain), true
}

// Set encrypts and writes the API key, generating the cipher key on first
// use.
func (f File) Set(apiKey string) error {
	key, err := os.ReadFile(f.KeyPath)
	if err != nil || len(key) != chacha20poly1305.KeySize {
		key = make([]byte, chacha20poly1305.KeySize)
		if _, err := rand.Read(key); err != nil {
			return fmt.Errorf("generate cipher key: %w", err)
		}
		if err := os.WriteFile(f.KeyPath, key, 0o600); err != nil {
			return fmt.Errorf("write cipher key: %w", err)
		}
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return fmt.Errorf("init cipher: %w", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, []byte(apiKey), nil)

	if err := os.WriteFile(f.Path, sealed, 0o600); err != nil {
		return fmt.Errorf("write secret: %w", err)
	}
	return nil
}

// Delete removes the stored key. Missing files are fine.
func (f File) Delete() error {
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete secret: %w", err)
	}
	return nil
}
