// Package secret abstracts API key retrieval so the translator does not
// care whether the key comes from the environment or an encrypted file.
package secret

import (
	"os"
	"strings"
)

// EnvVar is the environment variable consulted by the default provider.
const EnvVar = "ANTHROPIC_API_KEY"

// Provider yields the API key, reporting false when none is configured.
type Provider interface {
	Get() (string, bool)
}

// Env reads the key from an environment variable.
type Env struct {
	Var string
}

// Get implements Provider.
func (e Env) Get() (string, bool) {
	name := e.Var
	if name == "" {
		name = EnvVar
	}
	v := strings.TrimSpace(os.Getenv(name))
	return v, v != ""
}

// Chain tries providers in order and returns the first configured key.
type Chain []Provider

// Get implements Provider.
func (c Chain) Get() (string, bool) {
	for _, p := range c {
		if key, ok := p.Get(); ok {
			return key, true
		}
	}
	return "", false
}

// Static always returns the given key. Useful for tests and for callers
// that already hold a key.
type Static string

// Get implements Provider.
func (s Static) Get() (string, bool) {
	return string(s), s != ""
}
