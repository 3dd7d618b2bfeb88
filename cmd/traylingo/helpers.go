package main

import (
	"path/filepath"

	"github.com/traylingo/traylingo/pkg/config"
	"github.com/traylingo/traylingo/pkg/secret"
)

const defaultConfigPath = "traylingo.yaml"

// secretFile returns the encrypted key store colocated with the JSON store.
func secretFile(cfg *config.Config) secret.File {
	dir := filepath.Dir(cfg.StorePath)
	return secret.File{
		Path:    filepath.Join(dir, "traylingo.secret"),
		KeyPath: filepath.Join(dir, "traylingo.secret.key"),
	}
}

// secretProvider prefers the environment, then the encrypted key file.
func secretProvider(cfg *config.Config) secret.Provider {
	return secret.Chain{secret.Env{}, secretFile(cfg)}
}
