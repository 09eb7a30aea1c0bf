// Package auth resolves, holds and (re)acquires the Gemini API key that
// gates every backend call.
package auth

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	credentialDir  = ".studio-lens"
	credentialFile = "credentials.gpg"
)

// ErrNoKey is returned when no source can supply an API key.
var ErrNoKey = errors.New("API key not found. Set GEMINI_API_KEY or connect a key")

// Source yields an API key, or an error if it has none.
type Source interface {
	Name() string
	Key() (string, error)
}

// EnvSource reads the key from the GEMINI_API_KEY environment variable.
type EnvSource struct{}

func (EnvSource) Name() string { return "env" }

func (EnvSource) Key() (string, error) {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("GEMINI_API_KEY is not set")
}

// GPGSource decrypts the key from ~/.studio-lens/credentials.gpg.
type GPGSource struct{}

func (GPGSource) Name() string { return "gpg" }

func (GPGSource) Key() (string, error) {
	return getFromGPG()
}

// DefaultSources returns the local key lookup chain: environment first, then
// the GPG-encrypted credentials file.
func DefaultSources() []Source {
	return []Source{EnvSource{}, GPGSource{}}
}

// GetAPIKey walks sources in order and returns the first non-empty key.
func GetAPIKey(sources ...Source) (string, error) {
	var lastErr error
	for _, src := range sources {
		key, err := src.Key()
		if err == nil && key != "" {
			log.Debug().Str("source", src.Name()).Msg("Using API key")
			return key, nil
		}
		if err != nil {
			log.Debug().Err(err).Str("source", src.Name()).Msg("API key source unavailable")
			lastErr = err
		}
	}
	if lastErr != nil {
		return "", fmt.Errorf("%w: %v", ErrNoKey, lastErr)
	}
	return "", ErrNoKey
}

// getFromGPG decrypts the API key from the GPG-encrypted credentials file.
func getFromGPG() (string, error) {
	credPath, err := getCredentialPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(credPath); os.IsNotExist(err) {
		return "", fmt.Errorf("GPG credentials file not found at %s", credPath)
	}

	log.Debug().Str("file", credPath).Msg("Decrypting GPG credentials")

	args := []string{"--decrypt", "--quiet"}
	if passphrasePath, ok := getPassphrasePath(); ok {
		args = append(args, "--pinentry-mode", "loopback", "--passphrase-file", passphrasePath)
	}
	args = append(args, credPath)

	output, err := exec.Command("gpg", args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("GPG decryption failed: %s", string(exitErr.Stderr))
		}
		return "", fmt.Errorf("GPG decryption failed: %w", err)
	}

	return strings.TrimSpace(string(output)), nil
}

func getCredentialPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, credentialDir, credentialFile), nil
}

// getPassphrasePath looks for an owner-only .gpg-passphrase file in the
// working directory for non-interactive decryption.
func getPassphrasePath() (string, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	path := filepath.Join(cwd, ".gpg-passphrase")
	fi, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	if mode := fi.Mode().Perm(); mode&0o077 != 0 {
		log.Warn().
			Str("passphrase_file", path).
			Str("permissions", fmt.Sprintf("%04o", mode)).
			Msg("Passphrase file has insecure permissions (should be 0600); skipping")
		return "", false
	}
	return path, true
}
