// Package secrets stores guesser API keys in the OS keychain with an
// environment-variable fallback for headless setups.
package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService groups the app's secrets in the OS keychain.
	KeyringService = "sitescout"

	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

var envVarFor = map[string]string{
	ProviderOpenAI: "OPENAI_API_KEY",
	ProviderGemini: "GEMINI_API_KEY",
}

var ErrUnknownProvider = errors.New("unknown guesser provider")

// GetAPIKey looks up the key for a provider: keychain first, env second.
// A missing key returns "", nil — the guesser itself reports the hard
// error when it is actually asked to run.
func GetAPIKey(provider string) (string, error) {
	env, ok := envVarFor[provider]
	if !ok {
		return "", ErrUnknownProvider
	}

	if pw, err := keyring.Get(KeyringService, provider); err == nil && strings.TrimSpace(pw) != "" {
		return pw, nil
	}

	return strings.TrimSpace(os.Getenv(env)), nil
}

func SetAPIKey(provider, key string) error {
	if _, ok := envVarFor[provider]; !ok {
		return ErrUnknownProvider
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("api key is empty")
	}
	return keyring.Set(KeyringService, provider, key)
}

func DeleteAPIKey(provider string) error {
	if _, ok := envVarFor[provider]; !ok {
		return ErrUnknownProvider
	}
	return keyring.Delete(KeyringService, provider)
}
