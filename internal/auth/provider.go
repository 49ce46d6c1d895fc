package auth

import (
	"os"
	"strings"
)

// Provider supplies the ambient CRM bearer token. The recorder only reads
// tokens; issuing and refreshing them belongs to the CRM login flow.
type Provider interface {
	CurrentToken() (string, bool)
}

// StaticProvider returns a token fixed at construction (config value, tests).
type StaticProvider string

func (p StaticProvider) CurrentToken() (string, bool) {
	return string(p), p != ""
}

// EnvProvider reads the token from an environment variable on every call.
type EnvProvider string

func (p EnvProvider) CurrentToken() (string, bool) {
	v := strings.TrimSpace(os.Getenv(string(p)))
	return v, v != ""
}

// FileProvider reads the token from a file the CRM login flow writes, so a
// re-login during a recording is picked up without restarting the recorder.
type FileProvider string

func (p FileProvider) CurrentToken() (string, bool) {
	data, err := os.ReadFile(string(p))
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(string(data))
	return v, v != ""
}

// ChainProvider tries each provider in order and returns the first token
// found. The lookup order is a wiring detail of the composition root.
type ChainProvider []Provider

func (c ChainProvider) CurrentToken() (string, bool) {
	for _, p := range c {
		if tok, ok := p.CurrentToken(); ok {
			return tok, true
		}
	}
	return "", false
}
