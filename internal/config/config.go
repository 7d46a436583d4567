package config

import (
	"encoding/base64"
	"fmt"
	"time"
)

type Config struct {
	ServerAddr        string
	DatabaseDSN       string
	SigningKey        []byte
	ProviderUrl       string
	ProviderSecret    string
	AllowedOrigins    []string
	ReconcileInterval time.Duration
}

func decodeSigningSecret(base64Secret string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(base64Secret)
}

func NewConfig(serverAddr, databaseDSN, base64Secret, providerUrl, providerSecret string, allowedOrigins []string, reconcileInterval time.Duration) (*Config, error) {
	if serverAddr == "" {
		return nil, fmt.Errorf("server address cannot be empty")
	}
	if databaseDSN == "" {
		return nil, fmt.Errorf("database DSN cannot be empty")
	}
	if base64Secret == "" {
		return nil, fmt.Errorf("signing secret cannot be empty")
	}
	if providerUrl == "" {
		return nil, fmt.Errorf("provider URL cannot be empty")
	}
	if providerSecret == "" {
		return nil, fmt.Errorf("provider secret cannot be empty")
	}
	if reconcileInterval <= 0 {
		return nil, fmt.Errorf("reconcile interval must be positive")
	}

	signingKey, err := decodeSigningSecret(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("decode signing secret: %w", err)
	}

	return &Config{
		ServerAddr:        serverAddr,
		DatabaseDSN:       databaseDSN,
		SigningKey:        signingKey,
		ProviderUrl:       providerUrl,
		ProviderSecret:    providerSecret,
		AllowedOrigins:    allowedOrigins,
		ReconcileInterval: reconcileInterval,
	}, nil
}
