// Package tls builds the server's *tls.Config from certificate files or a
// generated self-signed certificate.
package tls

import (
	"crypto/tls"
	"errors"
	"fmt"
	"time"
)

// ErrNoCertificate is returned when TLS is enabled without a certificate source.
var ErrNoCertificate = errors.New("TLS enabled but no certificate provided and auto-generation disabled")

// Config selects how the HTTPS listener gets its certificate.
type Config struct {
	Enabled  bool   `yaml:"enabled" toml:"enabled"`
	CertFile string `yaml:"certFile" toml:"certFile"`
	KeyFile  string `yaml:"keyFile" toml:"keyFile"`

	// AutoGenerate creates an in-memory self-signed certificate when no files are set.
	AutoGenerate bool          `yaml:"autoGenerate" toml:"autoGenerate"`
	Hosts        []string      `yaml:"hosts" toml:"hosts"`
	ValidFor     time.Duration `yaml:"validFor" toml:"validFor"`
}

// DefaultConfig returns TLS disabled, with self-signed generation for localhost
// once enabled.
func DefaultConfig() Config {
	return Config{
		AutoGenerate: true,
		Hosts:        []string{"localhost", "127.0.0.1"},
		ValidFor:     365 * 24 * time.Hour,
	}
}

// Load returns nil when TLS is disabled.
func Load(cfg Config) (*tls.Config, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	var (
		cert tls.Certificate
		err  error
	)
	switch {
	case cfg.CertFile != "" && cfg.KeyFile != "":
		cert, err = tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("load TLS certificate: %w", err)
		}
	case cfg.AutoGenerate:
		cert, err = GenerateSelfSigned(cfg.Hosts, cfg.ValidFor)
		if err != nil {
			return nil, err
		}
	default:
		return nil, ErrNoCertificate
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		CipherSuites: SecureCipherSuites(),
	}, nil
}

// SecureCipherSuites lists the TLS 1.2 AEAD suites; TLS 1.3 suites are not
// configurable and always enabled.
func SecureCipherSuites() []uint16 {
	return []uint16{
		tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
		tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
		tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
		tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
	}
}
