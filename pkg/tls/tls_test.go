package tls

import (
	"crypto/tls"
	"net"
	"testing"
	"time"
)

func TestLoadDisabled(t *testing.T) {
	cfg, err := Load(DefaultConfig())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != nil {
		t.Error("expected nil config when TLS is disabled")
	}
}

func TestLoadAutoGenerate(t *testing.T) {
	c := DefaultConfig()
	c.Enabled = true

	cfg, err := Load(c)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Certificates) != 1 {
		t.Fatalf("certificates = %d, want 1", len(cfg.Certificates))
	}
	if cfg.MinVersion != tls.VersionTLS12 {
		t.Errorf("MinVersion = %x, want TLS 1.2", cfg.MinVersion)
	}
}

func TestLoadWithoutCertificate(t *testing.T) {
	c := Config{Enabled: true}
	if _, err := Load(c); err != ErrNoCertificate {
		t.Errorf("Load() error = %v, want ErrNoCertificate", err)
	}
}

func TestLoadMissingFiles(t *testing.T) {
	c := Config{Enabled: true, CertFile: "/nonexistent/cert.pem", KeyFile: "/nonexistent/key.pem"}
	if _, err := Load(c); err == nil {
		t.Error("expected error for missing certificate files")
	}
}

func TestGenerateSelfSignedSANs(t *testing.T) {
	cert, err := GenerateSelfSigned([]string{"localhost", "127.0.0.1", "globe.example"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateSelfSigned() error = %v", err)
	}

	leaf := cert.Leaf
	if len(leaf.DNSNames) != 2 {
		t.Errorf("DNSNames = %v, want 2 entries", leaf.DNSNames)
	}
	if len(leaf.IPAddresses) != 1 || !leaf.IPAddresses[0].Equal(net.ParseIP("127.0.0.1")) {
		t.Errorf("IPAddresses = %v", leaf.IPAddresses)
	}
	if err := leaf.VerifyHostname("globe.example"); err != nil {
		t.Errorf("VerifyHostname: %v", err)
	}
	if leaf.NotAfter.Sub(leaf.NotBefore) > 2*time.Hour {
		t.Errorf("validity = %v, want about one hour", leaf.NotAfter.Sub(leaf.NotBefore))
	}
}

func TestGenerateSelfSignedDefaultValidity(t *testing.T) {
	cert, err := GenerateSelfSigned(nil, 0)
	if err != nil {
		t.Fatalf("GenerateSelfSigned() error = %v", err)
	}
	if time.Until(cert.Leaf.NotAfter) < 300*24*time.Hour {
		t.Errorf("NotAfter = %v, want about a year out", cert.Leaf.NotAfter)
	}
}
