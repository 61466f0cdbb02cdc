package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("FOLIO_TEST_NAME", "portfolio")
	p := writeFile(t, "name: ${FOLIO_TEST_NAME}\nport: 9000\n")

	s := &sample{}
	if err := Load(p, s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "portfolio" || s.Port != 9000 {
		t.Errorf("got %+v", s)
	}
}

func TestLoad_KeepsDefaults(t *testing.T) {
	p := writeFile(t, "name: x\n")
	s := &sample{Port: 8080}
	if err := Load(p, s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Port != 8080 {
		t.Errorf("port = %d, want default 8080", s.Port)
	}
}

func TestLoad_ValidationError(t *testing.T) {
	p := writeFile(t, "port: 0\n")
	if err := Load(p, &sample{}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &sample{Port: 1}); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadOptional_MissingFileUsesDefaults(t *testing.T) {
	s := &sample{Port: 1}
	if err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), s); err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &sample{}); err == nil {
		t.Fatal("defaults must still be validated")
	}
}
