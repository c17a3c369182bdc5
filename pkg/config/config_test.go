package config

import (
	"errors"
	"testing"
)

func TestDefaultsAreValid(t *testing.T) {
	c := NewConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	if c.K() != 2 {
		t.Fatalf("K() = %d, want 2", c.K())
	}
	if c.Mode() != "direct_kway" {
		t.Fatalf("Mode() = %q, want direct_kway", c.Mode())
	}
}

func TestValidateRejectsBadK(t *testing.T) {
	c := NewConfig()
	c.Set("k", 1)
	err := c.Validate()
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestValidateRejectsVCyclesWithRecursiveBisection(t *testing.T) {
	c := NewConfig()
	c.Set("mode", "recursive_bisection")
	c.Set("v_cycles", 1)
	if err := c.Validate(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestValidateRejectsUnknownEnums(t *testing.T) {
	c := NewConfig()
	c.Set("objective", "bogus")
	if err := c.Validate(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig for bad objective, got %v", err)
	}
}
