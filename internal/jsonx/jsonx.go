// Package jsonx is a thin JSON layer for the pipeline artifacts. It uses
// sonic for speed but keeps the encoding/json call shape so callers never
// see the library directly.
package jsonx

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

// Marshal encodes v as JSON.
func Marshal(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

// MarshalIndent encodes v as indented JSON for on-disk artifacts.
func MarshalIndent(v any) ([]byte, error) {
	return sonic.ConfigDefault.MarshalIndent(v, "", "  ")
}

// Unmarshal decodes JSON data into v.
func Unmarshal(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

// WriteFile marshals v and writes it to path with 0644 permissions.
func WriteFile(path string, v any) error {
	data, err := MarshalIndent(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadFile reads path and unmarshals it into v.
func ReadFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
