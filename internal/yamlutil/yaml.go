// Package yamlutil is the single place job files and exported settings go
// through when they are read or written as YAML.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize caps how much YAML a job file may hold (1MB).
var MaxInputSize = 1 << 20

var (
	ErrEmptyInput     = errors.New("yamlutil: empty input")
	ErrNilDestination = errors.New("yamlutil: nil destination")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

func check(data []byte, v any) error {
	switch {
	case len(data) == 0:
		return ErrEmptyInput
	case len(data) > MaxInputSize:
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	case v == nil:
		return ErrNilDestination
	}
	return nil
}

// Decode parses data into v and rejects keys v does not declare, so a
// misspelled setting in a job file fails loudly instead of being ignored.
func Decode(data []byte, v any) error {
	if err := check(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// DecodeLenient parses data into v and ignores unknown keys.
func DecodeLenient(data []byte, v any) error {
	if err := check(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// Encode writes v as YAML with two-space indentation.
func Encode(v any) ([]byte, error) {
	out, err := yaml.MarshalWithOptions(v, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return out, nil
}
