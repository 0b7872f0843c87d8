// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides input validation utilities for security-critical operations.
//
// This package contains validators for user-provided inputs that end
// up interpolated into GSQL statements. Using these validators
// prevents GSQL injection through attribute names, type names, and
// query names.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// identifierPattern matches valid GSQL identifiers: vertex/edge type
// names, attribute names, and query names. Letters, digits, and
// underscores, not starting with a digit. Max length: 127 characters.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,126}$`)

// ValidateIdentifier validates a GSQL identifier to prevent statement
// injection.
//
// Valid identifiers:
//   - 1-127 characters
//   - Letters A-Z a-z, digits 0-9, underscores
//   - First character is not a digit
//
// Returns an error if the identifier is invalid.
//
// Example:
//
//	if err := validation.ValidateIdentifier(attrName); err != nil {
//	    return fmt.Errorf("invalid attribute name: %w", err)
//	}
//	// Safe to interpolate into a GSQL statement
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("identifier cannot be empty")
	}

	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier %q (must be 1-127 letters, digits, or underscores, not starting with a digit)", name)
	}

	return nil
}

// ValidateIdentifiers validates multiple identifiers.
// Returns an error listing all invalid identifiers if any fail validation.
func ValidateIdentifiers(names []string) error {
	var invalid []string
	for _, n := range names {
		if err := ValidateIdentifier(n); err != nil {
			invalid = append(invalid, n)
		}
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid identifiers: %v", invalid)
	}
	return nil
}

// SanitizeIdentifier trims and validates an identifier. Returns the
// trimmed identifier if valid, or an error if invalid.
func SanitizeIdentifier(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if err := ValidateIdentifier(trimmed); err != nil {
		return "", err
	}
	return trimmed, nil
}
