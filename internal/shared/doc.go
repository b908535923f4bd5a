// Package shared provides common utilities and test helpers used across
// the audit codebase. It is a home for functionality that does not belong
// to any specific domain or architectural layer.
//
// The testutil subpackage captures slog output for assertions in tests.
// This package must not contain business logic or depend on other
// internal packages.
package shared
