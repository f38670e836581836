// Package mocks provides mock implementations for testing the trust boundary.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the identity-provider port. To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
package mocks

// Generate mock for IdentityProvider interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=authmocks -destination=auth/identity_provider_mock.go github.com/daybook-app/daybook-api/internal/ports IdentityProvider
