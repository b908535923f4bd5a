// Package app wires the audit service together: configuration, logging,
// paths, services, HTTP router and server lifecycle. cmd/server stays a
// thin shell around this package.
package app
