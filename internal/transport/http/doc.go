// Package http contains the HTTP handlers of the audit API. Handlers are
// thin: they decode and validate requests, call the service layer and
// render responses. Error mapping goes through the shared ErrorHandler so
// every failure renders the same RFC 7807 style body.
package http
