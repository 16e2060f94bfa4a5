// Package id generates identifiers: request ids echoed in X-Request-Id and
// short ids used in log lines.
package id
