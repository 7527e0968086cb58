// Package domain contains the user entity, its normalization and validation
// rules, and the tagged error type that every request failure is expressed as
// before it reaches the HTTP layer. It has no knowledge of storage or HTTP.
package domain
