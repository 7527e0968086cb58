// Package service contains the user use cases. It sits between the HTTP
// handlers and the store.UserStore gateway: it checks request presence rules,
// forwards to the gateway, and converts every gateway failure into a
// *domain.Error whose kind decides the HTTP status.
//
// Services receive their gateway through constructor injection and never
// depend on a concrete implementation.
package service
