// Package api handles incoming HTTP requests for the user resource. Handlers
// decode JSON bodies, call the user service and shape responses; every
// failure is passed to HandleAPIError, which is the only place error
// responses are written and status codes decided.
package api
