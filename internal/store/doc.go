// Package store defines the persistence gateway for user records and the
// sentinel errors every implementation reports. Concrete gateways live under
// internal/platform; callers depend only on the interfaces here.
package store
