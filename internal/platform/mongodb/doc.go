// Package mongodb implements the store.UserStore gateway on MongoDB.
//
// Users live in a single collection with a unique index on email. Document
// ids are ObjectIDs exposed as 24-character hex strings; any other id format
// is reported as store.ErrInvalidID. Timestamps are stored as BSON datetimes
// and therefore carry millisecond precision.
package mongodb
