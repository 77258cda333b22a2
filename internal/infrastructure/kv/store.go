// Package kv provides the durable key/value storage behind the local backend.
package kv

// Store is a string key/value store. Get reports false for missing keys;
// Delete of a missing key succeeds.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}
