// Package runstate persists the small amount of state that must survive
// process restarts: the last-processed circular id and the cached auth token.
package runstate

import "time"

// Well-known keys. These are the only two entries the pipeline writes.
const (
	KeyAuthToken = "auth.token"
	KeyLastID    = "run.circulars.last_id"
)

// Store is a minimal key-value contract. Get returns ok=false for absent or
// expired keys and never fails on a miss. A zero ttl on Set means the entry
// is durable.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string, ttl time.Duration) error
	Close() error
}
