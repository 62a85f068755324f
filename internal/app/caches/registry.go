// Package caches holds the process-wide registry of producer-supplied
// datasets. Any module may register a keyed, timestamped payload; consumers
// read entries or freshness metadata without knowing producer internals.
package caches

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	clockport "github.com/we-whacked/reviews-api/internal/ports/out/clock"
)

// NonCountableData is the data_count sentinel reported for payloads that are
// not a sequence or mapping.
const NonCountableData = -1

// Entry is an opaque payload slot. Data is whatever the producer supplied;
// the registry never inspects it beyond computing a size for summaries.
// Timestamp is producer-supplied and represents data freshness, not
// registration time; a zero Timestamp means the producer did not report one.
type Entry struct {
	Data      any
	Timestamp time.Time
}

// Metadata describes one entry for monitoring without carrying its payload.
type Metadata struct {
	Key             string
	Timestamp       time.Time
	DataCount       int
	CacheAgeSeconds *float64
}

// Registry is a mutex-guarded mapping from string key to Entry. It is
// in-memory only: contents live for the process lifetime and reset on
// restart. The registry enforces no TTL and performs no eviction; staleness
// is purely informational via CacheAgeSeconds.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
	clk     clockport.Clock
}

func NewRegistry(clk clockport.Clock) *Registry {
	return &Registry{
		entries: make(map[string]Entry),
		clk:     clk,
	}
}

// Register inserts or overwrites the entry for key. Re-registration replaces
// the whole slot; it never merges.
func (r *Registry) Register(key string, e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = e
}

// Get returns the entry for key.
func (r *Registry) Get(key string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key]
	if !ok {
		return Entry{}, &NotFoundError{Key: key, Known: r.keysLocked()}
	}
	return e, nil
}

// Snapshot returns a copy of the full current registry. Payloads themselves
// are shared, not deep-copied; producers must not mutate registered data.
func (r *Registry) Snapshot() map[string]Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Entry, len(r.entries))
	for k, e := range r.entries {
		out[k] = e
	}
	return out
}

// Summarize reports per-entry metadata. It only sizes payloads, it never
// copies them.
func (r *Registry) Summarize() map[string]Metadata {
	now := r.clk.Now()

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Metadata, len(r.entries))
	for k, e := range r.entries {
		m := Metadata{
			Key:       k,
			Timestamp: e.Timestamp,
			DataCount: payloadCount(e.Data),
		}
		if !e.Timestamp.IsZero() {
			age := now.Sub(e.Timestamp).Seconds()
			m.CacheAgeSeconds = &age
		}
		out[k] = m
	}
	return out
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.keysLocked()
}

func (r *Registry) keysLocked() []string {
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// payloadCount sizes sequence and mapping payloads; anything else reports
// the NonCountableData sentinel.
func payloadCount(data any) int {
	if data == nil {
		return NonCountableData
	}
	v := reflect.ValueOf(data)
	switch v.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return v.Len()
	default:
		return NonCountableData
	}
}

// NotFoundError indicates the requested cache key was never registered.
type NotFoundError struct {
	Key   string
	Known []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("cache %q not found (known caches: %v)", e.Key, e.Known)
}
