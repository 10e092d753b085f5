package hashmap

import (
	"github.com/skybi/identity-server/internal/task"
	"sync"
	"time"
)

type expiringEntry[V any] struct {
	value   V
	expires time.Time
}

// ExpiringMap is a thread safe map whose values expire after a fixed lifetime.
// Expired values are never returned; they are removed lazily on access or by the cleanup task.
type ExpiringMap[K comparable, V any] struct {
	mtx         sync.RWMutex
	entries     map[K]*expiringEntry[V]
	lifetime    time.Duration
	now         func() time.Time
	cleanupTask *task.RepeatingTask
}

// NewExpiring creates a new expiring map whose values exist for a specific lifetime
func NewExpiring[K comparable, V any](lifetime time.Duration) *ExpiringMap[K, V] {
	return &ExpiringMap[K, V]{
		entries:  make(map[K]*expiringEntry[V]),
		lifetime: lifetime,
		now:      time.Now,
	}
}

// ScheduleCleanupTask schedules the task that removes expired values in a specific interval.
// Call StopCleanupTask as soon as the map is no longer needed, the task keeps it alive otherwise.
func (obj *ExpiringMap[K, V]) ScheduleCleanupTask(tick time.Duration) {
	if obj.cleanupTask != nil {
		return
	}
	obj.cleanupTask = task.NewRepeating(obj.Cleanup, tick)
	obj.cleanupTask.Start()
}

// StopCleanupTask stops the cleanup task
func (obj *ExpiringMap[K, V]) StopCleanupTask() {
	if obj.cleanupTask == nil {
		return
	}
	obj.cleanupTask.Stop(true)
	obj.cleanupTask = nil
}

// Cleanup removes every expired value
func (obj *ExpiringMap[K, V]) Cleanup() {
	now := obj.now()
	obj.mtx.Lock()
	defer obj.mtx.Unlock()
	for key, entry := range obj.entries {
		if !now.Before(entry.expires) {
			delete(obj.entries, key)
		}
	}
}

// Size returns the amount of stored key-value pairs, including expired ones not yet cleaned up
func (obj *ExpiringMap[K, V]) Size() int {
	obj.mtx.RLock()
	defer obj.mtx.RUnlock()
	return len(obj.entries)
}

// Lookup returns the value assigned to the given key and whether it exists and is not expired
func (obj *ExpiringMap[K, V]) Lookup(key K) (V, bool) {
	obj.mtx.RLock()
	entry, ok := obj.entries[key]
	obj.mtx.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if !obj.now().Before(entry.expires) {
		obj.mtx.Lock()
		if current, ok := obj.entries[key]; ok && current == entry {
			delete(obj.entries, key)
		}
		obj.mtx.Unlock()
		return zero, false
	}
	return entry.value, true
}

// Set sets a key-value pair and resets its lifetime
func (obj *ExpiringMap[K, V]) Set(key K, value V) {
	obj.mtx.Lock()
	defer obj.mtx.Unlock()
	obj.entries[key] = &expiringEntry[V]{
		value:   value,
		expires: obj.now().Add(obj.lifetime),
	}
}

// Unset deletes the value assigned to given key
func (obj *ExpiringMap[K, V]) Unset(key K) {
	obj.mtx.Lock()
	defer obj.mtx.Unlock()
	delete(obj.entries, key)
}

// Clear removes every value
func (obj *ExpiringMap[K, V]) Clear() {
	obj.mtx.Lock()
	defer obj.mtx.Unlock()
	obj.entries = make(map[K]*expiringEntry[V])
}
