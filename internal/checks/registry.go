package checks

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry = make(map[string]Check)
	mu       sync.RWMutex
)

// Register adds a check to the catalogue. The catalogue is a closed set
// populated from init functions; a duplicate key is a programming error.
func Register(c Check) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[c.Key()]; exists {
		panic(fmt.Sprintf("check %s already registered", c.Key()))
	}
	registry[c.Key()] = c
}

// List returns every registered check sorted by key. Key order is the
// execution and report order, so output is stable across runs.
func List() []Check {
	mu.RLock()
	defer mu.RUnlock()
	var all []Check
	for _, c := range registry {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Key() < all[j].Key()
	})
	return all
}

// Lookup returns the check registered under a key.
func Lookup(key string) (Check, bool) {
	mu.RLock()
	defer mu.RUnlock()
	c, ok := registry[key]
	return c, ok
}

// Keys returns the sorted registered keys.
func Keys() []string {
	list := List()
	keys := make([]string, len(list))
	for i, c := range list {
		keys[i] = c.Key()
	}
	return keys
}

// ValidateKeys rejects selectors naming checks that do not exist, so a typo
// in --skip or --only fails loudly instead of silently selecting nothing.
func ValidateKeys(keys []string) error {
	mu.RLock()
	defer mu.RUnlock()
	for _, key := range keys {
		if _, ok := registry[key]; !ok {
			return fmt.Errorf("unknown check %q (see 'checks list')", key)
		}
	}
	return nil
}
