// Package registry provides a global registry of level packs.
// Built-in packs register themselves in init() functions and on-disk packs are
// added at startup, so hosts can list and open packs without hardcoded imports.
package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Pack is what the registry needs to know about a level pack.
type Pack interface {
	// ID returns the unique identifier used on the command line (e.g. "classic").
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// LevelCount returns the number of levels in the pack.
	LevelCount() int
}

// PackInfo contains metadata about a registered pack.
type PackInfo struct {
	ID     string
	Title  string
	Levels int
}

// Factory opens a fresh instance of a pack.
type Factory func() (Pack, error)

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]PackInfo)
	mu        sync.RWMutex
)

// Register adds a pack factory to the registry.
// Typically called from an init() function.
// Panics if a pack with the same ID is already registered or cannot be opened.
func Register(id string, f Factory) {
	if err := TryRegister(id, f); err != nil {
		panic(err.Error())
	}
}

// TryRegister is Register for packs found at runtime; it reports problems
// instead of panicking.
func TryRegister(id string, f Factory) error {
	p, err := f()
	if err != nil {
		return fmt.Errorf("registry: opening pack %q: %w", id, err)
	}

	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		return fmt.Errorf("registry: pack %q already registered", id)
	}

	factories[id] = f
	infos[id] = PackInfo{ID: id, Title: p.Title(), Levels: p.LevelCount()}
	return nil
}

// List returns information about all registered packs, sorted by ID.
func List() []PackInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]PackInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create opens a pack by its ID.
// Returns an error if the pack ID is not registered.
func Create(id string) (Pack, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown pack %q", id)
	}
	return f()
}

// Exists checks if a pack with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
