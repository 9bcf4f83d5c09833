package driver

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Driver)
)

// Register makes a driver available by name. Backends call it from init.
// It panics if name is registered twice or d is nil.
func Register(name string, d Driver) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if d == nil {
		panic("driver: Register driver is nil")
	}
	if _, dup := registry[name]; dup {
		panic("driver: Register called twice for driver " + name)
	}
	registry[name] = d
}

// Lookup returns the driver registered under name.
func Lookup(name string) (Driver, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	d, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown driver %q (registered: %v)", name, driversLocked())
	}
	return d, nil
}

// Drivers returns the sorted names of the registered drivers.
func Drivers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return driversLocked()
}

func driversLocked() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open looks up the named driver and connects it to location.
func Open(ctx context.Context, name, location string) (Connection, error) {
	d, err := Lookup(name)
	if err != nil {
		return nil, NewError(KindConnect, "", err)
	}
	return d.Connect(ctx, location)
}
