package platform

import (
	"fmt"
	"sort"
)

// Options carries the endpoints a Control implementation needs.
type Options struct {
	// TCLAddr is the OpenOCD TCL RPC address.
	TCLAddr string
}

// Constructor builds the Control for one platform id.
type Constructor func(id string, opts Options) (Control, error)

var registry = map[string]Constructor{}

// Register makes a platform available under id. Called from init.
func Register(id string, ctor Constructor) {
	registry[id] = ctor
}

// New builds the Control registered under id.
func New(id string, opts Options) (Control, error) {
	ctor := registry[id]
	if ctor == nil {
		return nil, fmt.Errorf("unknown platform %q (known: %v)", id, IDs())
	}
	return ctor(id, opts)
}

// IDs lists the registered platform ids.
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
