// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package crush

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cosnicolaou/crush/internal/container"
)

// registerMu guards the compile-time-collected slice of plugins. It is
// distinct from registry.mu below: registration happens once per plugin
// package's init(), before main runs; the registry itself may be rebuilt
// at any time afterwards via InitPlugins.
var (
	registerMu sync.Mutex
	registered []Plugin
)

// Register adds p to the compile-time set of known plugins. It is called
// from a plugin package's init() function: every compilation unit that
// imports a plugin package contributes its plugin to this process-wide
// set purely by being linked in, with no runtime discovery step. Register
// itself is safe to call concurrently, though in practice it only ever
// runs during package initialization.
func Register(p Plugin) {
	registerMu.Lock()
	defer registerMu.Unlock()
	registered = append(registered, p)
}

type registry struct {
	mu      sync.RWMutex
	byName  map[string]Plugin
	byMagic map[byte]Plugin
	list    []PluginMetadata
}

var defaultRegistry = &registry{}

// InitPlugins builds the name- and magic-indexed lookup maps from the
// compile-time registered set. It is idempotent: repeated calls rebuild
// identical maps from the same underlying set, and
// it is safe to call from multiple goroutines (exclusive access is held
// only for the duration of the rebuild).
func InitPlugins() error {
	registerMu.Lock()
	plugins := make([]Plugin, len(registered))
	copy(plugins, registered)
	registerMu.Unlock()

	byName, byMagic, list, err := buildRegistry(plugins)
	if err != nil {
		return err
	}

	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.byName = byName
	defaultRegistry.byMagic = byMagic
	defaultRegistry.list = list
	return nil
}

// buildRegistry is InitPlugins' pure validation-and-indexing step, kept
// separate from the global registered/defaultRegistry state so it can be
// exercised directly against a hand-built plugin slice without disturbing
// whatever the process has actually registered.
func buildRegistry(plugins []Plugin) (byName map[string]Plugin, byMagic map[byte]Plugin, list []PluginMetadata, err error) {
	byName = make(map[string]Plugin, len(plugins))
	byMagic = make(map[byte]Plugin, len(plugins))
	list = make([]PluginMetadata, 0, len(plugins))

	for _, p := range plugins {
		md := p.Metadata()
		if md.Name == "" {
			return nil, nil, nil, &Error{Kind: ErrValidation, Msg: "plugin has empty name"}
		}
		if md.MagicNumber[0] != container.MagicByte0 ||
			md.MagicNumber[1] != container.MagicByte1 ||
			md.MagicNumber[2] != container.Version1 {
			return nil, nil, nil, &Error{Kind: ErrValidation, Msg: fmt.Sprintf("%s: malformed magic number prefix", md.Name)}
		}
		if _, dup := byName[md.Name]; dup {
			return nil, nil, nil, &Error{Kind: ErrPluginDuplicate, Msg: md.Name}
		}
		if _, dup := byMagic[md.MagicNumber[3]]; dup {
			return nil, nil, nil, &Error{Kind: ErrPluginDuplicate, Msg: fmt.Sprintf("plugin id %#02x", md.MagicNumber[3])}
		}
		byName[md.Name] = p
		byMagic[md.MagicNumber[3]] = p
		list = append(list, md)
	}

	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return byName, byMagic, list, nil
}

// pluginByName returns the registered plugin with the given name.
func pluginByName(name string) (Plugin, bool) {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()
	p, ok := defaultRegistry.byName[name]
	return p, ok
}

// pluginByMagic routes on byte 3 of magic after validating the CR/version
// prefix.
func pluginByMagic(magic [4]byte) (Plugin, bool) {
	if magic[0] != container.MagicByte0 || magic[1] != container.MagicByte1 || magic[2] != container.Version1 {
		return nil, false
	}
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()
	p, ok := defaultRegistry.byMagic[magic[3]]
	return p, ok
}

// ListPlugins returns the metadata of every registered plugin, sorted by
// name. Call InitPlugins first; an empty slice is returned if it hasn't
// been called, or if nothing registered.
func ListPlugins() []PluginMetadata {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()
	out := make([]PluginMetadata, len(defaultRegistry.list))
	copy(out, defaultRegistry.list)
	return out
}
