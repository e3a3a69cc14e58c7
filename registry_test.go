// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package crush

import "testing"

// TestBuildRegistry exercises validation and indexing against hand-built
// plugin slices, never touching the process-global registered set, so it
// cannot interfere with any other test in the binary that depends on
// InitPlugins succeeding.
func TestBuildRegistry(t *testing.T) {
	t.Run("valid set indexes by name and magic", func(t *testing.T) {
		a := &fakePlugin{name: "a", id: 0x10, throughput: 100, compressionRatio: 0.5}
		b := &fakePlugin{name: "b", id: 0x11, throughput: 200, compressionRatio: 0.3}
		byName, byMagic, list, err := buildRegistry([]Plugin{a, b})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if byName["a"] != Plugin(a) || byName["b"] != Plugin(b) {
			t.Error("byName did not index both plugins")
		}
		if byMagic[0x10] != Plugin(a) || byMagic[0x11] != Plugin(b) {
			t.Error("byMagic did not index both plugins")
		}
		if len(list) != 2 || list[0].Name != "a" || list[1].Name != "b" {
			t.Errorf("got list %+v, want sorted [a, b]", list)
		}
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		a := &fakePlugin{name: "dup", id: 0x10}
		b := &fakePlugin{name: "dup", id: 0x11}
		_, _, _, err := buildRegistry([]Plugin{a, b})
		e, ok := err.(*Error)
		if !ok || e.Kind != ErrPluginDuplicate {
			t.Fatalf("got %v, want a PluginDuplicate error", err)
		}
	})

	t.Run("duplicate magic rejected", func(t *testing.T) {
		a := &fakePlugin{name: "a", id: 0x10}
		b := &fakePlugin{name: "b", id: 0x10}
		_, _, _, err := buildRegistry([]Plugin{a, b})
		e, ok := err.(*Error)
		if !ok || e.Kind != ErrPluginDuplicate {
			t.Fatalf("got %v, want a PluginDuplicate error", err)
		}
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, _, _, err := buildRegistry([]Plugin{&fakePlugin{name: "", id: 0x10}})
		e, ok := err.(*Error)
		if !ok || e.Kind != ErrValidation {
			t.Fatalf("got %v, want a Validation error", err)
		}
	})

	t.Run("malformed magic prefix rejected", func(t *testing.T) {
		bad := &fakePlugin{name: "bad-prefix", id: 0x10}
		md := bad.Metadata()
		md.MagicNumber[0] = 0xff
		_, _, _, err := buildRegistry([]Plugin{&overrideMetadataPlugin{fakePlugin: bad, md: md}})
		e, ok := err.(*Error)
		if !ok || e.Kind != ErrValidation {
			t.Fatalf("got %v, want a Validation error", err)
		}
	})

	t.Run("empty set", func(t *testing.T) {
		byName, byMagic, list, err := buildRegistry(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(byName) != 0 || len(byMagic) != 0 || len(list) != 0 {
			t.Errorf("got non-empty results for an empty plugin set")
		}
	})
}

// TestRegisterAndInitPlugins exercises the process-global path: Register
// plus InitPlugins against whatever is actually linked into this test
// binary (at minimum, this plugin). It uses an id unlikely to collide with
// any real in-tree plugin.
func TestRegisterAndInitPlugins(t *testing.T) {
	Register(&fakePlugin{name: "registry-test-plugin", id: 0xf0, throughput: 50, compressionRatio: 0.4})
	if err := InitPlugins(); err != nil {
		t.Fatalf("InitPlugins: %v", err)
	}
	got, ok := pluginByName("registry-test-plugin")
	if !ok || got.Name() != "registry-test-plugin" {
		t.Errorf("pluginByName(registry-test-plugin) = %v, %v", got, ok)
	}
	got, ok = pluginByMagic([4]byte{0x43, 0x52, 0x01, 0xf0})
	if !ok || got.Name() != "registry-test-plugin" {
		t.Errorf("pluginByMagic(...,0xf0) = %v, %v", got, ok)
	}
	if _, ok := pluginByName("no-such-plugin"); ok {
		t.Error("pluginByName found a plugin that was never registered")
	}
}

// overrideMetadataPlugin lets a single test substitute a malformed
// PluginMetadata without needing a bespoke Plugin implementation.
type overrideMetadataPlugin struct {
	*fakePlugin
	md PluginMetadata
}

func (o *overrideMetadataPlugin) Metadata() PluginMetadata { return o.md }
