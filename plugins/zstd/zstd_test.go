// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package zstd_test

import (
	"bytes"
	"testing"

	"github.com/cosnicolaou/crush"
	"github.com/cosnicolaou/crush/internal/testutil"

	_ "github.com/cosnicolaou/crush/plugins/zstd"
)

func TestMain(m *testing.M) {
	if err := crush.InitPlugins(); err != nil {
		panic(err)
	}
	m.Run()
}

func TestRoundTripAcrossMultipleBlocks(t *testing.T) {
	data := testutil.PredictableRandomData(900 * 1024)
	out, err := crush.CompressWithOptions(data, crush.NewCompressionOptions(crush.WithPlugin("zstd")))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	back, err := crush.Decompress(out)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(back.Data, data) {
		t.Error("round trip mismatch")
	}
}

func TestRoundTripEmptyInput(t *testing.T) {
	out, err := crush.CompressWithOptions(nil, crush.NewCompressionOptions(crush.WithPlugin("zstd")))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	back, err := crush.Decompress(out)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if len(back.Data) != 0 {
		t.Errorf("got %d bytes, want 0", len(back.Data))
	}
}

func TestMetadataMagicNumber(t *testing.T) {
	found := false
	for _, md := range crush.ListPlugins() {
		if md.Name != "zstd" {
			continue
		}
		found = true
		if md.MagicNumber != ([4]byte{0x43, 0x52, 0x01, 0x01}) {
			t.Errorf("got magic %v, want {0x43,0x52,0x01,0x01}", md.MagicNumber)
		}
	}
	if !found {
		t.Fatal("zstd plugin not registered")
	}
}
