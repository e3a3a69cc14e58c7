// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package container_test

import (
	"strings"
	"testing"

	"github.com/cosnicolaou/crush/internal/container"
)

func TestMetadataRoundTrip(t *testing.T) {
	cases := []container.Metadata{
		{},
		{Filename: "report.txt", HasFilename: true},
		{MTime: 1700000000, HasMTime: true},
		{Mode: 0644, HasMode: true},
		{Filename: "a.bin", HasFilename: true, MTime: 42, HasMTime: true, Mode: 0755, HasMode: true},
	}
	for _, m := range cases {
		buf, err := container.EncodeMetadata(m)
		if err != nil {
			t.Fatalf("EncodeMetadata(%+v): %v", m, err)
		}
		got, n, err := container.DecodeMetadata(buf)
		if err != nil {
			t.Fatalf("DecodeMetadata: %v", err)
		}
		if n != len(buf) {
			t.Errorf("consumed %d bytes, want %d", n, len(buf))
		}
		if got != m {
			t.Errorf("got %+v, want %+v", got, m)
		}
	}
}

func TestMetadataRejectsOversizeFilename(t *testing.T) {
	m := container.Metadata{Filename: strings.Repeat("x", container.MaxFilenameLen+1), HasFilename: true}
	if _, err := container.EncodeMetadata(m); err == nil {
		t.Fatal("expected an error for an oversize filename")
	}
}

func TestMetadataUnknownTagSkipped(t *testing.T) {
	// tag 0x7f, length 2, two bytes of payload, then the real filename tag.
	known, err := container.EncodeMetadata(container.Metadata{Filename: "ok", HasFilename: true})
	if err != nil {
		t.Fatal(err)
	}
	buf := append([]byte{0x7f, 0x02, 0x00, 0xaa, 0xbb}, known...)
	got, n, err := container.DecodeMetadata(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len(buf) {
		t.Errorf("consumed %d, want %d", n, len(buf))
	}
	if !got.HasFilename || got.Filename != "ok" {
		t.Errorf("got %+v, want filename %q", got, "ok")
	}
}

func TestMetadataDuplicateTagLastWins(t *testing.T) {
	first, err := container.EncodeMetadata(container.Metadata{Filename: "first", HasFilename: true})
	if err != nil {
		t.Fatal(err)
	}
	second, err := container.EncodeMetadata(container.Metadata{Filename: "second", HasFilename: true})
	if err != nil {
		t.Fatal(err)
	}
	// drop the terminator from the first record so the second follows it
	// directly, then keep the second's terminator.
	buf := append(first[:len(first)-1], second...)
	got, _, err := container.DecodeMetadata(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Filename != "second" {
		t.Errorf("got %q, want %q", got.Filename, "second")
	}
}

func TestMetadataTruncatedOverrun(t *testing.T) {
	buf := []byte{0xaa, 0xff, 0xff} // tag 0xaa unknown, huge length, nothing after
	if _, _, err := container.DecodeMetadata(buf); err == nil {
		t.Fatal("expected an error for a length field overrunning the input")
	}
}
