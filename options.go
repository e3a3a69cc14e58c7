// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package crush

import (
	"runtime"
	"time"
)

// defaultTimeout is the default deadline for compress and decompress
// operations. A timeout of zero disables the deadline.
const defaultTimeout = 30 * time.Second

// FileMetadata is the optional original-file metadata a caller may embed
// in (or read back out of) a container. Each field is a pointer so its
// absence is distinguishable from its zero value, mirroring the TLV
// block's own optionality.
type FileMetadata struct {
	Filename *string
	MTime    *int64
	Mode     *uint32
}

func (fm *FileMetadata) isEmpty() bool {
	return fm == nil || (fm.Filename == nil && fm.MTime == nil && fm.Mode == nil)
}

// CompressionOptions configures a single compress call.
type CompressionOptions struct {
	// PluginName, if non-empty, overrides the selector.
	PluginName string
	// Weights controls selection when PluginName is empty.
	Weights ScoringWeights
	// Timeout is the deadline for the whole operation; zero disables it.
	Timeout time.Duration
	// FileMetadata, if non-nil, is embedded in the container.
	FileMetadata *FileMetadata
	// CancelToken, if non-nil, is an externally owned cancellation token
	// shared with the caller (e.g. a CLI's signal handler).
	CancelToken *CancellationToken
	// Concurrency bounds how many blocks a plugin may process at once
	// internally. Defaults to runtime.GOMAXPROCS(-1).
	Concurrency int
	// Verbose makes the compress pipeline log the selected plugin via
	// log.Printf; it is not passed to the plugin or the executor.
	Verbose bool
	// DisableCRC turns off the default CRC32 computation; exposed mainly
	// for testing the no-CRC decode paths cheaply.
	DisableCRC bool
}

// DefaultCompressionOptions returns the package defaults: 30s timeout, CRC
// on, default scoring weights, GOMAXPROCS concurrency.
func DefaultCompressionOptions() *CompressionOptions {
	return &CompressionOptions{
		Weights:     DefaultScoringWeights,
		Timeout:     defaultTimeout,
		Concurrency: runtime.GOMAXPROCS(-1),
	}
}

// CompressOption mutates a CompressionOptions built by
// NewCompressionOptions.
type CompressOption func(*CompressionOptions)

// WithPlugin overrides automatic plugin selection.
func WithPlugin(name string) CompressOption {
	return func(o *CompressionOptions) { o.PluginName = name }
}

// WithWeights sets the scoring weights used when no plugin is named.
func WithWeights(w ScoringWeights) CompressOption {
	return func(o *CompressionOptions) { o.Weights = w }
}

// WithTimeout sets the operation deadline; zero disables it.
func WithTimeout(d time.Duration) CompressOption {
	return func(o *CompressionOptions) { o.Timeout = d }
}

// WithFileMetadata embeds fm in the produced container.
func WithFileMetadata(fm FileMetadata) CompressOption {
	return func(o *CompressionOptions) { o.FileMetadata = &fm }
}

// WithCancelToken shares an externally owned token with the operation.
func WithCancelToken(t *CancellationToken) CompressOption {
	return func(o *CompressionOptions) { o.CancelToken = t }
}

// WithConcurrency bounds internal block-level parallelism.
func WithConcurrency(n int) CompressOption {
	return func(o *CompressionOptions) { o.Concurrency = n }
}

// WithVerbose enables trace logging.
func WithVerbose(v bool) CompressOption {
	return func(o *CompressionOptions) { o.Verbose = v }
}

// WithoutCRC disables CRC32 computation on the produced container.
func WithoutCRC() CompressOption {
	return func(o *CompressionOptions) { o.DisableCRC = true }
}

// NewCompressionOptions builds a *CompressionOptions starting from the
// defaults and applying opts in order.
func NewCompressionOptions(opts ...CompressOption) *CompressionOptions {
	o := DefaultCompressionOptions()
	for _, fn := range opts {
		fn(o)
	}
	return o
}

func (o *CompressionOptions) validate() error {
	if o == nil {
		return nil
	}
	if o.Timeout < 0 {
		return &Error{Kind: ErrValidation, Msg: "timeout must not be negative"}
	}
	if err := o.Weights.validate(); err != nil && o.PluginName == "" {
		return err
	}
	if o.FileMetadata != nil && o.FileMetadata.Filename != nil && len(*o.FileMetadata.Filename) > 255 {
		return &Error{Kind: ErrValidation, Msg: "filename exceeds 255 bytes"}
	}
	return nil
}

// DecompressionOptions configures a single decompress call. Unlike
// compression, there is no scoring step: the plugin is either named
// explicitly or determined by the container's magic number.
type DecompressionOptions struct {
	// PluginName, if non-empty, overrides magic-based routing.
	PluginName string
	// Timeout is the deadline for the whole operation; zero disables it.
	Timeout time.Duration
	// CancelToken, if non-nil, is an externally owned cancellation token.
	CancelToken *CancellationToken
	// Concurrency bounds internal block-level parallelism.
	Concurrency int
	// Verbose enables trace logging.
	Verbose bool
}

// DefaultDecompressionOptions returns the package defaults.
func DefaultDecompressionOptions() *DecompressionOptions {
	return &DecompressionOptions{
		Timeout:     defaultTimeout,
		Concurrency: runtime.GOMAXPROCS(-1),
	}
}

// DecompressOption mutates a DecompressionOptions built by
// NewDecompressionOptions.
type DecompressOption func(*DecompressionOptions)

// WithDecompressPlugin overrides magic-based plugin routing.
func WithDecompressPlugin(name string) DecompressOption {
	return func(o *DecompressionOptions) { o.PluginName = name }
}

// WithDecompressTimeout sets the operation deadline; zero disables it.
func WithDecompressTimeout(d time.Duration) DecompressOption {
	return func(o *DecompressionOptions) { o.Timeout = d }
}

// WithDecompressCancelToken shares an externally owned token with the
// operation.
func WithDecompressCancelToken(t *CancellationToken) DecompressOption {
	return func(o *DecompressionOptions) { o.CancelToken = t }
}

// WithDecompressConcurrency bounds internal block-level parallelism.
func WithDecompressConcurrency(n int) DecompressOption {
	return func(o *DecompressionOptions) { o.Concurrency = n }
}

// WithDecompressVerbose enables trace logging.
func WithDecompressVerbose(v bool) DecompressOption {
	return func(o *DecompressionOptions) { o.Verbose = v }
}

// NewDecompressionOptions builds a *DecompressionOptions starting from the
// defaults and applying opts in order.
func NewDecompressionOptions(opts ...DecompressOption) *DecompressionOptions {
	o := DefaultDecompressionOptions()
	for _, fn := range opts {
		fn(o)
	}
	return o
}

func (o *DecompressionOptions) validate() error {
	if o == nil {
		return nil
	}
	if o.Timeout < 0 {
		return &Error{Kind: ErrValidation, Msg: "timeout must not be negative"}
	}
	return nil
}

// InspectOptions configures an inspect call. Verify, when true, runs the
// full decompress pipeline (discarding its output) so InspectInfo.CRCValid
// can be populated.
type InspectOptions struct {
	Verify      bool
	Timeout     time.Duration
	CancelToken *CancellationToken
	Concurrency int
	Verbose     bool
}

// DefaultInspectOptions returns the package defaults: no verification.
func DefaultInspectOptions() *InspectOptions {
	return &InspectOptions{
		Timeout:     defaultTimeout,
		Concurrency: runtime.GOMAXPROCS(-1),
	}
}

// InspectOption mutates an InspectOptions built by NewInspectOptions.
type InspectOption func(*InspectOptions)

// WithVerify turns on full CRC verification during inspect.
func WithVerify(v bool) InspectOption {
	return func(o *InspectOptions) { o.Verify = v }
}

// NewInspectOptions builds an *InspectOptions starting from the defaults
// and applying opts in order.
func NewInspectOptions(opts ...InspectOption) *InspectOptions {
	o := DefaultInspectOptions()
	for _, fn := range opts {
		fn(o)
	}
	return o
}

// InspectInfo is the header-level summary inspect returns without fully
// decompressing.
type InspectInfo struct {
	PluginName     string
	PluginVersion  string
	OriginalSize   uint64
	CompressedSize uint64
	HasCRC         bool
	// CRCValid is populated only when the caller requests full
	// verification via InspectOptions.Verify.
	CRCValid *bool
	Filename *string
	MTime    *int64
	Mode     *uint32
}

// DecompressOutput is what decompress returns: the decompressed bytes
// plus any embedded file metadata.
type DecompressOutput struct {
	Data     []byte
	Metadata *FileMetadata
}
