// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package crush

// inspect parses the header and any metadata without running the plugin,
// unless the caller asked to Verify,
// in which case a full decompress is run (its output discarded) purely to
// populate CRCValid.
func inspect(data []byte, opts *InspectOptions) (*InspectInfo, error) {
	if opts == nil {
		opts = DefaultInspectOptions()
	}

	pc, err := parseContainer(data)
	if err != nil {
		return nil, err
	}

	plugin, ok := pluginByMagic(pc.header.Magic())
	if !ok {
		return nil, &Error{Kind: ErrPluginNotFound, Msg: "no plugin registered for container's magic number"}
	}
	md := plugin.Metadata()

	info := &InspectInfo{
		PluginName:     md.Name,
		PluginVersion:  md.Version,
		OriginalSize:   pc.header.OriginalSize,
		CompressedSize: uint64(len(pc.payload)),
		HasCRC:         pc.hasCRC,
	}
	if pc.meta.HasFilename {
		name := pc.meta.Filename
		info.Filename = &name
	}
	if pc.meta.HasMTime {
		mt := pc.meta.MTime
		info.MTime = &mt
	}
	if pc.meta.HasMode {
		mode := pc.meta.Mode
		info.Mode = &mode
	}

	if opts.Verify {
		dopts := NewDecompressionOptions(
			WithDecompressTimeout(opts.Timeout),
			WithDecompressCancelToken(opts.CancelToken),
			WithDecompressConcurrency(opts.Concurrency),
			WithDecompressVerbose(opts.Verbose),
		)
		_, err := decompress(data, dopts)
		valid := err == nil
		if !valid {
			if cerr, ok := err.(*Error); !ok || cerr.Kind != ErrChecksumMismatch {
				return nil, err
			}
		}
		info.CRCValid = &valid
	}

	return info, nil
}
