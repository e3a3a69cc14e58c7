// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cosnicolaou/crush"
)

type inspectFlags struct {
	verify  bool
	timeout time.Duration
}

func newInspectCmd() *cobra.Command {
	var fl inspectFlags
	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "print a crush container's header summary without fully decompressing it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(fl, args)
		},
	}
	cmd.Flags().BoolVar(&fl.verify, "verify", false, "also run the full decompress pipeline to validate the CRC32")
	cmd.Flags().DurationVar(&fl.timeout, "timeout", 30*time.Second, "deadline for --verify, 0 disables it")
	return cmd
}

func runInspect(fl inspectFlags, args []string) error {
	var input string
	if len(args) == 1 {
		input = args[0]
	}
	data, err := readInput(input)
	if err != nil {
		return err
	}

	opts := crush.NewInspectOptions(crush.WithVerify(fl.verify))
	opts.Timeout = fl.timeout

	info, err := crush.InspectWithOptions(data, opts)
	if err != nil {
		return err
	}

	fmt.Printf("plugin:           %s (%s)\n", info.PluginName, info.PluginVersion)
	fmt.Printf("original size:    %d bytes\n", info.OriginalSize)
	fmt.Printf("compressed size:  %d bytes\n", info.CompressedSize)
	fmt.Printf("has crc32:        %t\n", info.HasCRC)
	if info.CRCValid != nil {
		fmt.Printf("crc32 valid:      %t\n", *info.CRCValid)
	}
	if info.Filename != nil {
		fmt.Printf("filename:         %s\n", *info.Filename)
	}
	if info.MTime != nil {
		fmt.Printf("mtime:            %s\n", time.Unix(*info.MTime, 0).UTC())
	}
	if info.Mode != nil {
		fmt.Printf("mode:             %#o\n", *info.Mode)
	}
	return nil
}
