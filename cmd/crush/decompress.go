// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"cloudeng.io/cmdutil"

	"github.com/cosnicolaou/crush"
)

type decompressFlags struct {
	output      string
	plugin      string
	timeout     time.Duration
	concurrency int
	verbose     bool
}

func newDecompressCmd() *cobra.Command {
	var fl decompressFlags
	cmd := &cobra.Command{
		Use:   "decompress [file]",
		Short: "decompress a crush container from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecompress(fl, args)
		},
	}
	cmd.Flags().StringVarP(&fl.output, "output", "o", "", "output file, omit for stdout")
	cmd.Flags().StringVar(&fl.plugin, "plugin", "", "force routing to a specific plugin by name, overriding the container's magic number")
	cmd.Flags().DurationVar(&fl.timeout, "timeout", 30*time.Second, "deadline for the operation, 0 disables it")
	cmd.Flags().IntVar(&fl.concurrency, "concurrency", runtime.GOMAXPROCS(-1), "block-level concurrency within the chosen plugin")
	cmd.Flags().BoolVar(&fl.verbose, "verbose", false, "verbose trace logging")
	return cmd
}

func runDecompress(fl decompressFlags, args []string) error {
	var input string
	if len(args) == 1 {
		input = args[0]
	}
	data, err := readInput(input)
	if err != nil {
		return err
	}

	tok := crush.NewCancellationToken()
	cmdutil.HandleSignals(tok.Cancel, os.Interrupt)

	dopts := []crush.DecompressOption{
		crush.WithDecompressTimeout(fl.timeout),
		crush.WithDecompressConcurrency(fl.concurrency),
		crush.WithDecompressVerbose(fl.verbose),
		crush.WithDecompressCancelToken(tok),
	}
	if fl.plugin != "" {
		dopts = append(dopts, crush.WithDecompressPlugin(fl.plugin))
	}

	out, err := crush.DecompressWithOptions(data, crush.NewDecompressionOptions(dopts...))
	if err != nil {
		return err
	}
	return writeOutput(fl.output, out.Data)
}
