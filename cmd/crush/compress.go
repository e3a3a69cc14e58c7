// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"cloudeng.io/cmdutil"

	"github.com/cosnicolaou/crush"
)

type compressFlags struct {
	output           string
	plugin           string
	timeout          time.Duration
	concurrency      int
	verbose          bool
	noCRC            bool
	throughputWeight float64
	ratioWeight      float64
	embedName        bool
}

func newCompressCmd() *cobra.Command {
	var fl compressFlags
	cmd := &cobra.Command{
		Use:   "compress [file]",
		Short: "compress a file or stdin into a crush container",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompress(fl, args)
		},
	}
	cmd.Flags().StringVarP(&fl.output, "output", "o", "", "output file, omit for stdout")
	cmd.Flags().StringVar(&fl.plugin, "plugin", "", "force a specific plugin by name, omit to auto-select")
	cmd.Flags().DurationVar(&fl.timeout, "timeout", 30*time.Second, "deadline for the operation, 0 disables it")
	cmd.Flags().IntVar(&fl.concurrency, "concurrency", runtime.GOMAXPROCS(-1), "block-level concurrency within the chosen plugin")
	cmd.Flags().BoolVar(&fl.verbose, "verbose", false, "verbose trace logging")
	cmd.Flags().BoolVar(&fl.noCRC, "no-crc", false, "omit the CRC32 integrity field")
	cmd.Flags().Float64Var(&fl.throughputWeight, "throughput-weight", crush.DefaultScoringWeights.ThroughputWeight, "selector weight given to declared throughput")
	cmd.Flags().Float64Var(&fl.ratioWeight, "ratio-weight", crush.DefaultScoringWeights.RatioWeight, "selector weight given to declared compression ratio")
	cmd.Flags().BoolVar(&fl.embedName, "embed-name", false, "embed the input file's base name as container metadata")
	return cmd
}

func runCompress(fl compressFlags, args []string) error {
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

	copts := []crush.CompressOption{
		crush.WithTimeout(fl.timeout),
		crush.WithConcurrency(fl.concurrency),
		crush.WithVerbose(fl.verbose),
		crush.WithCancelToken(tok),
		crush.WithWeights(crush.ScoringWeights{
			ThroughputWeight: fl.throughputWeight,
			RatioWeight:      fl.ratioWeight,
		}),
	}
	if fl.plugin != "" {
		copts = append(copts, crush.WithPlugin(fl.plugin))
	}
	if fl.noCRC {
		copts = append(copts, crush.WithoutCRC())
	}
	if fl.embedName && input != "" {
		name := filepath.Base(input)
		copts = append(copts, crush.WithFileMetadata(crush.FileMetadata{Filename: &name}))
	}

	out, err := crush.CompressWithOptions(data, crush.NewCompressionOptions(copts...))
	if err != nil {
		return err
	}
	return writeOutput(fl.output, out)
}
