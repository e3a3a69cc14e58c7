// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Command crush compresses, decompresses, and inspects crush containers
// from the command line, dispatching to whichever plugin package has been
// linked in for side effect below.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cosnicolaou/crush"

	_ "github.com/cosnicolaou/crush/plugins/deflate"
	_ "github.com/cosnicolaou/crush/plugins/zstd"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "crush",
		Short:         "compress, decompress and inspect crush containers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return crush.InitPlugins()
		},
	}
	root.AddCommand(
		newCompressCmd(),
		newDecompressCmd(),
		newInspectCmd(),
		newListPluginsCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "crush:", err)
		os.Exit(1)
	}
}
