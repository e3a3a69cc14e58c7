// Copyright 2024 The Crush Authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosnicolaou/crush"
)

func newListPluginsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-plugins",
		Short: "list every registered plugin and its metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, md := range crush.ListPlugins() {
				fmt.Printf("%-10s v%-8s id=%#02x  throughput=%.0fMB/s  ratio=%.2f  %s\n",
					md.Name, md.Version, md.MagicNumber[3], md.Throughput, md.CompressionRatio, md.Description)
			}
			return nil
		},
	}
}
