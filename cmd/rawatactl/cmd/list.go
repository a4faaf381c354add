// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/lf-edge/eve/pkg/rawata/base"
	"github.com/lf-edge/eve/pkg/rawata/hardware"
	"github.com/lf-edge/eve/pkg/rawata/types"
	"github.com/spf13/cobra"
)

var listJSON bool

func printDisks(w io.Writer, disks []types.DiskInfo, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(disks)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tSIZE\tMODEL\tSERIAL\tCONTROLLER\tMOUNTED")
	for _, d := range disks {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%t\n",
			d.Path, d.SizeBytes, d.Model, d.SerialNumber, d.Controller, d.Mounted())
	}
	return tw.Flush()
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the disks of the system",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		disks, err := hardware.ListDisks()
		if err != nil {
			return err
		}
		log.CloneAndAddField("obj_type", base.DiskInventoryLogType).
			Functionf("found %d disks", len(disks))
		return printDisks(cmd.OutOrStdout(), disks, listJSON)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON")
}
