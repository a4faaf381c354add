// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/lf-edge/eve/pkg/rawata/ata"
	"github.com/spf13/cobra"
)

var (
	infoJSON bool
	infoRaw  bool
)

// identifySummary is the JSON form of an IDENTIFY DEVICE response
type identifySummary struct {
	Device        string `json:"device"`
	Model         string `json:"model"`
	Serial        string `json:"serial"`
	Firmware      string `json:"firmware"`
	WWN           string `json:"wwn"`
	Sectors       uint64 `json:"sectors"`
	CapacityBytes uint64 `json:"capacity_bytes"`
	LBA48         bool   `json:"lba48"`
	DMA           bool   `json:"dma"`
	RotationRate  uint16 `json:"rotation_rate"`
	MajorVersion  uint16 `json:"major_version"`
	MinorVersion  uint16 `json:"minor_version"`
}

func summarize(path string, id *ata.IdentifyDevice) identifySummary {
	return identifySummary{
		Device:        path,
		Model:         id.ModelNumber(),
		Serial:        id.SerialNumber(),
		Firmware:      id.FirmwareRevision(),
		WWN:           id.WWN(),
		Sectors:       id.Sectors(),
		CapacityBytes: id.Capacity(),
		LBA48:         id.SupportsLBA48(),
		DMA:           id.SupportsDMA(),
		RotationRate:  id.RotationRate(),
		MajorVersion:  id.MajorVersion(),
		MinorVersion:  id.MinorVersion(),
	}
}

func printIdentify(w io.Writer, path string, id *ata.IdentifyDevice, asJSON, raw bool) error {
	s := summarize(path, id)
	switch {
	case raw:
		_, err := io.WriteString(w, hex.Dump(id.Bytes()))
		return err
	case asJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	rotation := "non-rotating"
	if s.RotationRate > 1 {
		rotation = fmt.Sprintf("%d rpm", s.RotationRate)
	}
	_, err := fmt.Fprintf(w, `Device:    %s
Model:     %s
Serial:    %s
Firmware:  %s
WWN:       %s
Sectors:   %d
Capacity:  %d bytes
LBA48:     %t
DMA:       %t
Rotation:  %s
`, s.Device, s.Model, s.Serial, s.Firmware, s.WWN, s.Sectors, s.CapacityBytes, s.LBA48, s.DMA, rotation)
	return err
}

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Run IDENTIFY DEVICE and print the drive identification",
	Long: `
Run IDENTIFY DEVICE and print the drive identification. For example:

rawatactl info
rawatactl info -d /dev/sdb --json
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, err := openDevice()
		if err != nil {
			return err
		}
		defer dev.Close()

		id, err := dev.Info()
		if err != nil {
			return err
		}
		return printIdentify(cmd.OutOrStdout(), dev.Path(), id, infoJSON, infoRaw)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "print JSON")
	infoCmd.Flags().BoolVar(&infoRaw, "raw", false, "hex dump the 512 byte response")
}
