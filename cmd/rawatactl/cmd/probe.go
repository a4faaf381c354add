// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/lf-edge/eve/pkg/rawata/ata"
	"github.com/lf-edge/eve/pkg/rawata/hardware"
	"github.com/spf13/cobra"
)

var (
	ataIdentity    = hardware.ATAIdentity
	diskIOCounters = hardware.DiskIOCounters
)

func identityOf(id *ata.IdentifyDevice) hardware.Identity {
	return hardware.Identity{
		Model:    id.ModelNumber(),
		Serial:   id.SerialNumber(),
		Firmware: id.FirmwareRevision(),
		Sectors:  id.Sectors(),
	}
}

// compareIdentity cross-checks the raw IDENTIFY result against the one
// read by the SMART library.
func compareIdentity(w io.Writer, path string, id *ata.IdentifyDevice) error {
	other, err := ataIdentity(path)
	if err != nil {
		fmt.Fprintf(w, "cross-check: skipped: %v\n", err)
		return nil
	}
	if diff := identityOf(id).Mismatch(other); len(diff) != 0 {
		return fmt.Errorf("%s: IDENTIFY results differ: %v", path, diff)
	}
	fmt.Fprintln(w, "cross-check: ok")
	return nil
}

// reportIO prints how many reads the block layer saw since before.
func reportIO(w io.Writer, before hardware.IOCounters, path string) {
	after, err := diskIOCounters(path)
	if err != nil {
		log.Warnf("diskstats %s: %v", path, err)
		return
	}
	delta := after.Sub(before)
	fmt.Fprintf(w, "block layer: %d reads, %d sectors\n", delta.ReadIOs, delta.ReadSectors)
}

// probeCmd represents the probe command
var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check that a disk can be driven with raw ATA commands",
	Long: `
Classify the drive, run IDENTIFY DEVICE, read the first and last sector and
compare the identification with the one returned by the SMART library.
Nothing is written. For example:

rawatactl probe -d /dev/sdb
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		path := diskConfig.Device

		t, err := diskType(path)
		if err != nil {
			fmt.Fprintf(out, "drive type: unknown (%v)\n", err)
		} else {
			fmt.Fprintf(out, "drive type: %s\n", t)
			if !t.SupportsATA() {
				return fmt.Errorf("%s does not take ATA commands", path)
			}
		}

		dev, err := openDevice()
		if err != nil {
			return err
		}
		defer dev.Close()

		id, err := dev.Info()
		if err != nil {
			return err
		}
		if err := printIdentify(out, path, id, false, false); err != nil {
			return err
		}

		before, statsErr := diskIOCounters(path)
		sector := make([]byte, ata.SectorSize)
		if err := dev.Read(0, sector); err != nil {
			return err
		}
		if last := id.Sectors(); last > 0 {
			if err := dev.Read(last-1, sector); err != nil {
				return err
			}
		}
		fmt.Fprintln(out, "read first and last sector: ok")
		if statsErr == nil {
			reportIO(out, before, path)
		}
		return compareIdentity(out, path, id)
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
}
