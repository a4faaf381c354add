// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/lf-edge/eve/pkg/rawata"
	"github.com/lf-edge/eve/pkg/rawata/agentlog"
	"github.com/lf-edge/eve/pkg/rawata/base"
	"github.com/lf-edge/eve/pkg/rawata/types"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const agentName = "rawatactl"

var (
	cfgFile      string
	device       string
	timeoutMs    uint32
	retries      uint8
	readOnly     bool
	logLevel     string
	allowMounted bool
	showStats    bool

	// set up by PersistentPreRunE
	diskConfig types.DiskConfig
	logger     *logrus.Logger
	log        *base.LogObject
	registry   *prometheus.Registry
	metrics    *rawata.Metrics
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   agentName,
	Short: "Raw ATA disk access bypassing the page cache",
	Long: `
Send ATA commands straight to a SATA disk: IDENTIFY DEVICE, READ DMA EXT and
WRITE DMA EXT. Linux uses SG_IO (and HDIO_DRIVE_CMD for IDENTIFY), FreeBSD
uses CAM.

Settings come from a YAML file (--config, default $HOME/.rawatactl.yaml when
present) and are overridden by flags.
`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if showStats {
			printStats(cmd)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rawatactl.yaml)")
	flags.StringVarP(&device, "device", "d", "", "disk to open (default "+defaultDevice()+")")
	flags.Uint32Var(&timeoutMs, "timeout", types.DefaultTimeoutMs, "per command timeout in milliseconds")
	flags.Uint8Var(&retries, "retries", types.DefaultRetries, "retry count handed to the kernel")
	flags.BoolVar(&readOnly, "read-only", false, "open the disk read-only")
	flags.StringVarP(&logLevel, "log-level", "l", types.DefaultLogLevel, "log level")
	flags.BoolVar(&allowMounted, "allow-mounted", false, "allow writes to a disk with mounted partitions")
	flags.BoolVar(&showStats, "stats", false, "print command counters on exit")
}

// defaultDevice is the first SATA disk as named by the OS
func defaultDevice() string {
	if runtime.GOOS == "freebsd" {
		return "/dev/ada0"
	}
	return "/dev/sda"
}

func setup(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	diskConfig = config

	logger, log = agentlog.InitWithOutput(agentName, cmd.ErrOrStderr())
	if err := agentlog.SetLevel(logger, diskConfig.LogLevel); err != nil {
		return err
	}

	registry = prometheus.NewRegistry()
	metrics, err = rawata.NewMetrics(registry)
	return err
}

// loadConfig reads the config file, if any, and applies the flags the
// user set on top of it.
func loadConfig(cmd *cobra.Command) (types.DiskConfig, error) {
	config := types.DefaultDiskConfig()
	path, explicit, err := configPath()
	if err != nil {
		return config, err
	}
	if path != "" {
		loaded, err := types.LoadDiskConfig(path)
		switch {
		case err == nil:
			config = loaded
		case !explicit && errors.Is(err, fs.ErrNotExist):
		default:
			return config, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("device") {
		config.Device = device
	}
	if flags.Changed("timeout") {
		config.TimeoutMs = timeoutMs
	}
	if flags.Changed("retries") {
		config.Retries = retries
	}
	if flags.Changed("read-only") {
		config.ReadOnly = readOnly
	}
	if flags.Changed("log-level") {
		config.LogLevel = logLevel
	}
	if flags.Changed("allow-mounted") {
		config.AllowMounted = allowMounted
	}
	if config.Device == "" {
		config.Device = defaultDevice()
	}
	return config, config.Validate()
}

func configPath() (path string, explicit bool, err error) {
	if cfgFile != "" {
		path, err = homedir.Expand(cfgFile)
		return path, true, err
	}
	home, err := homedir.Dir()
	if err != nil {
		// no home, no default file
		return "", false, nil
	}
	return filepath.Join(home, "."+agentName+".yaml"), false, nil
}

func openDevice() (*rawata.Device, error) {
	return rawata.Open(diskConfig.Device,
		rawata.WithConfig(diskConfig),
		rawata.WithLogger(log),
		rawata.WithMetrics(metrics))
}

func printStats(cmd *cobra.Command) {
	families, err := registry.Gather()
	if err != nil {
		log.Errorf("gather metrics: %v", err)
		return
	}
	out := cmd.ErrOrStderr()
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := ""
			for _, l := range m.GetLabel() {
				labels += fmt.Sprintf(" %s=%s", l.GetName(), l.GetValue())
			}
			fmt.Fprintf(out, "%s%s %.0f\n", mf.GetName(), labels, m.GetCounter().GetValue())
		}
	}
}
