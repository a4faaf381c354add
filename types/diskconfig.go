// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// Defaults for DiskConfig
const (
	DefaultTimeoutMs = 5000
	DefaultRetries   = 1
	DefaultLogLevel  = "info"
)

// DiskConfig describes how a raw disk is opened. It is loaded from a YAML
// file by rawatactl and can be handed to rawata.WithConfig.
type DiskConfig struct {
	// Device path, e.g. /dev/sda or /dev/ada0
	Device string `yaml:"device" validate:"omitempty,startswith=/dev/"`
	// TimeoutMs is the per command timeout, independent of transfer size
	TimeoutMs uint32 `yaml:"timeout_ms" validate:"min=1,max=600000"`
	// Retries is handed to the kernel transport, not retried in user space
	Retries  uint8  `yaml:"retries" validate:"max=16"`
	ReadOnly bool   `yaml:"read_only"`
	LogLevel string `yaml:"log_level" validate:"oneof=trace debug info warning warn error fatal panic"`
	// AllowMounted lets rawatactl write to a disk with mounted partitions
	AllowMounted bool `yaml:"allow_mounted"`
}

// DefaultDiskConfig returns the configuration used when no file is given.
func DefaultDiskConfig() DiskConfig {
	return DiskConfig{
		TimeoutMs: DefaultTimeoutMs,
		Retries:   DefaultRetries,
		LogLevel:  DefaultLogLevel,
	}
}

// Timeout returns TimeoutMs as a duration.
func (config DiskConfig) Timeout() time.Duration {
	return time.Duration(config.TimeoutMs) * time.Millisecond
}

var validate = validator.New()

// Validate checks the field constraints.
func (config DiskConfig) Validate() error {
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("invalid disk config: %w", err)
	}
	return nil
}

// ParseDiskConfig decodes YAML on top of DefaultDiskConfig and validates
// the result. Unknown keys are rejected.
func ParseDiskConfig(data []byte) (DiskConfig, error) {
	config := DefaultDiskConfig()
	if err := yaml.UnmarshalStrict(data, &config); err != nil {
		return DiskConfig{}, fmt.Errorf("ParseDiskConfig: %w", err)
	}
	if err := config.Validate(); err != nil {
		return DiskConfig{}, err
	}
	return config, nil
}

// LoadDiskConfig reads and parses the YAML file at path.
func LoadDiskConfig(path string) (DiskConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DiskConfig{}, fmt.Errorf("LoadDiskConfig: %w", err)
	}
	return ParseDiskConfig(data)
}
