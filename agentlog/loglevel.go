// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

// Handle the log level of the tools.

package agentlog

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// DefaultLogLevel applies when nothing is configured.
const DefaultLogLevel = "info"

// SetLevel parses level and applies it to logger. An empty level selects
// DefaultLogLevel.
func SetLevel(logger *logrus.Logger, level string) error {
	if level == "" {
		level = DefaultLogLevel
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("SetLevel: %w", err)
	}
	logger.SetLevel(parsed)
	return nil
}
