// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package rawata

import (
	"time"

	"github.com/lf-edge/eve/pkg/rawata/ata"
	"github.com/lf-edge/eve/pkg/rawata/base"
	"github.com/lf-edge/eve/pkg/rawata/types"
)

// config holds the settings a Device is opened with
type config struct {
	timeout  time.Duration
	retries  int
	readOnly bool
	log      *base.LogObject
	metrics  *Metrics
}

func defaultConfig() config {
	return config{
		timeout: ata.DefaultTimeout,
		retries: ata.DefaultRetries,
	}
}

func (c config) timeoutMs() uint32 {
	ms := c.timeout.Milliseconds()
	switch {
	case ms < 1:
		return 1
	case ms > int64(^uint32(0)-1):
		return ^uint32(0) - 1
	}
	return uint32(ms)
}

// Option changes how Open sets up a Device.
type Option func(*config)

// WithTimeout overrides the per command timeout. It applies to every
// command whatever its transfer size. Non-positive values are ignored.
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithRetries sets the retry count handed to the kernel transport. The
// library itself never retries. Linux SG_IO has no retry field and ignores
// it.
func WithRetries(retries int) Option {
	return func(c *config) {
		if retries >= 0 {
			c.retries = retries
		}
	}
}

// WithReadOnly opens the disk read-only; Write fails with ErrReadOnly.
func WithReadOnly() Option {
	return func(c *config) {
		c.readOnly = true
	}
}

// WithLogger logs through log. Without it the Device is silent.
func WithLogger(log *base.LogObject) Option {
	return func(c *config) {
		c.log = log
	}
}

// WithMetrics counts commands and bytes in m.
func WithMetrics(m *Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithConfig applies the timeout, retry count and read-only flag of a
// disk configuration file.
func WithConfig(dc types.DiskConfig) Option {
	return func(c *config) {
		WithTimeout(dc.Timeout())(c)
		WithRetries(int(dc.Retries))(c)
		if dc.ReadOnly {
			c.readOnly = true
		}
	}
}
