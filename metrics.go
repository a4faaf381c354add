// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package rawata

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric label values
const (
	opRead     = "read"
	opWrite    = "write"
	opIdentify = "identify"

	resultOK             = "ok"
	resultCommandError   = "command_error"
	resultTransportError = "transport_error"
)

// Metrics counts the commands sent to disks. One Metrics may be shared by
// several Devices.
type Metrics struct {
	commands *prometheus.CounterVec
	bytes    *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rawata_commands_total",
			Help: "ATA commands sent, by operation and result.",
		}, []string{"op", "result"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rawata_bytes_total",
			Help: "Bytes transferred by successful commands, by operation.",
		}, []string{"op"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.commands, m.bytes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(op string, n int, err error) {
	if m == nil {
		return
	}
	result := resultOK
	switch {
	case err == nil:
		m.bytes.WithLabelValues(op).Add(float64(n))
	case errors.As(err, new(*CommandError)):
		result = resultCommandError
	default:
		result = resultTransportError
	}
	m.commands.WithLabelValues(op, result).Inc()
}
