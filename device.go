// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package rawata

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/lf-edge/eve/pkg/rawata/ata"
	"github.com/lf-edge/eve/pkg/rawata/base"
	uuid "github.com/satori/go.uuid"
)

// Device is an open whole disk addressed in 512 byte sectors.
type Device struct {
	path    string
	cfg     config
	tr      transport // nil once closed
	logBase *base.LogObject
	log     *base.LogObject
	logKey  string
	metrics *Metrics
}

var handleSeq atomic.Uint64

// Open opens the disk at path, e.g. /dev/sda or /dev/ada0. Failures to
// open the node are *os.PathError values, so errors.Is(err,
// fs.ErrPermission) and errors.Is(err, fs.ErrNotExist) work.
//
// A Device that is dropped without Close is closed by a finalizer.
func Open(path string, opts ...Option) (*Device, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return open(path, cfg, openTransport)
}

func open(path string, cfg config, opener transportOpener) (*Device, error) {
	logBase := cfg.log
	if logBase == nil {
		logBase = base.NewDiscardLogObject()
	}
	logKey := fmt.Sprintf("%s#%d", path, handleSeq.Add(1))
	objUUID, err := uuid.NewV4()
	if err != nil {
		logBase.Warnf("no object id for %s: %v", path, err)
	}
	log := base.NewLogObject(logBase, base.RawDiskLogType, path, objUUID, logKey)

	tr, err := opener(path, cfg)
	if err != nil {
		log.Errorf("open failed: %v", err)
		base.DeleteLogObject(logBase, logKey)
		return nil, err
	}
	d := &Device{
		path:    path,
		cfg:     cfg,
		tr:      tr,
		logBase: logBase,
		log:     log,
		logKey:  logKey,
		metrics: cfg.metrics,
	}
	runtime.SetFinalizer(d, (*Device).release)
	log.Functionf("opened read-only %t timeout %s retries %d",
		cfg.readOnly, cfg.timeout, cfg.retries)
	return d, nil
}

// Path returns the path the Device was opened with.
func (d *Device) Path() string {
	return d.path
}

// ReadOnly reports whether writes are refused.
func (d *Device) ReadOnly() bool {
	return d.cfg.readOnly
}

// Read fills buf with the sectors starting at lba. len(buf) must be a
// non-zero multiple of 512 and at most 65536 sectors.
func (d *Device) Read(lba uint64, buf []byte) error {
	if d.tr == nil {
		return ErrClosed
	}
	cmd, err := ata.NewReadDMAExt(lba, len(buf))
	if err != nil {
		return err
	}
	return d.run(opRead, cmd, buf)
}

// Write writes buf to the sectors starting at lba, with the same length
// rules as Read.
func (d *Device) Write(lba uint64, buf []byte) error {
	if d.tr == nil {
		return ErrClosed
	}
	if d.cfg.readOnly {
		return ErrReadOnly
	}
	cmd, err := ata.NewWriteDMAExt(lba, len(buf))
	if err != nil {
		return err
	}
	return d.run(opWrite, cmd, buf)
}

func (d *Device) run(op string, cmd *ata.Command, buf []byte) error {
	err := d.tr.submit(cmd, buf)
	d.metrics.observe(op, len(buf), err)
	if err != nil {
		d.log.CloneAndAddField("lba", cmd.LBA()).
			AddField("sectors", cmd.Sectors()).
			Errorf("%s failed: %v", cmd.Name(), err)
		return fmt.Errorf("%s %s: %w", cmd, d.path, err)
	}
	return nil
}

// Info runs IDENTIFY DEVICE and decodes the response.
func (d *Device) Info() (*ata.IdentifyDevice, error) {
	if d.tr == nil {
		return nil, ErrClosed
	}
	buf := make([]byte, ata.IdentifySize)
	err := d.tr.identify(buf)
	d.metrics.observe(opIdentify, len(buf), err)
	if err != nil {
		d.log.Errorf("IDENTIFY DEVICE failed: %v", err)
		return nil, fmt.Errorf("IDENTIFY DEVICE %s: %w", d.path, err)
	}
	id := ata.DecodeIdentify(buf)
	d.log.Tracef("identify: %s", id)
	return id, nil
}

// Close releases the disk. It is safe to call more than once and always
// returns nil; a failure to release the handle is only logged.
func (d *Device) Close() error {
	if d.tr == nil {
		return nil
	}
	runtime.SetFinalizer(d, nil)
	d.release()
	return nil
}

func (d *Device) release() {
	if d.tr == nil {
		return
	}
	if err := d.tr.close(); err != nil {
		d.log.Warnf("close failed: %v", err)
	} else {
		d.log.Functionf("closed")
	}
	d.tr = nil
	base.DeleteLogObject(d.logBase, d.logKey)
}
