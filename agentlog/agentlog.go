// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package agentlog

import (
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/lf-edge/eve/pkg/rawata/base"
	"github.com/sirupsen/logrus"
)

// SourceHook is used to add source and pid if not already set
type SourceHook struct {
	agentName string
	agentPid  int
}

// Fire adds source and pid if not already set
func (hook *SourceHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["source"]; !ok {
		entry.Data["source"] = hook.agentName
	}
	if _, ok := entry.Data["pid"]; !ok {
		entry.Data["pid"] = hook.agentPid
	}
	return nil
}

// Levels installs the SourceHook for all levels
func (hook *SourceHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// SkipCallerHook is used to skip to the "base" package entry in the stack
type SkipCallerHook struct {
}

// Fire does the skipping
func (hook *SkipCallerHook) Fire(entry *logrus.Entry) error {
	const maximumCallerDepth = 25
	if entry.Caller == nil {
		return nil
	}
	pcs := make([]uintptr, maximumCallerDepth)
	depth := runtime.Callers(0, pcs)
	frames := runtime.CallersFrames(pcs[:depth])

	next := false
	for f, again := frames.Next(); again; f, again = frames.Next() {
		if f == *entry.Caller {
			if strings.HasSuffix(getPackageName(f.Function), "/base") {
				next = true
				continue
			}
			break
		}
		if next {
			entry.Caller = &f
			break
		}
	}
	return nil
}

// Levels installs the SkipCallerHook for all levels
func (hook *SkipCallerHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// getPackageName reduces a fully qualified function name to the package name
// From logrus
func getPackageName(f string) string {
	for {
		lastPeriod := strings.LastIndex(f, ".")
		lastSlash := strings.LastIndex(f, "/")
		if lastPeriod > lastSlash {
			f = f[:lastPeriod]
		} else {
			break
		}
	}
	return f
}

// Init returns a logger writing JSON to stderr and the source log object
// for agentName.
func Init(agentName string) (*logrus.Logger, *base.LogObject) {
	return InitWithOutput(agentName, os.Stderr)
}

// InitWithOutput is Init with the log output redirected to w.
func InitWithOutput(agentName string, w io.Writer) (*logrus.Logger, *base.LogObject) {
	agentPid := os.Getpid()
	logger := logrus.New()
	// Report nano timestamps
	formatter := logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	}
	logger.SetFormatter(&formatter)
	logger.SetReportCaller(true)
	logger.SetOutput(w)

	logger.AddHook(&SourceHook{agentName: agentName, agentPid: agentPid})
	logger.AddHook(new(SkipCallerHook))

	log := base.NewSourceLogObject(logger, agentName, agentPid)
	return logger, log
}
