// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package base

import (
	"github.com/sirupsen/logrus"
)

func (object *LogObject) entry() *logrus.Entry {
	if !object.Initialized {
		logrus.Fatal("LogObject used without initialization")
	}
	return object.logger.WithFields(object.Fields)
}

// Debug :
func (object *LogObject) Debug(args ...interface{}) {
	object.entry().Debug(args...)
}

// Debugf :
func (object *LogObject) Debugf(format string, args ...interface{}) {
	object.entry().Debugf(format, args...)
}

// Info :
func (object *LogObject) Info(args ...interface{}) {
	object.entry().Info(args...)
}

// Infof :
func (object *LogObject) Infof(format string, args ...interface{}) {
	object.entry().Infof(format, args...)
}

// Notice : mapped to Info, logrus has no notice level
func (object *LogObject) Notice(args ...interface{}) {
	object.entry().Info(args...)
}

// Noticef :
func (object *LogObject) Noticef(format string, args ...interface{}) {
	object.entry().Infof(format, args...)
}

// Warn :
func (object *LogObject) Warn(args ...interface{}) {
	object.entry().Warn(args...)
}

// Warnf :
func (object *LogObject) Warnf(format string, args ...interface{}) {
	object.entry().Warnf(format, args...)
}

// Error :
func (object *LogObject) Error(args ...interface{}) {
	object.entry().Error(args...)
}

// Errorf :
func (object *LogObject) Errorf(format string, args ...interface{}) {
	object.entry().Errorf(format, args...)
}

// Fatal :
func (object *LogObject) Fatal(args ...interface{}) {
	object.entry().Fatal(args...)
}

// Fatalf :
func (object *LogObject) Fatalf(format string, args ...interface{}) {
	object.entry().Fatalf(format, args...)
}

// Tracef :
func (object *LogObject) Tracef(format string, args ...interface{}) {
	object.entry().Tracef(format, args...)
}

// Function : function level tracing, mapped to logrus Trace
func (object *LogObject) Function(args ...interface{}) {
	object.entry().Trace(args...)
}

// Functionf :
func (object *LogObject) Functionf(format string, args ...interface{}) {
	object.entry().Tracef(format, args...)
}
