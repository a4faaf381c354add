// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package base

import (
	"fmt"
	"io"

	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

// LogEventType : Predefined object types
type LogEventType string

const (
	// UnknownType : Invalid event typ
	UnknownType LogEventType = ""
	// LogObjectEventType : Used for logging object state when a change happens
	LogObjectEventType LogEventType = "log"
)

// LogObjectType :
type LogObjectType string

const (
	// UnknownLogType : Invalid log type
	UnknownLogType LogObjectType = ""
	// RawDiskLogType : an open raw disk handle
	RawDiskLogType LogObjectType = "raw_disk"
	// DiskInventoryLogType : disk discovery results
	DiskInventoryLogType LogObjectType = "disk_inventory"
)

// LogObject : Holds all key value pairs to be logged later.
type LogObject struct {
	Initialized bool
	Fields      map[string]interface{}
	logger      *logrus.Logger
}

// logObjectMap tracks objects for NewLogObject
var logObjectMap = NewLockedStringMap()

// logSourceObjectMap tracks objects for NewSourceLogObject
var logSourceObjectMap = NewLockedStringMap()

// One object per source so that two handles on the same disk opened from
// different log contexts keep their own fields.
func (object *LogObject) mapKey(key string) string {
	return fmt.Sprintf("%s:%p", key, object)
}

// NewSourceLogObject : create an object with agentName and agentPid
// Since there might be multiple calls to this for the same agent
// we check for an existing one for the agentName
func NewSourceLogObject(logger *logrus.Logger, agentName string, agentPid int) *LogObject {
	value, ok := logSourceObjectMap.Load(agentName)
	if ok {
		object, ok := value.(*LogObject)
		if ok {
			return object
		}
		logrus.Fatalf("NewSourceLogObject: Object found is not of type *LogObject, found: %T",
			value)
	}

	object := &LogObject{
		Initialized: true,
		logger:      logger,
		Fields: map[string]interface{}{
			"source": agentName,
			"pid":    agentPid,
		},
	}
	logSourceObjectMap.Store(agentName, object)
	return object
}

// NewDiscardLogObject returns an initialized object whose output is dropped.
// It is not registered, every call returns a fresh object.
func NewDiscardLogObject() *LogObject {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return &LogObject{
		Initialized: true,
		logger:      logger,
		Fields:      make(map[string]interface{}),
	}
}

// NewLogObject :
// objType -> [MANDATORY] raw disk, disk inventory etc
// objName -> device path or other human readable name
// objUUID -> UUID of the object if present or Zero/uninitialized UUID if not present
// key     -> [MANDATORY] Key used for storing internal data
func NewLogObject(logBase *LogObject, objType LogObjectType, objName string, objUUID uuid.UUID, key string) *LogObject {
	if logBase == nil {
		logrus.Fatalf("No logBase for %s/%s/%s/%s", string(objType),
			objName, objUUID.String(), key)
	}
	if objType == UnknownLogType || len(key) == 0 {
		logrus.Fatal("NewLogObject: objType and key parameters mandatory")
	}
	value, ok := logObjectMap.Load(logBase.mapKey(key))
	if ok {
		object, ok := value.(*LogObject)
		if ok {
			return object
		}
		logrus.Fatalf("NewLogObject: Object found in key map is not of type *LogObject, found: %T", value)
	}

	fields := map[string]interface{}{
		"log_event_type": LogObjectEventType,
		"obj_type":       objType,
		"obj_key":        key,
	}
	if len(objName) != 0 {
		fields["obj_name"] = objName
	}
	if !uuid.Equal(objUUID, uuid.UUID{}) {
		fields["obj_uuid"] = objUUID.String()
	}
	object := &LogObject{
		Initialized: true,
		Fields:      fields,
		logger:      logBase.logger,
	}
	object.Merge(logBase)
	logObjectMap.Store(logBase.mapKey(key), object)
	return object
}

// LookupLogObject : find an object created by NewLogObject for logBase and key
func LookupLogObject(logBase *LogObject, key string) *LogObject {
	value, ok := logObjectMap.Load(logBase.mapKey(key))
	if !ok {
		return nil
	}
	object, ok := value.(*LogObject)
	if !ok {
		logrus.Fatalf("LookupLogObject: Object found in key map is not of type *LogObject, found: %T", value)
	}
	return object
}

// DeleteLogObject : Delete log object from internal map
// logBase must be the same object as for the call to NewLogObject
func DeleteLogObject(logBase *LogObject, key string) {
	if logBase == nil {
		logrus.Fatalf("No logBase for %s", key)
	}
	mapKey := logBase.mapKey(key)
	if _, ok := logObjectMap.Load(mapKey); !ok {
		logBase.Warnf("DeleteLogObject: LogObject with mapKey %s not found in internal map", mapKey)
		return
	}
	logObjectMap.Delete(mapKey)
}

// Logger returns the underlying logrus logger.
func (object *LogObject) Logger() *logrus.Logger {
	return object.logger
}

// AddField : Add a key value pair to be logged
func (object *LogObject) AddField(key string, value interface{}) *LogObject {
	object.Fields[key] = value
	return object
}

// Merge :
// Values of existing fields in destination object will be overwritten with values
// from source object.
func (object *LogObject) Merge(source *LogObject) *LogObject {
	for key, value := range source.Fields {
		object.Fields[key] = value
	}
	return object
}

// Clone : Create a clone from an existing Log object
func (object *LogObject) Clone() *LogObject {
	newLogObject := &LogObject{
		Initialized: true,
		Fields:      make(map[string]interface{}, len(object.Fields)),
		logger:      object.logger,
	}
	for key, value := range object.Fields {
		newLogObject.Fields[key] = value
	}
	return newLogObject
}

// CloneAndAddField : Add key value pair to a cloned log object
func (object *LogObject) CloneAndAddField(key string, value interface{}) *LogObject {
	return object.Clone().AddField(key, value)
}
