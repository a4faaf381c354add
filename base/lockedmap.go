// Copyright (c) 2024 Zededa, Inc.
// SPDX-License-Identifier: Apache-2.0

package base

import "sync"

// LockedStringMap is a string keyed map safe for concurrent use.
type LockedStringMap struct {
	sync.RWMutex
	m map[string]interface{}
}

// NewLockedStringMap returns an empty map.
func NewLockedStringMap() *LockedStringMap {
	return &LockedStringMap{m: make(map[string]interface{})}
}

// Load returns the value stored under key.
func (lsm *LockedStringMap) Load(key string) (interface{}, bool) {
	lsm.RLock()
	defer lsm.RUnlock()
	value, ok := lsm.m[key]
	return value, ok
}

// Store sets the value for key.
func (lsm *LockedStringMap) Store(key string, value interface{}) {
	lsm.Lock()
	lsm.m[key] = value
	lsm.Unlock()
}

// Delete removes key.
func (lsm *LockedStringMap) Delete(key string) {
	lsm.Lock()
	delete(lsm.m, key)
	lsm.Unlock()
}

// Len returns the number of stored keys.
func (lsm *LockedStringMap) Len() int {
	lsm.RLock()
	defer lsm.RUnlock()
	return len(lsm.m)
}
