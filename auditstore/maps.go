// Copyright (c) 2020 Siemens AG
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
//
// Author(s): Jonas Plum

package auditstore

import (
	"sync"

	"github.com/qri-io/jsonschema"
)

// typeMap tracks the columns seen per finding type, so views can be
// created on Close.
type typeMap struct {
	sync.RWMutex
	changed bool
	types   map[string]map[string]bool
}

func newTypeMap() *typeMap {
	return &typeMap{
		changed: false,
		types:   map[string]map[string]bool{},
	}
}

func (tm *typeMap) all() map[string]map[string]bool {
	tm.Lock()
	defer tm.Unlock()
	return tm.types
}

func (tm *typeMap) add(name, field string) {
	tm.Lock()
	if _, ok := tm.types[name]; !ok {
		tm.types[name] = map[string]bool{}
	}
	if _, ok := tm.types[name][field]; !ok {
		tm.types[name][field] = true
		tm.changed = true
	}
	tm.Unlock()
}

func (tm *typeMap) addAll(name string, fields map[string]interface{}) {
	tm.Lock()
	if _, ok := tm.types[name]; !ok {
		tm.types[name] = map[string]bool{}
	}
	for field := range fields {
		if _, ok := tm.types[name][field]; !ok {
			tm.types[name][field] = true
			tm.changed = true
		}
	}
	tm.Unlock()
}

type schemaMap struct {
	sync.RWMutex
	schemas map[string]*jsonschema.Schema
}

func newSchemaMap() *schemaMap {
	return &schemaMap{schemas: map[string]*jsonschema.Schema{}}
}

func (sm *schemaMap) load(id string) (*jsonschema.Schema, bool) {
	sm.RLock()
	defer sm.RUnlock()
	schema, ok := sm.schemas[id]
	return schema, ok
}

func (sm *schemaMap) store(id string, schema *jsonschema.Schema) {
	sm.Lock()
	sm.schemas[id] = schema
	sm.Unlock()
}
