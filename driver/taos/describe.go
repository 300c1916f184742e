// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package taos

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/taosdata/taos-adbc"
)

// DriverPropertyInfo describes one recognized option together with the
// value it would take for a given URL and override set.
type DriverPropertyInfo struct {
	Name string
	// Value is the resolved value, else the built-in default, else empty.
	Value string
	// Set is true when Value was resolved rather than defaulted.
	Set         bool
	Required    bool
	Description string
}

// PropertyInfo resolves candidate with overrides and lists every recognized
// option in table order. It is meant for introspection, not for connecting.
func (r *Resolver) PropertyInfo(candidate string, overrides map[string]string) []DriverPropertyInfo {
	cfg := r.Resolve(candidate, overrides)

	infos := make([]DriverPropertyInfo, 0, len(recognizedOptions))
	for _, opt := range recognizedOptions {
		info := DriverPropertyInfo{
			Name:        opt.Key,
			Value:       opt.Default,
			Required:    opt.Required,
			Description: opt.Description,
		}
		if v, ok := cfg.Get(opt.Key); ok {
			info.Value, info.Set = v, true
		}
		infos = append(infos, info)
	}
	return infos
}

// PropertyInfoRecord renders infos with adbc.PropertyInfoSchema. An option
// without a resolved value or default gets a null option_value. The caller
// releases the record.
func PropertyInfoRecord(alloc memory.Allocator, infos []DriverPropertyInfo) arrow.Record {
	if alloc == nil {
		alloc = memory.DefaultAllocator
	}
	bldr := array.NewRecordBuilder(alloc, adbc.PropertyInfoSchema)
	defer bldr.Release()
	bldr.Reserve(len(infos))

	nameBldr := bldr.Field(0).(*array.StringBuilder)
	valueBldr := bldr.Field(1).(*array.StringBuilder)
	requiredBldr := bldr.Field(2).(*array.BooleanBuilder)
	descBldr := bldr.Field(3).(*array.StringBuilder)

	for _, info := range infos {
		nameBldr.Append(info.Name)
		if info.Set || info.Value != "" {
			valueBldr.Append(info.Value)
		} else {
			valueBldr.AppendNull()
		}
		requiredBldr.Append(info.Required)
		descBldr.Append(info.Description)
	}
	return bldr.NewRecord()
}
