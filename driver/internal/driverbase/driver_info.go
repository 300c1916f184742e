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

package driverbase

import (
	"fmt"
	"sort"

	"github.com/taosdata/taos-adbc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	UnknownVersion               = "(unknown or development build)"
	DefaultInfoDriverADBCVersion = adbc.AdbcVersion1_1_0
)

var infoValueTypeCodeForInfoCode = map[adbc.InfoCode]adbc.InfoValueTypeCode{
	adbc.InfoVendorName:         adbc.InfoValueStringType,
	adbc.InfoVendorVersion:      adbc.InfoValueStringType,
	adbc.InfoVendorArrowVersion: adbc.InfoValueStringType,
	adbc.InfoVendorSql:          adbc.InfoValueBooleanType,
	adbc.InfoDriverName:         adbc.InfoValueStringType,
	adbc.InfoDriverVersion:      adbc.InfoValueStringType,
	adbc.InfoDriverArrowVersion: adbc.InfoValueStringType,
	adbc.InfoDriverADBCVersion:  adbc.InfoValueInt64Type,
}

const (
	// namespace prefix
	otelInfoSemConv attribute.Key = "taos.adbc.info."

	otelSemConvInfoVendorName         attribute.Key = otelInfoSemConv + "vendor.name"
	otelSemConvInfoVendorVersion      attribute.Key = otelInfoSemConv + "vendor.version"
	otelSemConvInfoVendorArrowVersion attribute.Key = otelInfoSemConv + "vendor.arrow.version"
	otelSemConvInfoVendorSql          attribute.Key = otelInfoSemConv + "vendor.sql"
	otelSemConvInfoDriverName         attribute.Key = otelInfoSemConv + "driver.name"
	otelSemConvInfoDriverVersion      attribute.Key = otelInfoSemConv + "driver.version"
	otelSemConvInfoDriverArrowVersion attribute.Key = otelInfoSemConv + "driver.arrow.version"
	otelSemConvInfoDriverAdbcVersion  attribute.Key = otelInfoSemConv + "driver.adbc.version"
)

var otelAttrForInfoCode = map[adbc.InfoCode]attribute.Key{
	adbc.InfoVendorName:         otelSemConvInfoVendorName,
	adbc.InfoVendorVersion:      otelSemConvInfoVendorVersion,
	adbc.InfoVendorArrowVersion: otelSemConvInfoVendorArrowVersion,
	adbc.InfoVendorSql:          otelSemConvInfoVendorSql,
	adbc.InfoDriverName:         otelSemConvInfoDriverName,
	adbc.InfoDriverVersion:      otelSemConvInfoDriverVersion,
	adbc.InfoDriverArrowVersion: otelSemConvInfoDriverArrowVersion,
	adbc.InfoDriverADBCVersion:  otelSemConvInfoDriverAdbcVersion,
}

func DefaultDriverInfo(name string) *DriverInfo {
	return &DriverInfo{
		name: name,
		info: map[adbc.InfoCode]any{
			adbc.InfoVendorName:         name,
			adbc.InfoDriverName:         fmt.Sprintf("ADBC %s Driver - Go", name),
			adbc.InfoDriverVersion:      UnknownVersion,
			adbc.InfoDriverArrowVersion: UnknownVersion,
			adbc.InfoVendorVersion:      UnknownVersion,
			adbc.InfoVendorArrowVersion: UnknownVersion,
			adbc.InfoDriverADBCVersion:  DefaultInfoDriverADBCVersion,
		},
	}
}

// DriverInfo is the static metadata a driver reports through GetInfo. It is
// populated while the driver is constructed and only read afterwards.
type DriverInfo struct {
	name string
	info map[adbc.InfoCode]any
}

func (di *DriverInfo) GetName() string { return di.name }

func (di *DriverInfo) InfoSupportedCodes() []adbc.InfoCode {
	// Any info code the driver knows about is set to some default at init,
	// so the keys of the map are the supported codes.
	codes := make([]adbc.InfoCode, 0, len(di.info))
	for code := range di.info {
		codes = append(codes, code)
	}

	// The ordering is not part of the API contract; sorting keeps output
	// stable for clients and tests.
	sort.SliceStable(codes, func(i, j int) bool {
		return codes[i] < codes[j]
	})
	return codes
}

func (di *DriverInfo) RegisterInfoCode(code adbc.InfoCode, value any) error {
	infoValueTypeCode, isStandardInfoCode := infoValueTypeCodeForInfoCode[code]
	if !isStandardInfoCode {
		di.info[code] = value
		return nil
	}

	// standard codes are type checked on write
	var err error
	switch infoValueTypeCode {
	case adbc.InfoValueStringType:
		if val, ok := value.(string); !ok {
			err = fmt.Errorf("%s: expected info_value %v to be of type %T but found %T", code, value, val, value)
		}
	case adbc.InfoValueInt64Type:
		if val, ok := value.(int64); !ok {
			err = fmt.Errorf("%s: expected info_value %v to be of type %T but found %T", code, value, val, value)
		}
	case adbc.InfoValueBooleanType:
		if val, ok := value.(bool); !ok {
			err = fmt.Errorf("%s: expected info_value %v to be of type %T but found %T", code, value, val, value)
		}
	}

	if err == nil {
		di.info[code] = value
	}

	return err
}

func (di *DriverInfo) GetInfoForInfoCode(code adbc.InfoCode) (any, bool) {
	val, ok := di.info[code]
	return val, ok
}

func SetOTelDriverInfoAttributes(driverInfo *DriverInfo, span trace.Span) {
	span.SetAttributes(driverInfoAttributes(driverInfo)...)
}

func driverInfoAttributes(driverInfo *DriverInfo) []attribute.KeyValue {
	attrs := []attribute.KeyValue{}
	for _, code := range driverInfo.InfoSupportedCodes() {
		attr, ok := otelAttrForInfoCode[code]
		if !ok {
			continue
		}
		switch val, _ := driverInfo.GetInfoForInfoCode(code); v := val.(type) {
		case string:
			attrs = append(attrs, attr.String(v))
		case bool:
			attrs = append(attrs, attr.Bool(v))
		case int64:
			attrs = append(attrs, attr.Int64(v))
		}
	}
	return attrs
}
