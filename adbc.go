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

// Package adbc defines the interfaces shared by the TAOS connection
// driver and its adapters.
//
// A Driver turns a connection URL plus caller supplied options into a
// Database. Opening the Database resolves the final configuration and
// hands it to an external opener, which returns a live session wrapped
// in a Connection.
//
// The interfaces follow the shape of Arrow Database Connectivity so that
// driver metadata can be reported as Arrow records, but statement
// execution is deliberately not part of this API.
//
// In general, it's expected for objects to allow serialized access
// safely from multiple goroutines, but not necessarily concurrent
// access. Specific implementations may allow concurrent access.
package adbc

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

//go:generate go run golang.org/x/tools/cmd/stringer -type Status -linecomment
//go:generate go run golang.org/x/tools/cmd/stringer -type InfoCode -linecomment

// ErrorDetail is additional driver-specific error metadata.
//
// This allows drivers to return custom, structured error information
// that can be optionally parsed by clients, beyond the standard Error
// fields, without having to encode it in the error message.
type ErrorDetail interface {
	// Get an identifier for the detail.
	Key() string
	// Serialize the detail value to a byte array.
	Serialize() ([]byte, error)
}

// TextErrorDetail is an ErrorDetail backed by a human-readable string.
type TextErrorDetail struct {
	Name   string
	Detail string
}

func (d *TextErrorDetail) Key() string {
	return d.Name
}

func (d *TextErrorDetail) Serialize() ([]byte, error) {
	return []byte(d.Detail), nil
}

// Error is the detailed error for an operation
type Error struct {
	// Msg is a string representing a human readable error message
	Msg string
	// Code is the status representing this error
	Code Status
	// VendorCode is a vendor-specific error code, if applicable
	VendorCode int32
	// SqlState is a SQLSTATE error code, if provided, as defined
	// by the SQL:2003 standard. If not set, it will be "\0\0\0\0\0"
	SqlState [5]byte
	// Details is an array of additional driver-specific error details.
	Details []ErrorDetail
}

func (e Error) Error() string {
	if e.SqlState[0] != 0 {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Msg, string(e.SqlState[:]))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Status represents an error code for operations that may fail
type Status uint8

const (
	// No Error
	StatusOK Status = iota // OK
	// An unknown error occurred.
	StatusUnknown // Unknown
	// The operation is not implemented or supported.
	StatusNotImplemented // Not Implemented
	// A requested resource was not found.
	StatusNotFound // Not Found
	// A requested resource already exists
	StatusAlreadyExists // Already Exists
	// The arguments are invalid, likely a programming error.
	//
	// For instance, they may be of the wrong format, or out of range.
	StatusInvalidArgument // Invalid Argument
	// The preconditions for the operation are not met, likely a
	// programming error.
	//
	// For instance, the object may be uninitialized, or may not
	// have been fully configured.
	StatusInvalidState // Invalid State
	// Invalid data was processed (not a programming error)
	StatusInvalidData // Invalid Data
	// The database's integrity was affected.
	StatusIntegrity // Integrity Issue
	// An error internal to the driver or database occurred.
	StatusInternal // Internal
	// An I/O error occurred.
	//
	// For instance a remote service may be unavailable.
	StatusIO // I/O
	// The operation was cancelled, not due to a timeout.
	StatusCancelled // Cancelled
	// The operation was cancelled due to a timeout.
	StatusTimeout // Timeout
	// Authentication failed.
	StatusUnauthenticated // Unauthenticated
	// The client is not authorized to perform the given operation.
	StatusUnauthorized // Unauthorized
)

// AdbcVersion1_1_0 is reported under InfoDriverADBCVersion.
const AdbcVersion1_1_0 int64 = 1_001_000

// Canonical option keys
const (
	// The connection URL handed to Driver.NewDatabase.
	OptionKeyURI      = "uri"
	OptionKeyUsername = "username"
	OptionKeyPassword = "password"
	// EXPERIMENTAL. Sets/Gets the trace parent on OpenTelemetry traces
	OptionKeyTelemetryTraceParent = "adbc.telemetry.trace_parent"
)

// EXPERIMENTAL. Traces Telemetry exporter option type
type OptionTelemetryExporter string

// EXPERIMENTAL. Traces Telemetry exporter options
const (
	TelemetryExporterNone     OptionTelemetryExporter = "none"
	TelemetryExporterOtlp     OptionTelemetryExporter = "otlp"
	TelemetryExporterConsole  OptionTelemetryExporter = "console"
	TelemetryExporterAdbcFile OptionTelemetryExporter = "adbcfile"
)

// Driver is the entry point for the interface. It is similar to
// [database/sql.Driver] taking a map of keys and values as options
// to initialize a [Connection] to the database.
//
// Any connection specific options should be set using SetOptions before
// calling Open.
//
// The provided [context.Context] is for dialing purposes only.
// A default timeout should still be used when dialing as a connection
// pool may call Connect asynchronously to any query.
type Driver interface {
	NewDatabase(opts map[string]string) (Database, error)
}

type Database interface {
	SetOptions(map[string]string) error
	Open(ctx context.Context) (Connection, error)

	// Close closes this database and releases any associated resources.
	Close() error
}

type InfoCode uint32

const (
	// The database vendor/product name (e.g. the server name)
	// (type: utf8)
	InfoVendorName InfoCode = 0 // VendorName
	// The database vendor/product version (type: utf8)
	InfoVendorVersion InfoCode = 1 // VendorVersion
	// The database vendor/product Arrow library version (type: utf8)
	InfoVendorArrowVersion InfoCode = 2 // VendorArrowVersion
	// Indicates whether SQL queries are supported (type: bool).
	InfoVendorSql InfoCode = 3 // VendorSql
	// The driver name (type: utf8)
	InfoDriverName InfoCode = 100 // DriverName
	// The driver version (type: utf8)
	InfoDriverVersion InfoCode = 101 // DriverVersion
	// The driver Arrow library version (type: utf8)
	InfoDriverArrowVersion InfoCode = 102 // DriverArrowVersion
	// The driver ADBC API version (type: int64)
	InfoDriverADBCVersion InfoCode = 103 // DriverADBCVersion
)

type InfoValueTypeCode = arrow.UnionTypeCode

const (
	InfoValueStringType  InfoValueTypeCode = 0
	InfoValueBooleanType InfoValueTypeCode = 1
	InfoValueInt64Type   InfoValueTypeCode = 2
)

// Connection is an active session with the database engine.
//
// Connections are not required to be safely accessible by concurrent
// goroutines.
type Connection interface {
	// GetInfo returns metadata about the database/driver.
	//
	// The result is an Arrow dataset with the following schema:
	//
	//    Field Name                  | Field Type
	//    ----------------------------|-----------------------------
	//    info_name                   | uint32 not null
	//    info_value                  | INFO_SCHEMA
	//
	// INFO_SCHEMA is a dense union with members:
	//
	//    Field Name (Type Code)      | Field Type
	//    ----------------------------|-----------------------------
	//    string_value (0)            | utf8
	//    bool_value (1)              | bool
	//    int64_value (2)             | int64
	//    int32_bitmask (3)           | int32
	//    string_list (4)             | list<utf8>
	//    int32_to_int32_list_map (5) | map<int32, list<int32>>
	//
	// If no info codes are requested, every code the driver knows about
	// is returned.
	GetInfo(ctx context.Context, infoCodes []InfoCode) (array.RecordReader, error)

	// Close closes this connection and releases any associated resources.
	Close() error
}

// PostInitOptions is an optional interface which can be implemented by
// drivers which allow modifying and setting options after initializing
// a database or connection.
type PostInitOptions interface {
	SetOption(key, value string) error
}

// GetSetOptions is a PostInitOptions that also supports getting and setting option values of different types.
//
// GetOption functions should return an error with StatusNotFound for unsupported options.
// SetOption functions should return an error with StatusNotImplemented for unsupported options.
type GetSetOptions interface {
	PostInitOptions

	SetOptionBytes(key string, value []byte) error
	SetOptionInt(key string, value int64) error
	SetOptionDouble(key string, value float64) error
	GetOption(key string) (string, error)
	GetOptionBytes(key string) ([]byte, error)
	GetOptionInt(key string) (int64, error)
	GetOptionDouble(key string) (float64, error)
}
