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

// Package taos is a driver for TAOS connection URLs of the form
//
//	jdbc:<TAOS|TSDB>://[host][:port][/dbname][?key=value[&key=value]...]
//
// It decides whether a URL belongs to it, resolves the URL and caller
// overrides into a Config, and hands that Config to a ConnectionOpener to
// obtain a Session.
package taos

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/taosdata/taos-adbc"
	"github.com/taosdata/taos-adbc/driver/internal/driverbase"
)

const (
	infoVendorVersion = "2.0"
	infoDriverVersion = "2.0"

	InfoDriverMajorVersion = 2
	InfoDriverMinorVersion = 0

	// InfoDriverJDBCCompliant reports whether the driver passes JDBC
	// compliance (type: bool). It never does.
	InfoDriverJDBCCompliant adbc.InfoCode = 10_000
)

// Driver is an adbc.Driver that also exposes URL acceptance and resolution.
type Driver interface {
	driverbase.Driver
	adbc.URLAcceptor

	ParseURL(candidate string) (ParsedURL, bool)
	Resolve(candidate string, overrides map[string]string) Config
	ResolveParsed(u ParsedURL, overrides map[string]string) Config
	PropertyInfo(candidate string, overrides map[string]string) []DriverPropertyInfo
}

type driverImpl struct {
	driverbase.DriverImplBase

	resolver *Resolver
	opener   ConnectionOpener
}

type driver struct {
	driverbase.Driver
	*Resolver
}

// NewDriver creates a TAOS driver that opens sessions through opener,
// using alloc for Arrow results. Defaults are read from the process
// environment.
func NewDriver(opener ConnectionOpener, alloc memory.Allocator) Driver {
	return NewDriverWithResolver(opener, NewResolver(nil), alloc)
}

// NewDriverWithResolver is NewDriver with a caller supplied Resolver.
func NewDriverWithResolver(opener ConnectionOpener, resolver *Resolver, alloc memory.Allocator) Driver {
	if resolver == nil {
		resolver = NewResolver(nil)
	}
	info := driverbase.DefaultDriverInfo(driverName)
	base := driverbase.NewDriverImplBase(info, alloc)
	for code, value := range map[adbc.InfoCode]any{
		adbc.InfoVendorVersion:  infoVendorVersion,
		adbc.InfoDriverVersion:  infoDriverVersion,
		adbc.InfoVendorSql:      false,
		InfoDriverJDBCCompliant: false,
	} {
		if err := info.RegisterInfoCode(code, value); err != nil {
			panic(err)
		}
	}

	impl := &driverImpl{DriverImplBase: base, resolver: resolver, opener: opener}
	return &driver{Driver: driverbase.NewDriver(impl), Resolver: resolver}
}

// NewDatabase creates a database for the URL in opts[adbc.OptionKeyURI].
// Every other entry of opts is an override.
func (d *driverImpl) NewDatabase(opts map[string]string) (adbc.Database, error) {
	return d.NewDatabaseWithContext(context.Background(), opts)
}

func (d *driverImpl) NewDatabaseWithContext(ctx context.Context, opts map[string]string) (adbc.Database, error) {
	dbBase, err := driverbase.NewDatabaseImplBase(ctx, &d.DriverImplBase)
	if err != nil {
		return nil, err
	}

	db := &databaseImpl{
		DatabaseImplBase: dbBase,
		resolver:         d.resolver,
		opener:           d.opener,
		overrides:        make(map[string]string),
	}

	_, span := db.StartSpan(ctx, "NewDatabase")
	defer span.End()

	if _, ok := opts[adbc.OptionKeyURI]; !ok {
		err := db.ErrorHelper.Errorf(adbc.StatusInvalidArgument, "missing required option '%s'", adbc.OptionKeyURI)
		span.RecordError(err)
		_ = db.Close()
		return nil, err
	}
	if err := db.SetOptions(opts); err != nil {
		span.RecordError(err)
		_ = db.Close()
		return nil, err
	}
	return &database{Database: driverbase.NewDatabase(db), impl: db}, nil
}
