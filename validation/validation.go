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

// Package validation is a driver-agnostic test suite intended to aid in
// driver development. It provides a series of utilities and defined tests
// that can be used to validate a driver follows the correct and expected
// behavior.
package validation

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/taosdata/taos-adbc"
	"golang.org/x/sync/errgroup"
)

// CheckedClose closes c and fails the test if that returns an error.
func CheckedClose(t testing.TB, c io.Closer) {
	t.Helper()
	require.NoError(t, c.Close())
}

type DriverQuirks interface {
	// Called in SetupTest to initialize anything needed for testing
	SetupDriver(*testing.T) adbc.Driver
	// Called in TearDownTest to clean up anything necessary in between tests
	TearDownDriver(*testing.T, adbc.Driver)
	// Return the list of key/value pairs of options to pass when
	// calling NewDatabase
	DatabaseOptions() map[string]string
	// Expected string metadata responses
	GetMetadata(adbc.InfoCode) interface{}
}

type DatabaseTests struct {
	suite.Suite

	Driver adbc.Driver
	Quirks DriverQuirks
}

func (d *DatabaseTests) SetupTest() {
	d.Driver = d.Quirks.SetupDriver(d.T())
}

func (d *DatabaseTests) TearDownTest() {
	d.Quirks.TearDownDriver(d.T(), d.Driver)
	d.Driver = nil
}

func (d *DatabaseTests) TestNewDatabase() {
	db, err := d.Driver.NewDatabase(d.Quirks.DatabaseOptions())
	d.NoError(err)
	d.NotNil(db)
	d.Implements((*adbc.Database)(nil), db)
	d.NoError(db.Close())
}

func (d *DatabaseTests) TestNewDatabaseWithoutURI() {
	opts := make(map[string]string)
	for k, v := range d.Quirks.DatabaseOptions() {
		if k != adbc.OptionKeyURI {
			opts[k] = v
		}
	}
	_, err := d.Driver.NewDatabase(opts)
	var adbcError adbc.Error
	d.Require().ErrorAs(err, &adbcError)
	d.Equal(adbc.StatusInvalidArgument, adbcError.Code)
}

type ConnectionTests struct {
	suite.Suite

	Driver adbc.Driver
	Quirks DriverQuirks

	DB adbc.Database
}

func (c *ConnectionTests) SetupTest() {
	c.Driver = c.Quirks.SetupDriver(c.T())
	var err error
	c.DB, err = c.Driver.NewDatabase(c.Quirks.DatabaseOptions())
	c.Require().NoError(err)
}

func (c *ConnectionTests) TearDownTest() {
	c.NoError(c.DB.Close())
	c.Quirks.TearDownDriver(c.T(), c.Driver)
	c.Driver = nil
	c.DB = nil
}

func (c *ConnectionTests) TestNewConn() {
	cnxn, err := c.DB.Open(context.Background())
	c.NoError(err)
	c.NotNil(cnxn)

	c.NoError(cnxn.Close())
}

func (c *ConnectionTests) TestCloseConnTwice() {
	cnxn, err := c.DB.Open(context.Background())
	c.NoError(err)
	c.NotNil(cnxn)

	c.NoError(cnxn.Close())
	err = cnxn.Close()
	var adbcError adbc.Error
	c.ErrorAs(err, &adbcError)
	c.Equal(adbc.StatusInvalidState, adbcError.Code)
}

func (c *ConnectionTests) TestConcurrent() {
	cnxn, err := c.DB.Open(context.Background())
	c.Require().NoError(err)
	cnxn2, err := c.DB.Open(context.Background())
	c.Require().NoError(err)

	c.NoError(cnxn.Close())
	c.NoError(cnxn2.Close())
}

func (c *ConnectionTests) TestMetadataGetInfo() {
	ctx := context.Background()
	cnxn, err := c.DB.Open(ctx)
	c.Require().NoError(err)
	defer CheckedClose(c.T(), cnxn)

	info := []adbc.InfoCode{
		adbc.InfoDriverName,
		adbc.InfoDriverVersion,
		adbc.InfoVendorName,
		adbc.InfoVendorVersion,
	}

	rdr, err := cnxn.GetInfo(ctx, info)
	c.Require().NoError(err)
	defer rdr.Release()

	c.Truef(adbc.GetInfoSchema.Equal(rdr.Schema()), "expected: %s\ngot: %s",
		adbc.GetInfoSchema, rdr.Schema())

	rows := 0
	for rdr.Next() {
		rec := rdr.Record()
		codeCol := rec.Column(0).(*array.Uint32)
		valUnion := rec.Column(1).(*array.DenseUnion)
		for i := 0; i < int(rec.NumRows()); i++ {
			code := adbc.InfoCode(codeCol.Value(i))
			child := valUnion.Field(valUnion.ChildID(i))
			// only utf8 values are checked
			c.Equal(c.Quirks.GetMetadata(code), child.(*array.String).Value(int(valUnion.ValueOffset(i))), code.String())
			rows++
		}
	}
	c.Equal(len(info), rows)
}

// URLDriver is the view of a driver the URL tests need.
type URLDriver interface {
	adbc.URLAcceptor
	// ResolveValues resolves candidate and overrides into the flat mapping
	// handed to the connection layer.
	ResolveValues(candidate string, overrides map[string]string) map[string]string
	// DescribeValues lists every recognized option with the value the
	// property listing reports for it.
	DescribeValues(candidate string, overrides map[string]string) map[string]string
}

type URLQuirks interface {
	SetupURLDriver(*testing.T) URLDriver
	// URLs the driver must accept
	AcceptedURLs() []string
	// URLs the driver must reject without an error
	RejectedURLs() []string
	// A URL carrying a query string, and the values it must resolve to
	// without overrides
	SampleURL() string
	SampleValues() map[string]string
	// Keys for which a value in the URL beats an override
	URLPreferredKeys() []string
}

type URLTests struct {
	suite.Suite

	Driver URLDriver
	Quirks URLQuirks
}

func (u *URLTests) SetupTest() {
	u.Driver = u.Quirks.SetupURLDriver(u.T())
}

func (u *URLTests) TearDownTest() {
	u.Driver = nil
}

func (u *URLTests) TestAcceptsURLs() {
	for _, candidate := range u.Quirks.AcceptedURLs() {
		ok, err := u.Driver.AcceptsURL(candidate)
		u.NoError(err, candidate)
		u.True(ok, candidate)
	}
}

func (u *URLTests) TestRejectsURLs() {
	for _, candidate := range u.Quirks.RejectedURLs() {
		ok, err := u.Driver.AcceptsURL(candidate)
		u.NoError(err, candidate)
		u.False(ok, candidate)
	}
}

func (u *URLTests) TestMissingCandidate() {
	_, err := u.Driver.AcceptsURL("")
	var adbcError adbc.Error
	u.Require().ErrorAs(err, &adbcError)
	u.Equal(adbc.StatusInvalidArgument, adbcError.Code)
}

func (u *URLTests) TestSampleURL() {
	values := u.Driver.ResolveValues(u.Quirks.SampleURL(), nil)
	for key, expected := range u.Quirks.SampleValues() {
		u.Equal(expected, values[key], key)
	}
}

func (u *URLTests) TestRejectedURLYieldsOverrides() {
	overrides := map[string]string{"user": "root", "extra": "value"}
	for _, candidate := range u.Quirks.RejectedURLs() {
		u.Equal(overrides, u.Driver.ResolveValues(candidate, overrides), candidate)
	}
}

func (u *URLTests) TestOverridesBeatURL() {
	preferred := make(map[string]bool)
	for _, key := range u.Quirks.URLPreferredKeys() {
		preferred[key] = true
	}

	overrides := make(map[string]string)
	for key := range u.Quirks.SampleValues() {
		overrides[key] = "override-" + key
	}
	values := u.Driver.ResolveValues(u.Quirks.SampleURL(), overrides)
	for key, urlValue := range u.Quirks.SampleValues() {
		if preferred[key] {
			u.Equal(urlValue, values[key], key)
		} else {
			u.Equal(overrides[key], values[key], key)
		}
	}
}

func (u *URLTests) TestDescribeIdempotent() {
	first := u.Driver.DescribeValues(u.Quirks.SampleURL(), nil)
	overrides := make(map[string]string)
	for key, value := range first {
		if value != "" {
			overrides[key] = value
		}
	}
	second := u.Driver.DescribeValues(u.Quirks.SampleURL(), overrides)
	u.Equal(first, second)
}

func (u *URLTests) TestConcurrentResolve() {
	expected := u.Driver.ResolveValues(u.Quirks.SampleURL(), nil)

	var g errgroup.Group
	for i := range 16 {
		g.Go(func() error {
			got := u.Driver.ResolveValues(u.Quirks.SampleURL(), nil)
			if len(got) != len(expected) {
				return fmt.Errorf("worker %d: resolved %d keys, expected %d", i, len(got), len(expected))
			}
			for key, value := range expected {
				if got[key] != value {
					return fmt.Errorf("worker %d: %s = %q, expected %q", i, key, got[key], value)
				}
			}
			return nil
		})
	}
	u.NoError(g.Wait())
}
