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

package taos_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/taosdata/taos-adbc"
	"github.com/taosdata/taos-adbc/driver/taos"
	"github.com/taosdata/taos-adbc/validation"
	"golang.org/x/sync/errgroup"
)

const testURL = "jdbc:TAOS://localhost:6030/log?user=root&password=taosdata"

type mockSession struct {
	mock.Mock
}

func (s *mockSession) Close() error {
	return s.Called().Error(0)
}

type mockOpener struct {
	mock.Mock
}

func (o *mockOpener) Open(ctx context.Context, cfg taos.Config) (taos.Session, error) {
	args := o.Called(ctx, cfg)
	sess, _ := args.Get(0).(taos.Session)
	return sess, args.Error(1)
}

// nopSession is a session that is always closed successfully.
type nopSession struct{}

func (nopSession) Close() error { return nil }

var nopOpener = taos.OpenerFunc(func(context.Context, taos.Config) (taos.Session, error) {
	return nopSession{}, nil
})

type TaosQuirks struct {
	mem *memory.CheckedAllocator
}

func (q *TaosQuirks) SetupDriver(t *testing.T) adbc.Driver {
	q.mem = memory.NewCheckedAllocator(memory.DefaultAllocator)
	return taos.NewDriverWithResolver(nopOpener, taos.NewResolver(emptyEnv), q.mem)
}

func (q *TaosQuirks) TearDownDriver(t *testing.T, _ adbc.Driver) {
	q.mem.AssertSize(t, 0)
}

func (q *TaosQuirks) DatabaseOptions() map[string]string {
	return map[string]string{adbc.OptionKeyURI: testURL}
}

func (q *TaosQuirks) GetMetadata(code adbc.InfoCode) interface{} {
	switch code {
	case adbc.InfoDriverName:
		return "ADBC TAOS Driver - Go"
	case adbc.InfoDriverVersion, adbc.InfoVendorVersion:
		return "2.0"
	case adbc.InfoVendorName:
		return "TAOS"
	}
	return nil
}

// urlDriver adapts taos.Driver to validation.URLDriver.
type urlDriver struct {
	taos.Driver
}

func (d urlDriver) ResolveValues(candidate string, overrides map[string]string) map[string]string {
	return d.Resolve(candidate, overrides).Values()
}

func (d urlDriver) DescribeValues(candidate string, overrides map[string]string) map[string]string {
	return propertyValues(d.PropertyInfo(candidate, overrides))
}

type TaosURLQuirks struct{}

func (TaosURLQuirks) SetupURLDriver(*testing.T) validation.URLDriver {
	return urlDriver{taos.NewDriverWithResolver(nopOpener, taos.NewResolver(emptyEnv), nil)}
}

func (TaosURLQuirks) AcceptedURLs() []string {
	return []string{
		"jdbc:TAOS://localhost:0",
		"jdbc:TAOS://localhost",
		"jdbc:TAOS://localhost:6030/test",
		"jdbc:TAOS://localhost:6030",
		"jdbc:TAOS://localhost:6030/",
		"jdbc:TSDB://localhost:6030",
		"jdbc:TSDB://localhost:6030/",
		"jdbc:TAOS://127.0.0.1:0/db?user=root&password=taosdata",
		"jdbc:TAOS://:",
		"jdbc:TAOS://:/",
		"jdbc:TAOS://:/test",
		"jdbc:TAOS://localhost:0/?user=root&password=taosdata",
	}
}

func (TaosURLQuirks) RejectedURLs() []string {
	return []string{
		"jdbc:mysql://localhost:3306/test",
		"jdbc:postgresql://localhost/db",
		"taos://localhost:6030",
		"localhost:6030",
	}
}

func (TaosURLQuirks) SampleURL() string {
	return "jdbc:TAOS://127.0.0.1:0/db?user=root&password=taosdata&charset=UTF-8"
}

func (TaosURLQuirks) SampleValues() map[string]string {
	return map[string]string{
		"host":     "127.0.0.1",
		"port":     "0",
		"dbname":   "db",
		"user":     "root",
		"password": "taosdata",
		"charset":  "UTF-8",
	}
}

func (TaosURLQuirks) URLPreferredKeys() []string {
	return []string{taos.OptionKeyUser, taos.OptionKeyPassword}
}

func TestValidation(t *testing.T) {
	suite.Run(t, &validation.DatabaseTests{Quirks: &TaosQuirks{}})
	suite.Run(t, &validation.ConnectionTests{Quirks: &TaosQuirks{}})
	suite.Run(t, &validation.URLTests{Quirks: TaosURLQuirks{}})
}

type DatabaseSuite struct {
	suite.Suite

	opener *mockOpener
	drv    taos.Driver
	logs   bytes.Buffer
}

func (s *DatabaseSuite) SetupTest() {
	s.opener = &mockOpener{}
	s.drv = taos.NewDriverWithResolver(s.opener, taos.NewResolver(emptyEnv), memory.DefaultAllocator)
	s.logs.Reset()
}

func (s *DatabaseSuite) TearDownTest() {
	s.opener.AssertExpectations(s.T())
}

func (s *DatabaseSuite) newDatabase(opts map[string]string) adbc.Database {
	db, err := s.drv.NewDatabase(opts)
	s.Require().NoError(err)
	db.(adbc.DatabaseLogging).SetLogger(slog.New(slog.NewTextHandler(&s.logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return db
}

func (s *DatabaseSuite) TestNewDatabaseRejectsBadURI() {
	for _, uri := range []string{"", "jdbc:mysql://localhost/db"} {
		_, err := s.drv.NewDatabase(map[string]string{adbc.OptionKeyURI: uri})
		var adbcErr adbc.Error
		s.Require().ErrorAs(err, &adbcErr, uri)
		s.Equal(adbc.StatusInvalidArgument, adbcErr.Code, uri)
	}

	_, err := s.drv.NewDatabaseWithContext(context.Background(), map[string]string{"user": "root"})
	s.ErrorContains(err, "missing required option 'uri'")
}

func (s *DatabaseSuite) TestOpenPassesResolvedConfig() {
	session := &mockSession{}
	session.On("Close").Return(nil).Once()

	var got taos.Config
	s.opener.On("Open", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(taos.Config) }).
		Return(session, nil).Once()

	db := s.newDatabase(map[string]string{
		adbc.OptionKeyURI: testURL,
		"host":            "override.example",
		"user":            "ignored",
		"timeout":         "30",
	})
	defer validation.CheckedClose(s.T(), db)

	cnxn, err := db.Open(context.Background())
	s.Require().NoError(err)

	s.Equal(map[string]string{
		"host":     "override.example",
		"port":     "6030",
		"dbname":   "log",
		"user":     "root",
		"password": "taosdata",
		"timeout":  "30",
	}, got.Values())

	tc, ok := cnxn.(taos.Connection)
	s.Require().True(ok)
	s.Same(session, tc.Session())
	s.Equal(got.Values(), tc.Config().Values())
	s.NotEmpty(tc.ID())

	id, err := tc.GetOption(taos.OptionKeyConnectionID)
	s.NoError(err)
	s.Equal(tc.ID(), id)

	host, err := tc.GetOption("host")
	s.NoError(err)
	s.Equal("override.example", host)

	_, err = tc.GetOption("locale")
	var adbcErr adbc.Error
	s.Require().ErrorAs(err, &adbcErr)
	s.Equal(adbc.StatusNotFound, adbcErr.Code)

	s.NoError(cnxn.Close())
	session.AssertExpectations(s.T())

	logs := s.logs.String()
	s.Contains(logs, "opening connection")
	s.Contains(logs, "connection_id="+tc.ID())
	s.Contains(logs, "target=override.example:6030")
	s.Contains(logs, "config.password=****")
	s.NotContains(logs, "taosdata")
}

func (s *DatabaseSuite) TestOpenerFailureIsIOError() {
	s.opener.On("Open", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused")).Once()

	db := s.newDatabase(map[string]string{adbc.OptionKeyURI: testURL})
	defer validation.CheckedClose(s.T(), db)

	_, err := db.Open(context.Background())
	var adbcErr adbc.Error
	s.Require().ErrorAs(err, &adbcErr)
	s.Equal(adbc.StatusIO, adbcErr.Code)
	s.Equal("[TAOS] failed to open connection to localhost:6030: connection refused", adbcErr.Msg)
	s.Require().Len(adbcErr.Details, 1)
	s.Equal("taos.opener", adbcErr.Details[0].Key())
	detail, err := adbcErr.Details[0].Serialize()
	s.NoError(err)
	s.Equal("connection refused", string(detail))

	s.Contains(s.logs.String(), "failed to open connection")
}

func (s *DatabaseSuite) TestOpenerAdbcErrorPassesThrough() {
	authErr := adbc.Error{Code: adbc.StatusUnauthenticated, Msg: "bad password"}
	s.opener.On("Open", mock.Anything, mock.Anything).Return(nil, authErr).Once()

	db := s.newDatabase(map[string]string{adbc.OptionKeyURI: testURL})
	defer validation.CheckedClose(s.T(), db)

	_, err := db.Open(context.Background())
	s.Equal(authErr, err)
}

func (s *DatabaseSuite) TestOpenURLUsesParsedURL() {
	var got taos.Config
	s.opener.On("Open", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(taos.Config) }).
		Return(nopSession{}, nil).Once()

	db := s.newDatabase(map[string]string{adbc.OptionKeyURI: testURL, "charset": "UTF-8"})
	defer validation.CheckedClose(s.T(), db)

	parsed, ok := taos.ParseURL("jdbc:TSDB://tsdb.example:7030/metrics?user=reader")
	s.Require().True(ok)

	cnxn, err := db.(taos.Database).OpenURL(context.Background(), parsed, map[string]string{"port": "1", "password": "secret"})
	s.Require().NoError(err)
	defer validation.CheckedClose(s.T(), cnxn)

	s.Equal(map[string]string{
		"host":     "tsdb.example",
		"port":     "1",
		"dbname":   "metrics",
		"user":     "reader",
		"password": "secret",
		"charset":  "UTF-8",
	}, got.Values())
	layer, _ := got.Layer("port")
	s.Equal(taos.LayerOverride, layer)
	layer, _ = got.Layer("user")
	s.Equal(taos.LayerURL, layer)

	uri, err := db.(adbc.GetSetOptions).GetOption(adbc.OptionKeyURI)
	s.NoError(err)
	s.Equal(testURL, uri)
}

func (s *DatabaseSuite) TestSessionCloseFailure() {
	session := &mockSession{}
	session.On("Close").Return(errors.New("broken pipe")).Once()
	s.opener.On("Open", mock.Anything, mock.Anything).Return(session, nil).Once()

	db := s.newDatabase(map[string]string{adbc.OptionKeyURI: testURL})
	defer validation.CheckedClose(s.T(), db)

	cnxn, err := db.Open(context.Background())
	s.Require().NoError(err)

	err = cnxn.Close()
	var adbcErr adbc.Error
	s.Require().ErrorAs(err, &adbcErr)
	s.Equal(adbc.StatusIO, adbcErr.Code)
	session.AssertExpectations(s.T())
}

func (s *DatabaseSuite) TestDatabaseOptions() {
	db := s.newDatabase(map[string]string{adbc.OptionKeyURI: "jdbc:TAOS://h:1/db"})
	defer validation.CheckedClose(s.T(), db)
	opts := db.(adbc.GetSetOptions)

	uri, err := opts.GetOption(adbc.OptionKeyURI)
	s.NoError(err)
	s.Equal("jdbc:TAOS://h:1/db", uri)

	host, err := opts.GetOption("host")
	s.NoError(err)
	s.Equal("h", host)

	s.NoError(opts.SetOption(adbc.OptionKeyURI, "jdbc:TSDB://other:2"))
	s.NoError(opts.SetOption(adbc.OptionKeyUsername, "admin"))
	s.NoError(opts.SetOption("charset", "UTF-8"))

	host, err = opts.GetOption("host")
	s.NoError(err)
	s.Equal("other", host)
	user, err := opts.GetOption(adbc.OptionKeyUsername)
	s.NoError(err)
	s.Equal("admin", user)

	_, err = opts.GetOption("dbname")
	var adbcErr adbc.Error
	s.Require().ErrorAs(err, &adbcErr)
	s.Equal(adbc.StatusNotFound, adbcErr.Code)

	err = opts.SetOption(adbc.OptionKeyURI, "jdbc:mysql://x")
	s.Require().ErrorAs(err, &adbcErr)
	s.Equal(adbc.StatusInvalidArgument, adbcErr.Code)

	err = opts.SetOption("", "x")
	s.Require().ErrorAs(err, &adbcErr)
	s.Equal(adbc.StatusInvalidArgument, adbcErr.Code)
}

func (s *DatabaseSuite) TestConcurrentOpenAndSetOption() {
	var mu sync.Mutex
	hosts := make(map[string]bool)
	s.opener.On("Open", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			mu.Lock()
			defer mu.Unlock()
			hosts[args.Get(1).(taos.Config).Host()] = true
		}).
		Return(nopSession{}, nil)

	db := s.newDatabase(map[string]string{adbc.OptionKeyURI: testURL})
	defer validation.CheckedClose(s.T(), db)

	var g errgroup.Group
	for range 8 {
		g.Go(func() error {
			cnxn, err := db.Open(context.Background())
			if err != nil {
				return err
			}
			return cnxn.Close()
		})
	}
	g.Go(func() error {
		return db.(adbc.PostInitOptions).SetOption("host", "elsewhere")
	})
	s.Require().NoError(g.Wait())

	for host := range hosts {
		s.Contains([]string{"localhost", "elsewhere"}, host)
	}
}

func TestDatabaseSuite(t *testing.T) {
	suite.Run(t, new(DatabaseSuite))
}

func TestDriverInfo(t *testing.T) {
	alloc := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer alloc.AssertSize(t, 0)

	drv := taos.NewDriverWithResolver(nopOpener, taos.NewResolver(emptyEnv), alloc)
	db, err := drv.NewDatabase(map[string]string{adbc.OptionKeyURI: testURL})
	require.NoError(t, err)
	defer validation.CheckedClose(t, db)

	cnxn, err := db.Open(context.Background())
	require.NoError(t, err)
	defer validation.CheckedClose(t, cnxn)

	rdr, err := cnxn.GetInfo(context.Background(), []adbc.InfoCode{adbc.InfoVendorSql, taos.InfoDriverJDBCCompliant})
	require.NoError(t, err)
	tbl := tableFromRecordReader(rdr)
	defer tbl.Release()

	expected, err := array.TableFromJSON(alloc, adbc.GetInfoSchema, []string{`[
		{"info_name": 3, "info_value": [1, false]},
		{"info_name": 10000, "info_value": [1, false]}
	]`})
	require.NoError(t, err)
	defer expected.Release()
	assert.Truef(t, array.TableEqual(expected, tbl), "expected: %s\ngot: %s", expected, tbl)

	ok, err := drv.AcceptsURL(testURL)
	require.NoError(t, err)
	assert.True(t, ok)
}

func tableFromRecordReader(rdr array.RecordReader) arrow.Table {
	defer rdr.Release()

	recs := make([]arrow.Record, 0)
	for rdr.Next() {
		rec := rdr.Record()
		rec.Retain()
		defer rec.Release()
		recs = append(recs, rec)
	}
	return array.NewTableFromRecords(rdr.Schema(), recs)
}
