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
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taosdata/taos-adbc"
	taosdriver "github.com/taosdata/taos-adbc/driver/taos"
	"github.com/taosdata/taos-adbc/sqldriver/taos"
)

type session struct{ closed bool }

func (s *session) Close() error {
	s.closed = true
	return nil
}

func TestRegisteredDriver(t *testing.T) {
	assert.Contains(t, sql.Drivers(), taos.DriverName)

	db, err := sql.Open(taos.DriverName, "jdbc:TAOS://localhost:6030/log?user=root&password=taosdata")
	require.NoError(t, err)
	defer db.Close()

	// no opener installed yet
	taos.SetOpener(nil)
	err = db.Ping()
	var adbcErr adbc.Error
	require.ErrorAs(t, err, &adbcErr)
	assert.Equal(t, adbc.StatusInvalidState, adbcErr.Code)

	var opened []taosdriver.Config
	sess := &session{}
	taos.SetOpener(taosdriver.OpenerFunc(func(_ context.Context, cfg taosdriver.Config) (taosdriver.Session, error) {
		opened = append(opened, cfg)
		return sess, nil
	}))
	defer taos.SetOpener(nil)

	require.NoError(t, db.Ping())
	require.Len(t, opened, 1)
	assert.Equal(t, "localhost", opened[0].Host())
	assert.Equal(t, "log", opened[0].DBName())

	require.NoError(t, db.Close())
	assert.True(t, sess.closed)
}

func TestRegisteredDriverRejectsForeignDSN(t *testing.T) {
	db, err := sql.Open(taos.DriverName, "jdbc:mysql://localhost/db")
	if err == nil {
		err = db.Ping()
		db.Close()
	}
	var adbcErr adbc.Error
	require.ErrorAs(t, err, &adbcErr)
	assert.Equal(t, adbc.StatusInvalidArgument, adbcErr.Code)
}
