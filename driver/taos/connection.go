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
	"github.com/taosdata/taos-adbc"
	"github.com/taosdata/taos-adbc/driver/internal/driverbase"
)

// Connection is the adbc.Connection returned by a TAOS database.
type Connection interface {
	driverbase.Connection

	// ID is the uuid assigned when the connection was opened.
	ID() string
	// Config is the configuration the session was opened with.
	Config() Config
	Session() Session
}

type connectionImpl struct {
	driverbase.ConnectionImplBase

	id      string
	cfg     Config
	session Session
}

func (c *connectionImpl) GetOption(key string) (string, error) {
	if key == OptionKeyConnectionID {
		return c.id, nil
	}
	if v, ok := c.cfg.Get(key); ok {
		return v, nil
	}
	return c.ConnectionImplBase.GetOption(key)
}

func (c *connectionImpl) Close() error {
	if c.session == nil {
		return nil
	}
	if err := c.session.Close(); err != nil {
		return c.ErrorHelper.WithDetail(adbc.StatusIO, openerErrorDetail, err.Error(),
			"failed to close connection %s: %s", c.id, err)
	}
	c.Logger.Debug("connection closed", "connection_id", c.id)
	return nil
}

type connection struct {
	driverbase.Connection

	impl *connectionImpl
}

func (c *connection) ID() string       { return c.impl.id }
func (c *connection) Config() Config   { return c.impl.cfg }
func (c *connection) Session() Session { return c.impl.session }

var (
	_ driverbase.ConnectionImpl = (*connectionImpl)(nil)
	_ Connection                = (*connection)(nil)
)
