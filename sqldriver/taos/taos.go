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

// Package taos registers the TAOS driver with database/sql under the name
// "taos". Connections are established by the opener installed with
// SetOpener.
//
//	import _ "github.com/taosdata/taos-adbc/sqldriver/taos"
//
//	taos.SetOpener(myOpener)
//	db, err := sql.Open("taos", "jdbc:TAOS://localhost:6030/log?user=root&password=taosdata")
package taos

import (
	"context"
	"database/sql"
	"sync"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/taosdata/taos-adbc"
	taosdriver "github.com/taosdata/taos-adbc/driver/taos"
	"github.com/taosdata/taos-adbc/sqldriver"
)

// DriverName is the name the driver is registered under.
const DriverName = "taos"

var (
	openerMu sync.RWMutex
	opener   taosdriver.ConnectionOpener
)

// SetOpener installs the opener used by every connection dialed through
// database/sql. Passing nil removes it.
func SetOpener(o taosdriver.ConnectionOpener) {
	openerMu.Lock()
	defer openerMu.Unlock()
	opener = o
}

func currentOpener() taosdriver.ConnectionOpener {
	openerMu.RLock()
	defer openerMu.RUnlock()
	return opener
}

func open(ctx context.Context, cfg taosdriver.Config) (taosdriver.Session, error) {
	o := currentOpener()
	if o == nil {
		return nil, adbc.Error{
			Msg:  "[TAOS] no connection opener installed, call taos.SetOpener first",
			Code: adbc.StatusInvalidState,
		}
	}
	return o.Open(ctx, cfg)
}

func init() {
	sql.Register(DriverName, sqldriver.Driver{
		Driver: taosdriver.NewDriver(taosdriver.OpenerFunc(open), memory.DefaultAllocator),
	})
}
