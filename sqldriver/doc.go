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

// Package sqldriver adapts the TAOS driver to the standard golang
// database/sql package, described here: https://go.dev/src/database/sql/doc.txt
//
// The data source name is a TAOS connection URL:
//
//	jdbc:TAOS://localhost:6030/log?user=root&password=taosdata
//
// Registering the driver can be done by importing this and then running
//
//	sql.Register("drivername", sqldriver.Driver{taos.NewDriver(opener, nil)})
//
// Additionally, the sqldriver/taos package registers the driver under the
// name "taos", so that only a single import statement and a call to
// its SetOpener are needed.
//
// Only connection management is provided. Statements and transactions
// are delegated to the session returned by the opener when it implements
// database/sql/driver.Conn, and fail with adbc.StatusNotImplemented
// otherwise.
package sqldriver
