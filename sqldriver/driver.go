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

package sqldriver

import (
	"context"
	"database/sql/driver"
	"errors"
	"sync"
	"time"

	"github.com/bluele/gcache"
	"github.com/taosdata/taos-adbc"
	"github.com/taosdata/taos-adbc/driver/taos"
)

const (
	parsedURLCacheSize       = 64
	parsedURLCacheExpiration = 30 * time.Minute
)

var (
	parsedURLsOnce sync.Once
	parsedURLs     gcache.Cache
)

// parsedURLCache holds the parsed form of every DSN recently dialed, so a
// connection pool redialing the same DSN does not parse it again.
func parsedURLCache() gcache.Cache {
	parsedURLsOnce.Do(func() {
		parsedURLs = gcache.New(parsedURLCacheSize).LRU().
			Expiration(parsedURLCacheExpiration).
			LoaderFunc(func(key interface{}) (interface{}, error) {
				dsn, ok := key.(string)
				if !ok {
					return nil, adbc.Error{Msg: "DSN must be a string", Code: adbc.StatusInternal}
				}
				u, ok := taos.ParseURL(dsn)
				if !ok {
					return nil, adbc.Error{Msg: "not a TAOS connection URL: '" + dsn + "'", Code: adbc.StatusInvalidArgument}
				}
				return u, nil
			}).Build()
	})
	return parsedURLs
}

func lookupParsedURL(dsn string) (taos.ParsedURL, error) {
	v, err := parsedURLCache().Get(dsn)
	if err != nil {
		return taos.ParsedURL{}, err
	}
	return v.(taos.ParsedURL), nil
}

type connector struct {
	dsn string
	db  taos.Database
	drv taos.Driver
}

// Connect returns a connection to the database. Overrides stored in ctx
// with SetOptionsInCtx apply to this connection only.
//
// The provided context.Context is for dialing purposes only
// (see net.DialContext) and should not be stored or used for
// other purposes.
//
// The returned connection is only used by one goroutine at a time.
func (c *connector) Connect(ctx context.Context) (driver.Conn, error) {
	u, err := lookupParsedURL(c.dsn)
	if err != nil {
		return nil, err
	}

	cnxn, err := c.db.OpenURL(ctx, u, GetOptionsFromCtx(ctx))
	if err != nil {
		return nil, err
	}

	return &conn{Conn: cnxn}, nil
}

// Driver returns the underlying Driver of the connector,
// mainly to maintain compatibility with the Driver method on sql.DB
func (c *connector) Driver() driver.Driver { return Driver{c.drv} }

// Close closes the underlying database handle that the connector was using.
//
// By implementing the io.Closer interface, sql.DB will correctly call
// Close on the connector when sql.DB.Close is called.
func (c *connector) Close() error {
	return c.db.Close()
}

type Driver struct {
	Driver taos.Driver
}

// Open returns a new connection to the database. The name is a TAOS
// connection URL such as
//
//	jdbc:TAOS://localhost:6030/log?user=root&password=taosdata
//
// Open may return a cached connection (one previously closed),
// but doing so is unnecessary; the sql package maintains a pool
// of idle connections for efficient re-use.
//
// The returned connection is only used by one goroutine at a time.
func (d Driver) Open(name string) (driver.Conn, error) {
	dc, err := d.OpenConnector(name)
	if err != nil {
		return nil, err
	}
	// the connector owns a database which must not outlive this connection
	c := dc.(*connector)
	cnxn, err := c.Connect(context.Background())
	if err != nil {
		return nil, errors.Join(err, c.Close())
	}
	cnxn.(*conn).owner = c
	return cnxn, nil
}

// OpenConnector expects the same format as driver.Open
func (d Driver) OpenConnector(name string) (driver.Connector, error) {
	ok, err := d.Driver.AcceptsURL(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, adbc.Error{Msg: "not a TAOS connection URL: '" + name + "'", Code: adbc.StatusInvalidArgument}
	}

	db, err := d.Driver.NewDatabase(map[string]string{adbc.OptionKeyURI: name})
	if err != nil {
		return nil, err
	}

	return &connector{dsn: name, db: db.(taos.Database), drv: d.Driver}, nil
}

type ctxOptsKey struct{}

// SetOptionsInCtx attaches connection overrides to ctx. They are layered
// over the DSN for connections dialed with ctx.
func SetOptionsInCtx(ctx context.Context, opts map[string]string) context.Context {
	return context.WithValue(ctx, ctxOptsKey{}, opts)
}

func GetOptionsFromCtx(ctx context.Context) map[string]string {
	v, ok := ctx.Value(ctxOptsKey{}).(map[string]string)
	if !ok {
		return nil
	}
	return v
}

// conn is a connection to a database. It is not used concurrently by
// multiple goroutines. It is assumed to be stateful.
type conn struct {
	Conn taos.Connection

	// set when the connection was opened through Driver.Open
	owner *connector
}

// Close invalidates and potentially stops any current prepared
// statements and transactions, marking this connection as no longer
// in use.
//
// Drivers must ensure all network calls made by Close do not block
// indefinitely (e.g. apply a timeout)
func (c *conn) Close() error {
	err := c.Conn.Close()
	if c.owner != nil {
		err = errors.Join(err, c.owner.Close())
		c.owner = nil
	}
	return err
}

// Ping delegates to the session when it can be pinged.
func (c *conn) Ping(ctx context.Context) error {
	if pinger, ok := c.Conn.Session().(driver.Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

// Prepare delegates to the session when it implements driver.Conn.
func (c *conn) Prepare(query string) (driver.Stmt, error) {
	if sc, ok := c.Conn.Session().(driver.Conn); ok {
		return sc.Prepare(query)
	}
	return nil, adbc.Error{Msg: "Prepare", Code: adbc.StatusNotImplemented}
}

// Begin delegates to the session when it implements driver.Conn.
//
// Deprecated: kept to satisfy driver.Conn.
func (c *conn) Begin() (driver.Tx, error) {
	if sc, ok := c.Conn.Session().(driver.Conn); ok {
		return sc.Begin() //nolint:staticcheck
	}
	return nil, adbc.Error{Msg: "Begin", Code: adbc.StatusNotImplemented}
}

var (
	_ driver.DriverContext = Driver{}
	_ driver.Connector     = (*connector)(nil)
	_ driver.Pinger        = (*conn)(nil)
)
