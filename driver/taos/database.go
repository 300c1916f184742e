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
	"context"
	"errors"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/taosdata/taos-adbc"
	"github.com/taosdata/taos-adbc/driver/internal/driverbase"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/exp/maps"
)

// name of the error detail carrying the opener's own message
const openerErrorDetail = "taos.opener"

// Database is the adbc.Database returned by a TAOS driver.
type Database interface {
	driverbase.Database

	// OpenURL opens a connection for an already parsed URL. overrides are
	// layered over the options of the database for this connection only.
	OpenURL(ctx context.Context, u ParsedURL, overrides map[string]string) (Connection, error)
}

type databaseImpl struct {
	driverbase.DatabaseImplBase

	resolver *Resolver
	opener   ConnectionOpener

	mu        sync.RWMutex
	uri       string
	overrides map[string]string
}

func (d *databaseImpl) SetOptions(options map[string]string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, value := range options {
		if err := d.setOption(key, value); err != nil {
			return err
		}
	}
	return nil
}

func (d *databaseImpl) SetOption(key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setOption(key, value)
}

func (d *databaseImpl) setOption(key, value string) error {
	switch key {
	case adbc.OptionKeyURI:
		accepted, err := AcceptsURL(value)
		if err != nil {
			return err
		}
		if !accepted {
			return d.ErrorHelper.Errorf(adbc.StatusInvalidArgument, "not a TAOS connection URL: '%s'", value)
		}
		d.uri = value
	case adbc.OptionKeyTelemetryTraceParent:
		return d.DatabaseImplBase.SetOption(key, value)
	case adbc.OptionKeyUsername:
		d.overrides[OptionKeyUser] = value
	case "":
		return d.ErrorHelper.Errorf(adbc.StatusInvalidArgument, "option key must not be empty")
	default:
		d.overrides[key] = value
	}
	return nil
}

// GetOption returns the value the next Open would resolve for key.
func (d *databaseImpl) GetOption(key string) (string, error) {
	switch key {
	case adbc.OptionKeyURI:
		d.mu.RLock()
		defer d.mu.RUnlock()
		return d.uri, nil
	case adbc.OptionKeyTelemetryTraceParent:
		return d.DatabaseImplBase.GetOption(key)
	case adbc.OptionKeyUsername:
		key = OptionKeyUser
	}
	if v, ok := d.resolve().Get(key); ok {
		return v, nil
	}
	return "", d.ErrorHelper.Errorf(adbc.StatusNotFound, "%s '%s'", driverbase.DatabaseMessageOptionUnknown, key)
}

func (d *databaseImpl) snapshot() (string, map[string]string) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.uri, maps.Clone(d.overrides)
}

func (d *databaseImpl) resolve() Config {
	uri, overrides := d.snapshot()
	return d.resolver.Resolve(uri, overrides)
}

func (d *databaseImpl) Open(ctx context.Context) (adbc.Connection, error) {
	ctx, span := d.StartSpan(ctx, "Open")
	defer span.End()

	cnxn, err := d.open(ctx, d.resolve())
	if err != nil {
		return nil, err
	}
	return cnxn, nil
}

func (d *databaseImpl) OpenURL(ctx context.Context, u ParsedURL, overrides map[string]string) (Connection, error) {
	ctx, span := d.StartSpan(ctx, "OpenURL")
	defer span.End()

	_, merged := d.snapshot()
	maps.Copy(merged, overrides)
	cnxn, err := d.open(ctx, d.resolver.ResolveParsed(u, merged))
	if err != nil {
		return nil, err
	}
	return cnxn, nil
}

func (d *databaseImpl) open(ctx context.Context, cfg Config) (cnxn *connection, err error) {
	span := trace.SpanFromContext(ctx)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	target := net.JoinHostPort(cfg.Host(), cfg.Port())
	span.SetAttributes(
		attribute.String("taos.host", cfg.Host()),
		attribute.String("taos.port", cfg.Port()),
		attribute.String("taos.dbname", cfg.DBName()),
	)

	if d.opener == nil {
		return nil, d.ErrorHelper.Errorf(adbc.StatusInvalidState, "no connection opener configured")
	}

	id := uuid.NewString()
	span.SetAttributes(attribute.String(OptionKeyConnectionID, id))
	d.Logger.InfoContext(ctx, "opening connection", "connection_id", id, "target", target, "config", cfg)

	session, err := d.opener.Open(ctx, cfg)
	if err != nil {
		d.Logger.ErrorContext(ctx, "failed to open connection", "connection_id", id, "target", target, "error", err)
		var adbcErr adbc.Error
		if errors.As(err, &adbcErr) {
			return nil, err
		}
		return nil, d.ErrorHelper.WithDetail(adbc.StatusIO, openerErrorDetail, err.Error(),
			"failed to open connection to %s: %s", target, err)
	}

	impl := &connectionImpl{
		ConnectionImplBase: driverbase.NewConnectionImplBase(&d.DatabaseImplBase),
		id:                 id,
		cfg:                cfg,
		session:            session,
	}
	return &connection{Connection: driverbase.NewConnection(impl), impl: impl}, nil
}

type database struct {
	driverbase.Database

	impl *databaseImpl
}

func (d *database) OpenURL(ctx context.Context, u ParsedURL, overrides map[string]string) (Connection, error) {
	return d.impl.OpenURL(ctx, u, overrides)
}

var (
	_ driverbase.DatabaseImpl = (*databaseImpl)(nil)
	_ Database                = (*database)(nil)
)
