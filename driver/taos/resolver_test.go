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
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taosdata/taos-adbc/driver/taos"
)

// envOf returns a lookup over a fixed environment.
func envOf(env map[string]string) taos.LookupEnvFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

var emptyEnv = envOf(nil)

func TestResolveFullURL(t *testing.T) {
	r := taos.NewResolver(emptyEnv)
	cfg := r.Resolve("jdbc:TAOS://127.0.0.1:0/db?user=root&password=taosdata&charset=UTF-8", nil)

	assert.Equal(t, map[string]string{
		"host":     "127.0.0.1",
		"port":     "0",
		"dbname":   "db",
		"user":     "root",
		"password": "taosdata",
		"charset":  "UTF-8",
	}, cfg.Values())
	assert.Equal(t, "127.0.0.1", cfg.Host())
	assert.Equal(t, "0", cfg.Port())
	assert.Equal(t, "db", cfg.DBName())
	assert.Equal(t, "root", cfg.User())
	assert.Equal(t, "taosdata", cfg.Password())
}

func TestResolveAbsentFieldsStayAbsent(t *testing.T) {
	r := taos.NewResolver(emptyEnv)

	cfg := r.Resolve("jdbc:TAOS://127.0.0.1:0", nil)
	_, ok := cfg.Get("dbname")
	assert.False(t, ok)
	assert.Equal(t, []string{"host", "port"}, cfg.Keys())

	cfg = r.Resolve("jdbc:TAOS://:/?", map[string]string{"user": "root", "password": "taosdata"})
	assert.Equal(t, map[string]string{"user": "root", "password": "taosdata"}, cfg.Values())
	for _, key := range []string{"host", "port", "dbname"} {
		_, ok := cfg.Get(key)
		assert.False(t, ok, key)
	}
}

func TestResolveNonMatchingReturnsOverrides(t *testing.T) {
	r := taos.NewResolver(envOf(map[string]string{"LANG": "en_US.UTF-8"}))
	overrides := map[string]string{"user": "root", "custom": "x"}

	cfg := r.Resolve("jdbc:mysql://localhost/db", overrides)
	assert.Equal(t, overrides, cfg.Values())
	for key := range overrides {
		layer, ok := cfg.Layer(key)
		require.True(t, ok)
		assert.Equal(t, taos.LayerOverride, layer)
	}

	assert.Zero(t, r.Resolve("", nil).Len())
}

func TestResolvePrecedence(t *testing.T) {
	r := taos.NewResolver(envOf(map[string]string{"LANG": "en_US.UTF-8", "TZ": "Asia/Shanghai"}))
	cfg := r.Resolve(
		"jdbc:TAOS://urlhost:1/urldb?charset=GBK&user=urluser&password=urlpass&ext=url",
		map[string]string{
			"host":     "ovhost",
			"dbname":   "ovdb",
			"charset":  "UTF-16",
			"user":     "ovuser",
			"password": "ovpass",
			"ext":      "override",
			"only":     "override",
		},
	)

	expected := map[string]struct {
		value string
		layer taos.Layer
	}{
		"host":     {"ovhost", taos.LayerOverride},
		"port":     {"1", taos.LayerURL},
		"dbname":   {"ovdb", taos.LayerOverride},
		"charset":  {"UTF-16", taos.LayerOverride},
		"locale":   {"en_US.UTF-8", taos.LayerDefault},
		"timezone": {"Asia/Shanghai", taos.LayerDefault},
		"user":     {"urluser", taos.LayerURL},
		"password": {"urlpass", taos.LayerURL},
		"ext":      {"override", taos.LayerOverride},
		"only":     {"override", taos.LayerOverride},
	}
	require.Equal(t, len(expected), cfg.Len())
	for key, want := range expected {
		v, ok := cfg.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, want.value, v, key)
		layer, _ := cfg.Layer(key)
		assert.Equal(t, want.layer, layer, key)
	}
}

func TestResolveCredentialsFromOverridesWhenURLHasNone(t *testing.T) {
	r := taos.NewResolver(emptyEnv)
	cfg := r.Resolve("jdbc:TAOS://localhost:6030/log", map[string]string{"user": "root", "password": "taosdata"})
	assert.Equal(t, "root", cfg.User())
	assert.Equal(t, "taosdata", cfg.Password())
	layer, _ := cfg.Layer("user")
	assert.Equal(t, taos.LayerOverride, layer)
}

func TestResolveDBNamePathWinsOverQuery(t *testing.T) {
	r := taos.NewResolver(emptyEnv)

	cfg := r.Resolve("jdbc:TAOS://h/path?dbname=query", nil)
	assert.Equal(t, "path", cfg.DBName())

	cfg = r.Resolve("jdbc:TAOS://h/?dbname=query", nil)
	assert.Equal(t, "query", cfg.DBName())
}

func TestResolveRepeatedKeyKeepsLast(t *testing.T) {
	cfg := taos.NewResolver(emptyEnv).Resolve("jdbc:TAOS://h?charset=GBK&charset=UTF-8", nil)
	assert.Equal(t, "UTF-8", cfg.Values()["charset"])
}

func TestResolveReturnsIndependentConfigs(t *testing.T) {
	r := taos.NewResolver(emptyEnv)
	overrides := map[string]string{"user": "root"}
	cfg := r.Resolve("jdbc:TAOS://h", overrides)

	overrides["user"] = "changed"
	values := cfg.Values()
	values["user"] = "mutated"

	assert.Equal(t, "root", cfg.User())
}

func TestResolveZeroResolverReadsEnvironment(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_CTYPE", "")
	t.Setenv("LANG", "de_DE.ISO-8859-1")
	t.Setenv("TZ", "")

	var r taos.Resolver
	cfg := r.Resolve("jdbc:TAOS://h", nil)
	assert.Equal(t, map[string]string{
		"host":    "h",
		"locale":  "de_DE.ISO-8859-1",
		"charset": "ISO-8859-1",
	}, cfg.Values())
}

func TestConfigLogValueRedactsPassword(t *testing.T) {
	cfg := taos.NewResolver(emptyEnv).Resolve("jdbc:TAOS://h?user=root&password=taosdata", nil)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Info("resolved", "config", cfg)

	assert.Contains(t, buf.String(), "config.user=root")
	assert.Contains(t, buf.String(), "config.password=****")
	assert.NotContains(t, buf.String(), "taosdata")
}

func TestLayerString(t *testing.T) {
	assert.Equal(t, "default", taos.LayerDefault.String())
	assert.Equal(t, "url", taos.LayerURL.String())
	assert.Equal(t, "override", taos.LayerOverride.String())
	assert.Equal(t, "unknown", taos.Layer(42).String())
}
