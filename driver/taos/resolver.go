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
	"log/slog"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Layer names where a resolved value came from.
type Layer int8

const (
	LayerDefault Layer = iota
	LayerURL
	LayerOverride
)

func (l Layer) String() string {
	switch l {
	case LayerDefault:
		return "default"
	case LayerURL:
		return "url"
	case LayerOverride:
		return "override"
	}
	return "unknown"
}

// Config is a resolved connection configuration. It is never modified after
// construction; accessors hand out copies.
type Config struct {
	values map[string]string
	layers map[string]Layer
}

func (c Config) Get(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Layer returns the layer that supplied key.
func (c Config) Layer(key string) (Layer, bool) {
	l, ok := c.layers[key]
	return l, ok
}

func (c Config) Len() int { return len(c.values) }

// Keys returns the resolved keys in sorted order.
func (c Config) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Values returns a copy of the flat key/value mapping.
func (c Config) Values() map[string]string {
	return maps.Clone(c.values)
}

func (c Config) Host() string     { return c.values[OptionKeyHost] }
func (c Config) Port() string     { return c.values[OptionKeyPort] }
func (c Config) DBName() string   { return c.values[OptionKeyDBName] }
func (c Config) User() string     { return c.values[OptionKeyUser] }
func (c Config) Password() string { return c.values[OptionKeyPassword] }

// LogValue renders the config for slog with the password masked.
func (c Config) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(c.values))
	for _, key := range c.Keys() {
		value := c.values[key]
		if key == OptionKeyPassword {
			value = "****"
		}
		attrs = append(attrs, slog.String(key, value))
	}
	return slog.GroupValue(attrs...)
}

type layer struct {
	kind   Layer
	values map[string]string
}

// merge applies layers in order; a later layer replaces earlier values.
func merge(layers ...layer) Config {
	cfg := Config{values: make(map[string]string), layers: make(map[string]Layer)}
	for _, l := range layers {
		for key, value := range l.values {
			cfg.values[key] = value
			cfg.layers[key] = l.kind
		}
	}
	return cfg
}

// urlValues flattens a parsed URL. The path form of the database name wins
// over a dbname query parameter.
func urlValues(u ParsedURL) map[string]string {
	values := make(map[string]string, len(u.Params)+3)
	for _, p := range u.Params {
		values[p.Key] = p.Value
	}
	if u.Host != "" {
		values[OptionKeyHost] = u.Host
	}
	if u.Port != "" {
		values[OptionKeyPort] = u.Port
	}
	if u.DBName != "" {
		values[OptionKeyDBName] = u.DBName
	}
	return values
}

// credentials returns the user and password given in the URL query.
func credentials(u ParsedURL) map[string]string {
	values := make(map[string]string, 2)
	for _, key := range []string{OptionKeyUser, OptionKeyPassword} {
		if v, ok := u.Param(key); ok {
			values[key] = v
		}
	}
	return values
}

// Resolver turns connection URLs plus caller overrides into a Config. The
// zero value reads the process environment.
type Resolver struct {
	lookupEnv LookupEnvFunc
}

// NewResolver returns a Resolver that derives its defaults through lookup.
// A nil lookup reads the process environment.
func NewResolver(lookup LookupEnvFunc) *Resolver {
	return &Resolver{lookupEnv: lookup}
}

func (r *Resolver) AcceptsURL(candidate string) (bool, error) {
	return AcceptsURL(candidate)
}

func (r *Resolver) ParseURL(candidate string) (ParsedURL, bool) {
	return ParseURL(candidate)
}

// Resolve parses candidate and merges it with the environment defaults and
// overrides. Overrides beat URL values which beat defaults, except that a
// user or password given in the URL query beats the override. A candidate
// that is not a TAOS URL yields the overrides unchanged.
func (r *Resolver) Resolve(candidate string, overrides map[string]string) Config {
	u, ok := ParseURL(candidate)
	if !ok {
		return merge(layer{LayerOverride, overrides})
	}
	return r.ResolveParsed(u, overrides)
}

// ResolveParsed is Resolve for a URL that was already parsed.
func (r *Resolver) ResolveParsed(u ParsedURL, overrides map[string]string) Config {
	var lookup LookupEnvFunc
	if r != nil {
		lookup = r.lookupEnv
	}
	return merge(
		layer{LayerDefault, envDefaults(lookup)},
		layer{LayerURL, urlValues(u)},
		layer{LayerOverride, overrides},
		layer{LayerURL, credentials(u)},
	)
}
