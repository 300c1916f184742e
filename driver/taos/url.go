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
	"strings"

	"github.com/taosdata/taos-adbc"
	"github.com/taosdata/taos-adbc/driver/internal/driverbase"
)

const (
	driverName = "TAOS"

	urlScheme         = "jdbc:"
	urlAuthorityStart = "://"

	SubprotocolTAOS = "TAOS"
	SubprotocolTSDB = "TSDB"
)

var (
	subprotocols = [...]string{SubprotocolTAOS, SubprotocolTSDB}

	errorHelper = driverbase.ErrorHelper{DriverName: driverName}
)

// QueryParam is one well formed key=value pair of a URL query string.
type QueryParam struct {
	Key   string
	Value string
}

// ParsedURL holds what a connection URL contributes to a configuration.
// Empty strings stand for parts the URL leaves out.
type ParsedURL struct {
	// Subprotocol is spelled as in the URL, e.g. "taos" for jdbc:taos://.
	Subprotocol string
	Host        string
	Port        string
	DBName      string
	// Params keeps the query pairs in the order they appear.
	Params []QueryParam
}

// Param returns the last value given for key in the query string.
func (u ParsedURL) Param(key string) (string, bool) {
	for i := len(u.Params) - 1; i >= 0; i-- {
		if u.Params[i].Key == key {
			return u.Params[i].Value, true
		}
	}
	return "", false
}

// matchPrefix strips a case-insensitive "jdbc:<subprotocol>://" prefix.
func matchPrefix(candidate string) (subprotocol, rest string, ok bool) {
	if len(candidate) < len(urlScheme) || !strings.EqualFold(candidate[:len(urlScheme)], urlScheme) {
		return "", "", false
	}
	remainder := candidate[len(urlScheme):]
	for _, proto := range subprotocols {
		n := len(proto) + len(urlAuthorityStart)
		if len(remainder) < n {
			continue
		}
		if strings.EqualFold(remainder[:len(proto)], proto) && remainder[len(proto):n] == urlAuthorityStart {
			return remainder[:len(proto)], remainder[n:], true
		}
	}
	return "", "", false
}

// AcceptsURL reports whether candidate is a TAOS connection URL. Only the
// prefix is checked; the rest of the URL may still be malformed. The empty
// string stands for a missing candidate and is rejected with
// adbc.StatusInvalidArgument.
func AcceptsURL(candidate string) (bool, error) {
	if candidate == "" {
		return false, errorHelper.Errorf(adbc.StatusInvalidArgument, "connection URL must not be empty")
	}
	_, _, ok := matchPrefix(candidate)
	return ok, nil
}

// ParseURL splits an accepted URL into its parts. ok is false when the
// prefix does not match. Malformed parts never fail the parse; they are
// left out instead.
func ParseURL(candidate string) (u ParsedURL, ok bool) {
	var rest string
	if u.Subprotocol, rest, ok = matchPrefix(candidate); !ok {
		return ParsedURL{}, false
	}

	// the authority ends at the first '/', or at '?' when no '/' comes first
	authorityEnd := strings.IndexAny(rest, "/?")
	authority := rest
	if authorityEnd >= 0 {
		authority = rest[:authorityEnd]
		rest = rest[authorityEnd:]
	} else {
		rest = ""
	}
	u.Host, u.Port, _ = strings.Cut(authority, ":")

	var query string
	hasQuery := false
	if path, found := strings.CutPrefix(rest, "/"); found {
		u.DBName, query, hasQuery = strings.Cut(path, "?")
	} else {
		query, hasQuery = strings.CutPrefix(rest, "?")
	}
	if hasQuery {
		u.Params = parseQuery(query)
	}
	return u, true
}

func parseQuery(query string) []QueryParam {
	var params []QueryParam
	for _, pair := range strings.Split(query, "&") {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" || value == "" {
			continue
		}
		params = append(params, QueryParam{Key: key, Value: value})
	}
	return params
}
