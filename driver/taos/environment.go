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
	"os"
	"strings"
)

// LookupEnvFunc has the signature of os.LookupEnv.
type LookupEnvFunc func(key string) (string, bool)

// envDefaults derives the locale, charset and time zone of the running
// process. Variables that are unset or empty contribute nothing.
func envDefaults(lookup LookupEnvFunc) map[string]string {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	defaults := make(map[string]string)

	// LC_ALL overrides LC_CTYPE which overrides LANG
	var locale string
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if locale = get(key); locale != "" {
			break
		}
	}
	if locale != "" {
		defaults[OptionKeyLocale] = locale
		if charset := charsetOfLocale(locale); charset != "" {
			defaults[OptionKeyCharset] = charset
		}
	}

	if tz := get("TZ"); tz != "" {
		defaults[OptionKeyTimezone] = strings.TrimPrefix(tz, ":")
	}
	return defaults
}

// charsetOfLocale extracts the codeset of a POSIX locale name such as
// "en_US.UTF-8@euro".
func charsetOfLocale(locale string) string {
	_, codeset, found := strings.Cut(locale, ".")
	if !found {
		return ""
	}
	codeset, _, _ = strings.Cut(codeset, "@")
	return codeset
}
