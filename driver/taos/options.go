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

import "slices"

// Keys understood by the TAOS driver, both as URL query parameters and as
// caller overrides. Any other key is passed through as an extension key.
const (
	OptionKeyHost      = "host"
	OptionKeyPort      = "port"
	OptionKeyDBName    = "dbname"
	OptionKeyUser      = "user"
	OptionKeyPassword  = "password"
	OptionKeyCharset   = "charset"
	OptionKeyLocale    = "locale"
	OptionKeyTimezone  = "timezone"
	OptionKeyConfigDir = "cfgdir"

	// OptionKeyConnectionID is a read-only connection option holding the id
	// assigned when the connection was opened.
	OptionKeyConnectionID = "taos.connection.id"
)

const (
	DefaultHost      = "localhost"
	DefaultPort      = "6030"
	DefaultConfigDir = "/etc/taos"
)

// RecognizedOption is the static metadata of one connection option.
type RecognizedOption struct {
	Key         string
	Default     string
	Required    bool
	Description string
}

var recognizedOptions = [...]RecognizedOption{
	{Key: OptionKeyHost, Default: DefaultHost, Description: "Hostname of the TAOS server"},
	{Key: OptionKeyPort, Default: DefaultPort, Description: "Port the TAOS server listens on"},
	{Key: OptionKeyDBName, Description: "Database to use once connected"},
	{Key: OptionKeyUser, Required: true, Description: "User name"},
	{Key: OptionKeyPassword, Required: true, Description: "Password"},
	{Key: OptionKeyCharset, Description: "Character set of the client"},
	{Key: OptionKeyLocale, Description: "Locale of the client"},
	{Key: OptionKeyTimezone, Description: "Time zone of the client"},
	{Key: OptionKeyConfigDir, Default: DefaultConfigDir, Description: "Directory holding the client configuration file"},
}

// RecognizedOptions returns the option table in its listing order.
func RecognizedOptions() []RecognizedOption {
	return slices.Clone(recognizedOptions[:])
}

// IsRecognizedOption reports whether key is one of the fixed option keys.
func IsRecognizedOption(key string) bool {
	for _, opt := range recognizedOptions {
		if opt.Key == key {
			return true
		}
	}
	return false
}
