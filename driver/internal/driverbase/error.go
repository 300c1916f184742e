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

package driverbase

import (
	"fmt"

	"github.com/taosdata/taos-adbc"
)

// ErrorHelper builds adbc.Error values whose message is prefixed with the
// driver name, e.g. "[TAOS] Unknown database option 'foo'".
type ErrorHelper struct {
	DriverName string
}

func (helper *ErrorHelper) Errorf(code adbc.Status, message string, format ...any) error {
	return adbc.Error{
		Code: code,
		Msg:  fmt.Sprintf("[%s] %s", helper.DriverName, fmt.Sprintf(message, format...)),
	}
}

// WithDetail is Errorf with a single text detail attached.
func (helper *ErrorHelper) WithDetail(code adbc.Status, name, detail string, message string, format ...any) error {
	return adbc.Error{
		Code:    code,
		Msg:     fmt.Sprintf("[%s] %s", helper.DriverName, fmt.Sprintf(message, format...)),
		Details: []adbc.ErrorDetail{&adbc.TextErrorDetail{Name: name, Detail: detail}},
	}
}
