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

import "context"

// Session is a live handle to a TAOS server.
type Session interface {
	Close() error
}

// ConnectionOpener establishes sessions from resolved configurations. It
// is the boundary to the native transport.
type ConnectionOpener interface {
	Open(ctx context.Context, cfg Config) (Session, error)
}

// OpenerFunc adapts a function to a ConnectionOpener.
type OpenerFunc func(ctx context.Context, cfg Config) (Session, error)

func (f OpenerFunc) Open(ctx context.Context, cfg Config) (Session, error) {
	return f(ctx, cfg)
}
