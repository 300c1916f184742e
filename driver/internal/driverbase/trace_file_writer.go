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
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	defaultFilePrefix     = "taos.adbc.go"
	defaultMaxFileSizeKb  = int64(1024)
	defaultMaxFiles       = 100
	traceFileExt          = ".jsonl"
	traceFileTimeLayout   = "2006-01-02-15-04-05.000000000"
	traceFolderPermission = 0755
	// full write permission so the file can be reopened on Windows
	traceFilePermission = 0666
)

type traceFileConfig struct {
	folder        string
	prefix        string
	maxFileSizeKb int64
	maxFiles      int
}

// TraceFileOption configures a TraceFileWriter.
type TraceFileOption func(*traceFileConfig)

// WithTraceFolder sets the folder trace files are written to. It defaults to
// <user config dir>/.taos/traces.
func WithTraceFolder(folder string) TraceFileOption {
	return func(cfg *traceFileConfig) { cfg.folder = folder }
}

func WithFilePrefix(prefix string) TraceFileOption {
	return func(cfg *traceFileConfig) { cfg.prefix = prefix }
}

// WithMaxFileSizeKb sets the size after which a new file is started. A
// non-positive value selects the default of 1 MiB.
func WithMaxFileSizeKb(sizeKb int64) TraceFileOption {
	return func(cfg *traceFileConfig) { cfg.maxFileSizeKb = sizeKb }
}

// WithMaxFiles sets how many files are kept before the oldest are removed.
// A non-positive value selects the default.
func WithMaxFiles(count int) TraceFileOption {
	return func(cfg *traceFileConfig) { cfg.maxFiles = count }
}

func newTraceFileConfig(options ...TraceFileOption) (cfg traceFileConfig, err error) {
	cfg = traceFileConfig{
		prefix:        defaultFilePrefix,
		maxFileSizeKb: defaultMaxFileSizeKb,
		maxFiles:      defaultMaxFiles,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	if strings.TrimSpace(cfg.folder) == "" {
		if cfg.folder, err = defaultTraceFolder(); err != nil {
			return
		}
	}
	if strings.TrimSpace(cfg.prefix) == "" {
		cfg.prefix = defaultFilePrefix
	}
	if cfg.maxFileSizeKb <= 0 {
		cfg.maxFileSizeKb = defaultMaxFileSizeKb
	}
	if cfg.maxFiles <= 0 {
		cfg.maxFiles = defaultMaxFiles
	}

	if err = os.MkdirAll(cfg.folder, traceFolderPermission); err != nil {
		return
	}
	// fail early if the folder is not writable
	probe, err := os.CreateTemp(cfg.folder, cfg.prefix)
	if err != nil {
		return
	}
	_ = probe.Close()
	err = os.Remove(probe.Name())
	return
}

func defaultTraceFolder() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, ".taos", "traces"), nil
}

// TraceFileWriter writes to "<prefix>-<UTC timestamp>.jsonl" files in a
// folder, starting a new file once the current one reaches the size limit
// and removing the oldest files beyond the file count limit. It is safe for
// concurrent use.
type TraceFileWriter struct {
	cfg traceFileConfig

	mu      sync.Mutex
	current *os.File
}

func NewTraceFileWriter(options ...TraceFileOption) (*TraceFileWriter, error) {
	cfg, err := newTraceFileConfig(options...)
	if err != nil {
		return nil, err
	}
	return &TraceFileWriter{cfg: cfg}, nil
}

func (w *TraceFileWriter) Folder() string { return w.cfg.folder }

func (w *TraceFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.rotateIfFull(); err != nil {
		return 0, err
	}
	if err := w.ensureCurrent(); err != nil {
		return 0, err
	}
	return w.current.Write(p)
}

// Stat describes the file currently written to.
func (w *TraceFileWriter) Stat() (fs.FileInfo, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current == nil {
		return nil, errors.New("no trace file is open")
	}
	return w.current.Stat()
}

func (w *TraceFileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current == nil {
		return nil
	}
	err := w.current.Close()
	w.current = nil
	return err
}

// Clear closes the writer and removes every trace file it owns.
func (w *TraceFileWriter) Clear() error {
	if err := w.Close(); err != nil {
		return err
	}
	files, err := w.traceFiles()
	if err != nil {
		return err
	}
	for _, name := range files {
		if err := os.Remove(name); err != nil {
			return err
		}
	}
	return nil
}

func (w *TraceFileWriter) rotateIfFull() error {
	if w.current == nil {
		return nil
	}
	info, err := w.current.Stat()
	if err != nil {
		return err
	}
	if info.Size() < w.cfg.maxFileSizeKb*1024 {
		return nil
	}
	if err := w.current.Close(); err != nil {
		return err
	}
	w.current = nil
	return w.removeOldFiles()
}

func (w *TraceFileWriter) ensureCurrent() error {
	if w.current != nil {
		return nil
	}
	// continue the newest file when it still has room
	if name, ok := w.reusableFile(); ok {
		if f, err := os.OpenFile(name, os.O_APPEND|os.O_WRONLY, traceFilePermission); err == nil {
			w.current = f
			return nil
		}
	}
	name := filepath.Join(w.cfg.folder, w.cfg.prefix+"-"+time.Now().UTC().Format(traceFileTimeLayout)+traceFileExt)
	f, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, traceFilePermission)
	if err != nil {
		return err
	}
	w.current = f
	return nil
}

func (w *TraceFileWriter) reusableFile() (string, bool) {
	files, err := w.traceFiles()
	if err != nil || len(files) == 0 {
		return "", false
	}
	// filepath.Glob returns names in lexical order, which is creation order here
	last := files[len(files)-1]
	info, err := os.Stat(last)
	if err != nil || info.Size() >= w.cfg.maxFileSizeKb*1024 {
		return "", false
	}
	return last, true
}

func (w *TraceFileWriter) removeOldFiles() error {
	files, err := w.traceFiles()
	if err != nil {
		return nil
	}
	// leave room for the file about to be created
	if excess := len(files) - (w.cfg.maxFiles - 1); excess > 0 {
		for _, name := range files[:excess] {
			if err := os.Remove(name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *TraceFileWriter) traceFiles() ([]string, error) {
	return filepath.Glob(filepath.Join(w.cfg.folder, w.cfg.prefix+"*"+traceFileExt))
}
