// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package output_test

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/optakt/genesis-signatures/metrics/output"
	"github.com/optakt/genesis-signatures/metrics/rcrowley"
)

type buffer struct {
	sync.Mutex
	bytes.Buffer
}

func (b *buffer) Write(p []byte) (int, error) {
	b.Lock()
	defer b.Unlock()
	return b.Buffer.Write(p)
}

func (b *buffer) String() string {
	b.Lock()
	defer b.Unlock()
	return b.Buffer.String()
}

func TestOutput(t *testing.T) {
	var buf buffer
	log := zerolog.New(&buf)

	size := rcrowley.NewSize("storage")
	size.Bytes("bonds", 100, 40)

	out := output.New(log, time.Hour)
	out.Register(size)
	out.Run()
	out.Stop()
	out.Stop()

	logged := buf.String()
	assert.Contains(t, logged, `"component":"metrics"`)
	assert.Contains(t, logged, `"kind":"bonds"`)
	assert.Contains(t, logged, `"original_count":100`)
	assert.Contains(t, logged, `"compressed_count":40`)
}
