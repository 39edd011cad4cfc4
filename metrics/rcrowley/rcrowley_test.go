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

package rcrowley_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/optakt/genesis-signatures/metrics/rcrowley"
)

func TestSize(t *testing.T) {
	size := rcrowley.NewSize("storage")
	size.Bytes("collection", 10, 4)
	size.Bytes("collection", 20, 6)
	size.Bytes("bonds", 5, 5)

	original, compressed := size.Totals("collection")
	assert.Equal(t, int64(30), original)
	assert.Equal(t, int64(10), compressed)

	original, compressed = size.Totals("unknown")
	assert.Zero(t, original)
	assert.Zero(t, compressed)

	var buf bytes.Buffer
	size.Output(zerolog.New(&buf))
	assert.Contains(t, buf.String(), `"original_total":35`)
	assert.Contains(t, buf.String(), `"compressed_total":15`)
}

func TestSize_Empty(t *testing.T) {
	var buf bytes.Buffer
	rcrowley.NewSize("storage").Output(zerolog.New(&buf))

	assert.Empty(t, buf.String())
}

func TestTime(t *testing.T) {
	timing := rcrowley.NewTime("codec")

	done := timing.Duration("encode_json")
	done()
	timing.Duration("encode_json")()

	assert.Equal(t, int64(2), timing.Count("encode_json"))
	assert.Zero(t, timing.Count("decode_json"))

	var buf bytes.Buffer
	timing.Output(zerolog.New(&buf))
	assert.Contains(t, buf.String(), `"operation":"encode_json"`)
	assert.Contains(t, buf.String(), `"count":2`)
}
