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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/optakt/genesis-signatures/models/genesis"
)

// RecordCodec decorates a record codec of one format. It counts encoded
// records and decode failures per error class, and times both operations.
type RecordCodec struct {
	codec    genesis.Codec
	format   genesis.Format
	time     Time
	encoded  *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// Records holds the counters shared by the record codecs of all formats.
type Records struct {
	encoded  *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewRecords creates the record counters and registers them.
func NewRecords(reg prometheus.Registerer) *Records {
	factory := promauto.With(reg)

	encodedOpts := prometheus.CounterOpts{
		Name:      "encoded_records_total",
		Namespace: namespace,
		Help:      "number of encoded records per format and kind",
	}
	encoded := factory.NewCounterVec(encodedOpts, []string{"format", "kind"})

	failuresOpts := prometheus.CounterOpts{
		Name:      "decode_failures_total",
		Namespace: namespace,
		Help:      "number of rejected inputs per format and error class",
	}
	failures := factory.NewCounterVec(failuresOpts, []string{"format", "class"})

	r := Records{
		encoded:  encoded,
		failures: failures,
	}

	return &r
}

// Wrap decorates the codec of the given format.
func (r *Records) Wrap(format genesis.Format, codec genesis.Codec, time Time) *RecordCodec {
	c := RecordCodec{
		codec:    codec,
		format:   format,
		time:     time,
		encoded:  r.encoded,
		failures: r.failures,
	}
	return &c
}

func (c *RecordCodec) Encode(record genesis.Record) ([]byte, error) {
	defer c.time.Duration("encode_" + c.format.String())()
	data, err := c.codec.Encode(record)
	if err != nil {
		return nil, err
	}
	c.encoded.WithLabelValues(c.format.String(), recordKind(record)).Inc()
	return data, nil
}

func (c *RecordCodec) Decode(data []byte, record genesis.Record) error {
	defer c.time.Duration("decode_" + c.format.String())()
	err := c.codec.Decode(data, record)
	if err != nil {
		c.failures.WithLabelValues(c.format.String(), genesis.Classify(err)).Inc()
		return err
	}
	return nil
}

func recordKind(record genesis.Record) string {
	switch record.(type) {
	case *genesis.GenesisSignature:
		return "signature"
	case *genesis.GetTxSignatureResponse:
		return "response"
	default:
		return "other"
	}
}
