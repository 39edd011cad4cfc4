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

package rcrowley

import (
	"sort"
	"sync"

	"github.com/rcrowley/go-metrics"
	"github.com/rs/zerolog"
)

// Size counts encoded bytes per record kind, before and after compression.
type Size struct {
	sync.Mutex
	title      string
	original   map[string]metrics.Counter
	compressed map[string]metrics.Counter
}

// NewSize creates a size collector that logs under the given title.
func NewSize(title string) *Size {
	s := Size{
		title:      title,
		original:   make(map[string]metrics.Counter),
		compressed: make(map[string]metrics.Counter),
	}

	return &s
}

// Bytes adds one encoded record of the given kind to the counters.
func (s *Size) Bytes(kind string, originalCount int, compressedCount int) {
	s.Lock()
	defer s.Unlock()
	original, ok := s.original[kind]
	if !ok {
		original = metrics.NewCounter()
		s.original[kind] = original
	}
	compressed, ok := s.compressed[kind]
	if !ok {
		compressed = metrics.NewCounter()
		s.compressed[kind] = compressed
	}
	original.Inc(int64(originalCount))
	compressed.Inc(int64(compressedCount))
}

// Totals returns the number of bytes counted for a kind.
func (s *Size) Totals(kind string) (int64, int64) {
	s.Lock()
	defer s.Unlock()
	original, ok := s.original[kind]
	if !ok {
		return 0, 0
	}
	return original.Count(), s.compressed[kind].Count()
}

func (s *Size) Output(log zerolog.Logger) {
	s.Lock()
	defer s.Unlock()

	log = log.With().Str("metrics", s.title).Str("type", "size").Logger()

	kinds := make([]string, 0, len(s.original))
	originalTotal := int64(0)
	compressedTotal := int64(0)
	for kind, original := range s.original {
		kinds = append(kinds, kind)
		originalTotal += original.Count()
		compressedTotal += s.compressed[kind].Count()
	}
	if originalTotal == 0 {
		return
	}
	sort.Strings(kinds)

	log.Info().
		Int64("original_total", originalTotal).
		Int64("compressed_total", compressedTotal).
		Float64("ratio", float64(compressedTotal)/float64(originalTotal)).
		Msg("size metrics for all record kinds")

	for _, kind := range kinds {
		originalCount := s.original[kind].Count()
		compressedCount := s.compressed[kind].Count()
		ratio := 0.0
		if originalCount > 0 {
			ratio = float64(compressedCount) / float64(originalCount)
		}
		log.Info().
			Str("kind", kind).
			Int64("original_count", originalCount).
			Int64("compressed_count", compressedCount).
			Float64("original_percentage", float64(originalCount)/float64(originalTotal)).
			Float64("ratio", ratio).
			Msg("size metrics for one record kind")
	}
}
