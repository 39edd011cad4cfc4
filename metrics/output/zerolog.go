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

package output

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/optakt/genesis-signatures/metrics"
)

// Output periodically writes the values of its collectors to the log, and
// once more when it stops.
type Output struct {
	log        zerolog.Logger
	interval   time.Duration
	collectors []metrics.Collector
	done       chan struct{}
	once       sync.Once
	wg         sync.WaitGroup
}

// New creates an output writing every interval. Collectors must be registered
// before calling Run.
func New(log zerolog.Logger, interval time.Duration, collectors ...metrics.Collector) *Output {
	o := Output{
		log:        log.With().Str("component", "metrics").Logger(),
		interval:   interval,
		collectors: collectors,
		done:       make(chan struct{}),
	}
	return &o
}

func (o *Output) Register(collector metrics.Collector) {
	o.collectors = append(o.collectors, collector)
}

func (o *Output) Run() {
	o.wg.Add(1)
	go o.loop()
}

// Stop flushes the collectors a last time and waits for the output to finish.
// It is safe to call more than once.
func (o *Output) Stop() {
	o.once.Do(func() {
		close(o.done)
	})
	o.wg.Wait()
}

func (o *Output) loop() {
	defer o.wg.Done()
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()
	for {
		select {
		case <-o.done:
			o.print()
			return
		case <-ticker.C:
			o.print()
		}
	}
}

func (o *Output) print() {
	for _, collector := range o.collectors {
		collector.Output(o.log)
	}
}
