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

package collector

// DefaultConfig is the default configuration for the signature collector.
var DefaultConfig = Config{
	Concurrency:   16,
	Deduplication: false,
}

// Config is the configuration of the signature collector.
type Config struct {
	Concurrency   int
	Deduplication bool
}

// WithConcurrency sets how many signers are asked to sign at the same time. A
// value of zero or less removes the limit.
func WithConcurrency(n int) func(*Config) {
	return func(cfg *Config) {
		cfg.Concurrency = n
	}
}

// WithDeduplication sets whether signatures from a public key that already
// signed are dropped from the response.
func WithDeduplication(dedup bool) func(*Config) {
	return func(cfg *Config) {
		cfg.Deduplication = dedup
	}
}
