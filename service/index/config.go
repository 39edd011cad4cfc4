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

package index

// DefaultConfig is the default configuration for the signature index.
var DefaultConfig = Config{
	ConflictRetries: 8,
}

// Config is the configuration of the signature index.
type Config struct {
	ConflictRetries uint
}

// WithConflictRetries sets how many times an update is retried when badger
// detects a conflict with a concurrent transaction.
func WithConflictRetries(retries uint) func(*Config) {
	return func(cfg *Config) {
		cfg.ConflictRetries = retries
	}
}
