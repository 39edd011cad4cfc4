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

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/optakt/genesis-signatures/models/genesis"
)

// Cache keeps recently read bonds in memory. A nil cache is valid and caches
// nothing.
type Cache struct {
	bonds *ristretto.Cache
	ttl   time.Duration
}

// NewCache creates a cache holding up to the given size in bytes of bonds.
func NewCache(size uint64, ttl time.Duration) (*Cache, error) {

	counters := int64(size) / 1000 * 10
	if counters < 1 {
		counters = 1
	}

	bonds, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: counters,
		MaxCost:     int64(size),
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("could not initialize cache: %w", err)
	}

	c := Cache{
		bonds: bonds,
		ttl:   ttl,
	}

	return &c, nil
}

func (c *Cache) get(source string) ([]genesis.Bond, bool) {
	if c == nil {
		return nil, false
	}
	value, ok := c.bonds.Get(source)
	if !ok {
		return nil, false
	}
	return value.([]genesis.Bond), true
}

func (c *Cache) set(source string, bonds []genesis.Bond) {
	if c == nil {
		return
	}
	_ = c.bonds.SetWithTTL(source, bonds, cost(bonds), c.ttl)
}

func (c *Cache) invalidate(source string) {
	if c == nil {
		return
	}
	c.bonds.Del(source)
}

func cost(bonds []genesis.Bond) int64 {
	total := 0
	for _, bond := range bonds {
		total += len(bond.Source) + len(bond.Validator) + len(bond.Amount)
		for _, signature := range bond.Signatures {
			total += len(signature.PubKey) + len(signature.Signature)
		}
	}
	return int64(total)
}
