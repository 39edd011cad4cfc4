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

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/optakt/genesis-signatures/models/genesis"
)

// Collector asks a set of signers for their signatures and assembles them into
// a signature response.
type Collector struct {
	log zerolog.Logger
	cfg Config
}

// New creates a collector with the given options.
func New(log zerolog.Logger, options ...func(*Config)) *Collector {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}

	c := Collector{
		log: log.With().Str("component", "collector").Logger(),
		cfg: cfg,
	}

	return &c
}

// Collect runs all signers concurrently. The signatures of the response are in
// the order of the signers, regardless of the order in which they complete. If
// any signer fails or returns an invalid signature, the remaining signers are
// canceled and no response is returned.
func (c *Collector) Collect(ctx context.Context, signers ...Signer) (*genesis.GetTxSignatureResponse, error) {

	signatures := make([]genesis.GenesisSignature, len(signers))

	group, ctx := errgroup.WithContext(ctx)
	if c.cfg.Concurrency > 0 {
		group.SetLimit(c.cfg.Concurrency)
	}
	for i, signer := range signers {
		i, signer := i, signer
		group.Go(func() error {
			err := ctx.Err()
			if err != nil {
				return err
			}
			signature, err := signer.Sign(ctx)
			if err != nil {
				return fmt.Errorf("could not get signature (signer: %d): %w", i, err)
			}
			err = genesis.Validate(&signature)
			if err != nil {
				return fmt.Errorf("invalid signature (signer: %d): %w", i, err)
			}
			signatures[i] = signature
			c.log.Debug().Int("signer", i).Str("pub_key", signature.PubKey).Msg("signature collected")
			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		c.log.Warn().Err(err).Int("signers", len(signers)).Msg("signature round rejected")
		return nil, err
	}

	if c.cfg.Deduplication {
		signatures = genesis.Deduplicate(signatures)
	}

	c.log.Info().Int("signers", len(signers)).Int("signatures", len(signatures)).Msg("signature round completed")

	return &genesis.GetTxSignatureResponse{Signatures: signatures}, nil
}
