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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/optakt/genesis-signatures/codec"
	"github.com/optakt/genesis-signatures/models/genesis"
	"github.com/optakt/genesis-signatures/service/collector"
)

const (
	success = 0
	failure = 1
)

func main() {
	os.Exit(run())
}

func run() int {

	// Command line parameter initialization.
	var (
		flagCollect bool
		flagDedup   bool
		flagFrom    string
		flagHex     bool
		flagInput   string
		flagKind    string
		flagLevel   string
		flagOutput  string
		flagTo      string
	)

	pflag.BoolVarP(&flagCollect, "collect", "c", false, "assemble the signature files given as arguments into a response")
	pflag.BoolVar(&flagDedup, "dedup", false, "drop repeated signers when assembling a response")
	pflag.StringVarP(&flagFrom, "from", "f", "json", "format of the input (json, borsh, cbor or toml)")
	pflag.BoolVarP(&flagHex, "hex", "x", false, "read and write binary formats as hexadecimal text")
	pflag.StringVarP(&flagInput, "input", "i", "-", "path of the input file (standard input when set to -)")
	pflag.StringVarP(&flagKind, "kind", "k", "response", "kind of record (signature, response or bonds)")
	pflag.StringVarP(&flagLevel, "level", "l", "info", "log output level")
	pflag.StringVarP(&flagOutput, "output", "o", "-", "path of the output file (standard output when set to -)")
	pflag.StringVarP(&flagTo, "to", "t", "json", "format of the output (json, borsh, cbor or toml)")

	pflag.Parse()

	// Logger initialization.
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	log := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	level, err := zerolog.ParseLevel(flagLevel)
	if err != nil {
		log.Error().Str("level", flagLevel).Err(err).Msg("could not parse log level")
		return failure
	}
	log = log.Level(level)

	codecs, err := codec.NewSet()
	if err != nil {
		log.Error().Err(err).Msg("could not initialize codecs")
		return failure
	}
	conv := converter{
		codecs: codecs,
		hex:    flagHex,
	}

	var output []byte
	if flagCollect {
		output, err = collect(log, conv, pflag.Args(), flagFrom, flagTo, flagDedup)
		if err != nil {
			log.Error().Err(err).Msg("could not collect signatures")
			return failure
		}
	} else {
		input, err := read(flagInput)
		if err != nil {
			log.Error().Str("input", flagInput).Err(err).Msg("could not read input")
			return failure
		}
		output, err = conv.Convert(input, flagKind, flagFrom, flagTo)
		if err != nil {
			log.Error().
				Str("kind", flagKind).
				Str("from", flagFrom).
				Str("to", flagTo).
				Str("class", genesis.Classify(err)).
				Err(err).
				Msg("could not convert record")
			return failure
		}
	}

	err = write(flagOutput, output)
	if err != nil {
		log.Error().Str("output", flagOutput).Err(err).Msg("could not write output")
		return failure
	}

	return success
}

func collect(log zerolog.Logger, conv converter, paths []string, from string, to string, dedup bool) ([]byte, error) {

	format, err := genesis.ParseFormat(from)
	if err != nil {
		return nil, err
	}
	decoder, err := conv.codecs.For(format)
	if err != nil {
		return nil, err
	}

	signers := make([]collector.Signer, 0, len(paths))
	for _, path := range paths {
		signers = append(signers, collector.NewFileSigner(path, conv.decoder(format, decoder)))
	}

	col := collector.New(log, collector.WithDeduplication(dedup))
	res, err := col.Collect(context.Background(), signers...)
	if err != nil {
		return nil, err
	}

	return conv.Encode(res, to)
}

func read(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func write(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	err := os.WriteFile(path, data, 0o644)
	if err != nil {
		return fmt.Errorf("could not write file: %w", err)
	}
	return nil
}
