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
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/dgraph-io/badger/v2"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/ziflex/lecho/v2"

	"github.com/optakt/genesis-signatures/api/rest"
	"github.com/optakt/genesis-signatures/codec"
	"github.com/optakt/genesis-signatures/codec/zbor"
	"github.com/optakt/genesis-signatures/metrics/output"
	"github.com/optakt/genesis-signatures/metrics/rcrowley"
	"github.com/optakt/genesis-signatures/models/genesis"
	"github.com/optakt/genesis-signatures/service/index"
	"github.com/optakt/genesis-signatures/service/metrics"
	"github.com/optakt/genesis-signatures/service/storage"
)

const (
	success = 0
	failure = 1
)

func main() {
	os.Exit(run())
}

func run() int {

	// Signal catching for clean shutdown.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	// Command line parameter initialization.
	var (
		flagCache    uint64
		flagIndex    string
		flagInterval time.Duration
		flagLevel    string
		flagMetrics  string
		flagPort     uint16
		flagRetries  uint
	)

	pflag.Uint64VarP(&flagCache, "cache", "e", uint64(64*datasize.MB), "maximum cache size for bond reads in bytes")
	pflag.StringVarP(&flagIndex, "index", "i", "index", "database directory for the signature index")
	pflag.DurationVar(&flagInterval, "interval", 5*time.Minute, "interval between size and timing metrics in the log")
	pflag.StringVarP(&flagLevel, "level", "l", "info", "log output level")
	pflag.StringVarP(&flagMetrics, "metrics", "m", "", "address on which to expose metrics (no metrics are exposed when left empty)")
	pflag.Uint16VarP(&flagPort, "port", "p", 3000, "port to host the signature API on")
	pflag.UintVar(&flagRetries, "retries", index.DefaultConfig.ConflictRetries, "number of retries for conflicting index updates")

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
	elog := lecho.From(log)

	// Initialize the index database.
	db, err := badger.Open(genesis.DefaultOptions(flagIndex))
	if err != nil {
		log.Error().Str("index", flagIndex).Err(err).Msg("could not open index DB")
		return failure
	}
	defer db.Close()

	// Initialize the metrics.
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	err = metrics.RegisterBadgerMetrics(reg)
	if err != nil {
		log.Error().Err(err).Msg("could not register badger metrics")
		return failure
	}
	records := metrics.NewRecords(reg)
	submissions := metrics.NewSubmissions(reg)
	size := rcrowley.NewSize("storage")
	timing := rcrowley.NewTime("codec")
	out := output.New(log, flagInterval, size, timing)

	// Initialize the storage library and the index on top of it.
	storageCodec, err := zbor.NewCodec()
	if err != nil {
		log.Error().Err(err).Msg("could not initialize storage codec")
		return failure
	}
	lib := storage.New(metrics.NewStorageCodec(storageCodec, size))
	cache, err := index.NewCache(flagCache, time.Minute)
	if err != nil {
		log.Error().Err(err).Msg("could not initialize bond cache")
		return failure
	}
	reader := index.NewReader(db, lib, cache)
	writer := index.NewWriter(db, lib, cache, index.WithConflictRetries(flagRetries))

	// Initialize the record codecs, instrumented for metrics.
	codecs, err := codec.NewSet()
	if err != nil {
		log.Error().Err(err).Msg("could not initialize record codecs")
		return failure
	}
	codecs.Decorate(func(format genesis.Format, c genesis.Codec) genesis.Codec {
		return records.Wrap(format, c, timing)
	})

	ctrl := rest.NewController(log, reader, writer, codecs)

	server := echo.New()
	server.HideBanner = true
	server.HidePort = true
	server.Logger = elog
	server.Use(lecho.Middleware(lecho.Config{Logger: elog}))
	server.Use(middleware.BodyLimit(rest.BodyLimit))
	server.Use(submissions.Middleware())
	ctrl.Register(server)

	var mserver *metrics.Server
	if flagMetrics != "" {
		mserver = metrics.NewServer(log, flagMetrics, reg)
	}

	// This section launches the main executing components in their own
	// goroutine, so they can run concurrently. Afterwards, we wait for an
	// interrupt signal in order to proceed with the next section.
	done := make(chan struct{})
	failed := make(chan struct{})
	out.Run()
	go func() {
		log.Info().Uint16("port", flagPort).Msg("Genesis Signature Server starting")
		err := server.Start(fmt.Sprint(":", flagPort))
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn().Err(err).Msg("Genesis Signature Server failed")
			close(failed)
		} else {
			close(done)
		}
		log.Info().Msg("Genesis Signature Server stopped")
	}()
	if mserver != nil {
		go func() {
			err := mserver.Start()
			if err != nil {
				log.Warn().Err(err).Msg("metrics server failed")
			}
		}()
	}

	select {
	case <-sig:
		log.Info().Msg("Genesis Signature Server stopping")
	case <-done:
		log.Info().Msg("Genesis Signature Server done")
	case <-failed:
		log.Warn().Msg("Genesis Signature Server aborted")
		out.Stop()
		return failure
	}
	go func() {
		<-sig
		log.Warn().Msg("forcing exit")
		os.Exit(1)
	}()

	// The following code starts a shut down with a certain timeout and makes
	// sure that the main executing components are shutting down within the
	// allocated shutdown time. Otherwise, we will force the shutdown and log
	// an error. We then wait for shutdown on each component to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err = server.Shutdown(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not shut down signature API")
		return failure
	}
	if mserver != nil {
		err = mserver.Stop(ctx)
		if err != nil {
			log.Error().Err(err).Msg("could not shut down metrics server")
			return failure
		}
	}
	out.Stop()

	return success
}
