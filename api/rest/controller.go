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

package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/optakt/genesis-signatures/codec/bondfile"
	"github.com/optakt/genesis-signatures/codec/structured"
	"github.com/optakt/genesis-signatures/models/genesis"
)

// BodyLimit is the largest request body accepted by the API, in the format
// of the echo body limit middleware.
const BodyLimit = "4M"

// Controller serves the signature and bond API.
type Controller struct {
	log    zerolog.Logger
	reader Reader
	writer Writer
	codecs Codecs
	bonds  *structured.Codec
}

// NewController creates a controller on top of the given index and codecs.
func NewController(log zerolog.Logger, reader Reader, writer Writer, codecs Codecs) *Controller {

	c := Controller{
		log:    log.With().Str("component", "rest").Logger(),
		reader: reader,
		writer: writer,
		codecs: codecs,
		bonds:  structured.NewCodec(),
	}

	return &c
}

// Register adds the routes of the controller to the server.
func (c *Controller) Register(server *echo.Echo) {
	server.POST("/submit_bond", c.SubmitBonds)
	server.GET("/bonds/:source", c.GetBonds)
	server.GET("/bonds/:source/toml", c.GetBondFile)
	server.PUT("/signatures/:tx", c.PutSignatures)
	server.GET("/signatures/:tx", c.GetSignatures)
	server.POST("/verify", c.Verify)
}

// SubmitBonds stores the bonds of a JSON submission body of the form
// `{"bonds":[...]}`. Bonds that fail decoding or validation reject the whole
// submission, and every violation is reported.
func (c *Controller) SubmitBonds(ctx echo.Context) error {

	body, err := readBody(ctx)
	if err != nil {
		return err
	}

	bonds, err := c.bonds.DecodeBonds(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, rejection(err))
	}

	err = c.writer.SubmitBonds(bonds)
	if err != nil {
		return c.fail(err)
	}

	c.log.Info().Int("bonds", len(bonds)).Msg("bonds submitted")

	return ctx.JSON(http.StatusOK, SubmitResponse{Accepted: len(bonds)})
}

// GetBonds returns the bonds submitted for a source public key.
func (c *Controller) GetBonds(ctx echo.Context) error {

	bonds, err := c.reader.Bonds(ctx.Param("source"))
	if err != nil {
		return c.fail(err)
	}

	data, err := c.bonds.EncodeBonds(bonds)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return ctx.JSONBlob(http.StatusOK, data)
}

// GetBondFile renders the bonds submitted for a source as a bond file. The
// optional `handle` query parameter names the file.
func (c *Controller) GetBondFile(ctx echo.Context) error {

	bonds, err := c.reader.Bonds(ctx.Param("source"))
	if err != nil {
		return c.fail(err)
	}

	data, err := bondfile.Encode(bonds)
	if err != nil {
		return c.fail(err)
	}

	name := bondfile.FileName(ctx.QueryParam("handle"))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))

	return ctx.Blob(http.StatusOK, "application/toml", data)
}

// PutSignatures appends the signatures of an encoded response to those
// collected for a transaction, and returns all collected signatures in the
// same format.
func (c *Controller) PutSignatures(ctx echo.Context) error {

	format, codec, err := c.codec(ctx)
	if err != nil {
		return err
	}

	body, err := readBody(ctx)
	if err != nil {
		return err
	}

	var res genesis.GetTxSignatureResponse
	err = codec.Decode(body, &res)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, rejection(err))
	}

	collection, err := c.writer.AppendSignatures(ctx.Param("tx"), res.Signatures...)
	if err != nil {
		return c.fail(err)
	}

	c.log.Info().
		Str("tx", collection.TxID).
		Int("appended", len(res.Signatures)).
		Int("total", len(collection.Signatures)).
		Msg("signatures appended")

	return c.respond(ctx, format, codec, collection.Response())
}

// GetSignatures returns the signatures collected for a transaction, encoded in
// the format named by the `format` query parameter.
func (c *Controller) GetSignatures(ctx echo.Context) error {

	format, codec, err := c.codec(ctx)
	if err != nil {
		return err
	}

	res, err := c.reader.Signatures(ctx.Param("tx"))
	if err != nil {
		return c.fail(err)
	}

	return c.respond(ctx, format, codec, res)
}

// Verify decodes and validates the request body as a record of the kind
// named by the `kind` query parameter, and reports the class of the first
// problem found.
func (c *Controller) Verify(ctx echo.Context) error {

	_, codec, err := c.codec(ctx)
	if err != nil {
		return err
	}

	var record genesis.Record
	switch kind := ctx.QueryParam("kind"); kind {
	case "", "response":
		record = &genesis.GetTxSignatureResponse{}
	case "signature":
		record = &genesis.GenesisSignature{}
	default:
		return echo.NewHTTPError(http.StatusBadRequest, rejection(fmt.Errorf("unknown record kind (%s)", kind)))
	}

	body, err := readBody(ctx)
	if err != nil {
		return err
	}

	err = codec.Decode(body, record)
	if err == nil {
		err = genesis.Validate(record)
	}
	if err != nil {
		res := VerifyResponse{
			Valid:  false,
			Class:  genesis.Classify(err),
			Reason: err.Error(),
		}
		return ctx.JSON(http.StatusOK, res)
	}

	return ctx.JSON(http.StatusOK, VerifyResponse{Valid: true})
}

func (c *Controller) codec(ctx echo.Context) (genesis.Format, genesis.Codec, error) {
	format := genesis.FormatJSON
	name := ctx.QueryParam("format")
	if name != "" {
		var err error
		format, err = genesis.ParseFormat(name)
		if err != nil {
			return 0, nil, echo.NewHTTPError(http.StatusBadRequest, rejection(err))
		}
	}
	codec, err := c.codecs.For(format)
	if err != nil {
		return 0, nil, echo.NewHTTPError(http.StatusBadRequest, rejection(err))
	}
	return format, codec, nil
}

func (c *Controller) respond(ctx echo.Context, format genesis.Format, codec genesis.Codec, res *genesis.GetTxSignatureResponse) error {
	data, err := codec.Encode(res)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return ctx.Blob(http.StatusOK, format.ContentType(), data)
}

func (c *Controller) fail(err error) error {
	switch {
	case errors.Is(err, genesis.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, rejection(err))
	case errors.Is(err, genesis.ErrEmptyField),
		errors.Is(err, genesis.ErrInvalidField),
		errors.Is(err, genesis.ErrDuplicateSigner),
		errors.Is(err, genesis.ErrSchemaMismatch),
		errors.Is(err, genesis.ErrMalformedInput),
		errors.Is(err, genesis.ErrTruncatedInput):
		return echo.NewHTTPError(http.StatusBadRequest, rejection(err))
	default:
		c.log.Error().Err(err).Msg("could not process request")
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// readBody reads the request body. Oversized bodies are cut short by the
// body limit middleware, whose error is passed through as is.
func readBody(ctx echo.Context) ([]byte, error) {
	body, err := io.ReadAll(ctx.Request().Body)
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return nil, httpErr
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, rejection(err))
	}
	return body, nil
}
