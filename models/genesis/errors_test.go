package genesis_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/optakt/genesis-signatures/models/genesis"
)

func TestClassify(t *testing.T) {
	tests := map[string]struct {
		err  error
		want string
	}{
		"nil":              {err: nil, want: "none"},
		"truncated":        {err: fmt.Errorf("could not read: %w", genesis.ErrTruncatedInput), want: "truncated_input"},
		"malformed":        {err: genesis.ErrMalformedInput, want: "malformed_input"},
		"schema":           {err: genesis.ErrSchemaMismatch, want: "schema_mismatch"},
		"empty field":      {err: genesis.EmptyFieldError{Field: "pub_key"}, want: "empty_field"},
		"invalid field":    {err: genesis.InvalidFieldError{Field: "amount", Rule: "numeric"}, want: "invalid_field"},
		"duplicate signer": {err: genesis.ErrDuplicateSigner, want: "duplicate_signer"},
		"unknown format":   {err: genesis.ErrUnknownFormat, want: "unknown_format"},
		"not found":        {err: genesis.ErrNotFound, want: "not_found"},
		"other":            {err: fmt.Errorf("dummy"), want: "unknown"},
	}

	for desc, test := range tests {
		test := test
		t.Run(desc, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, test.want, genesis.Classify(test.err))
		})
	}
}

func TestEmptyFieldError(t *testing.T) {
	assert.Equal(t, "empty field (pub_key)", genesis.EmptyFieldError{Field: "pub_key", Namespace: "pub_key"}.Error())
	assert.Equal(t, "empty field (signature at signatures[1].signature)",
		genesis.EmptyFieldError{Field: "signature", Namespace: "signatures[1].signature"}.Error())
}
