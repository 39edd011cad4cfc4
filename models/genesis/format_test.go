package genesis_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/optakt/genesis-signatures/models/genesis"
)

func TestParseFormat(t *testing.T) {
	tests := map[string]struct {
		name    string
		want    genesis.Format
		wantErr bool
	}{
		"json":              {name: "json", want: genesis.FormatJSON},
		"structured alias":  {name: "Structured", want: genesis.FormatJSON},
		"borsh":             {name: "borsh", want: genesis.FormatBorsh},
		"binary alias":      {name: "BINARY", want: genesis.FormatBorsh},
		"cbor":              {name: "cbor", want: genesis.FormatCBOR},
		"unknown format":    {name: "yaml", wantErr: true},
		"empty format name": {name: "", wantErr: true},
	}

	for desc, test := range tests {
		test := test
		t.Run(desc, func(t *testing.T) {
			t.Parallel()

			got, err := genesis.ParseFormat(test.name)

			if test.wantErr {
				assert.True(t, errors.Is(err, genesis.ErrUnknownFormat))
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, test.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, name string) genesis.Format {
	t.Helper()

	format, err := genesis.ParseFormat(name)
	assert.NoError(t, err)

	return format
}
