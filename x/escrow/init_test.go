package escrow

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesis(t *testing.T) {
	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
	}{
		"program configured": {
			genesis: fmt.Sprintf(`{"conf": {"escrow": {"program": %q}}}`, testProgram),
		},
		"hex program": {
			genesis: fmt.Sprintf(`{"conf": {"escrow": {"program": "hex:%X"}}}`, []byte(testProgram)),
		},
		"missing configuration": {
			genesis: `{}`,
			wantErr: errors.ErrNotFound,
		},
		"invalid program": {
			genesis: `{"conf": {"escrow": {"program": "hex:0102"}}}`,
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts vault.Options
			require.NoError(t, json.Unmarshal([]byte(tc.genesis), &opts))

			db := store.MemStore()
			var ini Initializer
			err := ini.FromGenesis(opts, db)
			assertErr(t, tc.wantErr, err)
			if tc.wantErr != nil {
				return
			}
			d, err := NewDeriver(db)
			require.NoError(t, err)
			assert.Equal(t, testProgram, d.Program())
		})
	}
}
