package vault_test

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressPrinting(t *testing.T) {
	Convey("test base58 address printing", t, func() {
		addr := vault.NewAddress([]byte("some condition"))

		So(addr.String(), ShouldNotEqual, fmt.Sprintf("%X", []byte(addr)))
		back, err := vault.ParseAddress(addr.String())
		So(err, ShouldBeNil)
		So(back, ShouldResemble, addr)
	})

	Convey("test empty address printing", t, func() {
		So(vault.Address(nil).String(), ShouldEqual, "(nil)")
	})

	Convey("test hexademical condition printing", t, func() {
		cond := vault.NewCondition("token", "acct", []byte("ABCD123456LHB"))

		So(cond.String(), ShouldEqual, "token/acct/414243443132333435364C4842")
		So(cond.String(), ShouldNotEqual, fmt.Sprintf("%X", []byte(cond)))
	})
}

func TestAddressUnmarshalJSON(t *testing.T) {
	addr := vault.NewAddress([]byte("escrow"))

	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr vault.Address
	}{
		"base58 decoding": {
			json:     fmt.Sprintf("%q", addr.String()),
			wantAddr: addr,
		},
		"hex decoding": {
			json:     fmt.Sprintf(`"hex:%x"`, []byte(addr)),
			wantAddr: addr,
		},
		"empty string is nil": {
			json:     `""`,
			wantAddr: nil,
		},
		"invalid hex": {
			json:    `"hex:zzzz"`,
			wantErr: errors.ErrInput,
		},
		"invalid base58": {
			json:    `"0OIl"`,
			wantErr: errors.ErrInput,
		},
		"too short": {
			json:    `"hex:0102"`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a vault.Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tc.wantErr.Is(err), "%+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantAddr, a)
		})
	}
}

func TestAddressMarshalJSON(t *testing.T) {
	addr := vault.NewAddress([]byte("marshal"))
	raw, err := json.Marshal(struct{ A vault.Address }{A: addr})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf(`{"A":%q}`, addr.String()), string(raw))

	raw, err = json.Marshal(vault.Address(nil))
	require.NoError(t, err)
	assert.Equal(t, `""`, string(raw))
}

func TestAddressFlag(t *testing.T) {
	addr := vault.NewAddress([]byte("flag"))

	fl := flag.NewFlagSet("test", flag.ContinueOnError)
	var a vault.Address
	fl.Var(&a, "addr", "")
	require.NoError(t, fl.Parse([]string{"-addr", addr.String()}))
	assert.True(t, addr.Equals(a))

	fl.SetOutput(&bytes.Buffer{})
	assert.Error(t, fl.Parse([]string{"-addr", "foo"}))
}

func TestConditionParse(t *testing.T) {
	cases := map[string]struct {
		cond    vault.Condition
		ext     string
		typ     string
		data    []byte
		wantErr *errors.Error
	}{
		"valid condition": {
			cond: vault.NewCondition("token", "acct", []byte{1, 2, 3}),
			ext:  "token",
			typ:  "acct",
			data: []byte{1, 2, 3},
		},
		"newline in data": {
			cond: vault.NewCondition("sigs", "ed25519", []byte("a\nb")),
			ext:  "sigs",
			typ:  "ed25519",
			data: []byte("a\nb"),
		},
		"missing section": {
			cond:    vault.Condition("token/acct"),
			wantErr: errors.ErrInput,
		},
		"extension too short": {
			cond:    vault.NewCondition("x", "acct", []byte{1}),
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ext, typ, data, err := tc.cond.Parse()
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err))
				assert.True(t, tc.wantErr.Is(tc.cond.Validate()))
				return
			}
			require.NoError(t, err)
			require.NoError(t, tc.cond.Validate())
			assert.Equal(t, tc.ext, ext)
			assert.Equal(t, tc.typ, typ)
			assert.Equal(t, tc.data, data)
		})
	}
}

func TestConditionAddress(t *testing.T) {
	a := vault.NewCondition("token", "acct", []byte{1})
	b := vault.NewCondition("token", "acct", []byte{2})

	assert.Len(t, a.Address(), vault.AddressLength)
	assert.NoError(t, a.Address().Validate())
	assert.Equal(t, a.Address(), a.Address())
	assert.False(t, a.Address().Equals(b.Address()))
	assert.True(t, a.Equals(vault.NewCondition("token", "acct", []byte{1})))

	clone := a.Address().Clone()
	clone[0] ^= 0xFF
	assert.False(t, clone.Equals(a.Address()))
}
