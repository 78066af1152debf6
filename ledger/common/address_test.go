// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/blinklabs-io/utxobatch/cbor"
	test_ledger "github.com/blinklabs-io/utxobatch/internal/test/ledger"
	"github.com/blinklabs-io/utxobatch/ledger/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressBech32RoundTrip(t *testing.T) {
	key := test_ledger.NewKeyPair(1)
	addrStr := key.Address.String()
	assert.True(
		t,
		strings.HasPrefix(addrStr, common.AddressHrp+"1"),
		"unexpected address prefix: %s",
		addrStr,
	)
	addr, err := common.NewAddressFromBech32(addrStr)
	require.NoError(t, err)
	assert.Equal(t, key.Address, addr)
	assert.Equal(t, []byte(key.Public), []byte(addr.PublicKey()))
	jsonData, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.Equal(t, `"`+addrStr+`"`, string(jsonData))
}

func TestAddressJsonRoundTrip(t *testing.T) {
	type owned struct {
		Owner common.Address `json:"owner"`
	}
	src := owned{Owner: test_ledger.NewKeyPair(4).Address}
	jsonData, err := json.Marshal(src)
	require.NoError(t, err)
	var decoded owned
	require.NoError(t, json.Unmarshal(jsonData, &decoded))
	assert.Equal(t, src, decoded)
	// Wrong prefix and non-string values are rejected
	assert.Error(t, json.Unmarshal([]byte(`{"owner":"not-bech32"}`), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`{"owner":42}`), &decoded))
}

func TestAddressFromBech32Invalid(t *testing.T) {
	testDefs := []string{
		"",
		"not-bech32",
		// Valid bech32, wrong prefix
		"addr1qx2fxv2umyhttkxyxp8x0dlpdt3k6cwng5pxj3jhsydzer3n0d3vllmyqwsx5wktcd8cc3sq835lu7drv2xwl2wywfgse35a3x",
	}
	for _, testDef := range testDefs {
		_, err := common.NewAddressFromBech32(testDef)
		assert.Error(t, err, "address: %q", testDef)
	}
}

func TestAddressFromPublicKeyInvalidSize(t *testing.T) {
	_, err := common.NewAddressFromPublicKey([]byte{0x01, 0x02})
	assert.Error(t, err)
}

func TestAddressCbor(t *testing.T) {
	key := test_ledger.NewKeyPair(2)
	cborData, err := cbor.Encode(key.Address)
	require.NoError(t, err)
	var decoded common.Address
	_, err = cbor.Decode(cborData, &decoded)
	require.NoError(t, err)
	assert.Equal(t, key.Address, decoded)
}
