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

package common

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"

	"github.com/blinklabs-io/utxobatch/cbor"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	AddressSize = ed25519.PublicKeySize

	// Human readable part used for the bech32 form of an address
	AddressHrp = "addr_vk"
)

// Address identifies the owner of an output. It is the owner's raw ed25519 public key
type Address [AddressSize]byte

func NewAddressFromPublicKey(pubKey ed25519.PublicKey) (Address, error) {
	if len(pubKey) != AddressSize {
		return Address{}, fmt.Errorf("invalid public key size: %d", len(pubKey))
	}
	var a Address
	copy(a[:], pubKey)
	return a, nil
}

// NewAddressFromBech32 parses the bech32 form produced by Address.String()
func NewAddressFromBech32(addr string) (Address, error) {
	hrp, data, err := bech32.DecodeNoLimit(addr)
	if err != nil {
		return Address{}, fmt.Errorf("failed to decode address as bech32: %w", err)
	}
	if hrp != AddressHrp {
		return Address{}, fmt.Errorf("unexpected address prefix: %s", hrp)
	}
	decoded, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("failed to convert address data: %w", err)
	}
	return NewAddressFromPublicKey(decoded)
}

func (a Address) PublicKey() ed25519.PublicKey {
	ret := make([]byte, AddressSize)
	copy(ret, a[:])
	return ed25519.PublicKey(ret)
}

func (a Address) Bytes() []byte {
	return a[:]
}

// String returns the bech32-encoded version of the address
func (a Address) String() string {
	convData, err := bech32.ConvertBits(a[:], 8, 5, true)
	if err != nil {
		panic(fmt.Sprintf("unexpected error converting data to base32: %s", err))
	}
	encoded, err := bech32.Encode(AddressHrp, convData)
	if err != nil {
		panic(fmt.Sprintf("unexpected error encoding data as bech32: %s", err))
	}
	return encoded
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(data []byte) error {
	var tmp string
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	addr, err := NewAddressFromBech32(tmp)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

func (a Address) MarshalCBOR() ([]byte, error) {
	addrBytes := make([]byte, len(a))
	copy(addrBytes, a[:])
	return cbor.Encode(addrBytes)
}

func (a *Address) UnmarshalCBOR(data []byte) error {
	var tmp []byte
	if _, err := cbor.Decode(data, &tmp); err != nil {
		return err
	}
	if len(tmp) != AddressSize {
		return fmt.Errorf("invalid address length: %d", len(tmp))
	}
	copy(a[:], tmp)
	return nil
}
