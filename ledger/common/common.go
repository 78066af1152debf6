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
	"encoding/hex"
	"fmt"

	"github.com/blinklabs-io/utxobatch/cbor"
	"golang.org/x/crypto/blake2b"
)

const Blake2b256Size = 32

type Blake2b256 [Blake2b256Size]byte

func NewBlake2b256(data []byte) Blake2b256 {
	b := Blake2b256{}
	copy(b[:], data)
	return b
}

// NewBlake2b256FromHex parses a hex-encoded hash
func NewBlake2b256FromHex(hexData string) (Blake2b256, error) {
	data, err := hex.DecodeString(hexData)
	if err != nil {
		return Blake2b256{}, fmt.Errorf("decode hash: %w", err)
	}
	if len(data) != Blake2b256Size {
		return Blake2b256{}, fmt.Errorf(
			"invalid hash length: %d, expected %d",
			len(data),
			Blake2b256Size,
		)
	}
	return NewBlake2b256(data), nil
}

func (b Blake2b256) String() string {
	return hex.EncodeToString(b[:])
}

func (b Blake2b256) Bytes() []byte {
	return b[:]
}

func (b Blake2b256) MarshalCBOR() ([]byte, error) {
	// Ensure we encode a full-length bytestring even for the zero hash
	hashBytes := make([]byte, len(b))
	copy(hashBytes, b[:])
	return cbor.Encode(hashBytes)
}

func (b *Blake2b256) UnmarshalCBOR(data []byte) error {
	var tmp []byte
	if _, err := cbor.Decode(data, &tmp); err != nil {
		return err
	}
	if len(tmp) != Blake2b256Size {
		return fmt.Errorf(
			"invalid hash length: %d, expected %d",
			len(tmp),
			Blake2b256Size,
		)
	}
	copy(b[:], tmp)
	return nil
}

// Blake2b256Hash generates a Blake2b-256 hash from the provided data
func Blake2b256Hash(data []byte) Blake2b256 {
	tmpHash, err := blake2b.New(Blake2b256Size, nil)
	if err != nil {
		panic(
			fmt.Sprintf(
				"unexpected error generating empty blake2b hash: %s",
				err,
			),
		)
	}
	tmpHash.Write(data)
	return Blake2b256(tmpHash.Sum(nil))
}
