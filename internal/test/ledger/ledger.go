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

package test_ledger

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/blinklabs-io/utxobatch/ledger/common"
)

// Compile-time check that MockUtxoState implements UtxoState
var _ common.UtxoState = (*MockUtxoState)(nil)

// MockUtxoState is a UtxoState backed by a plain map. Tests can set UtxoByIdFunc to
// override lookups entirely
type MockUtxoState struct {
	Utxos        map[common.OutputRef]common.Output
	UtxoByIdFunc func(common.OutputRef) (common.Utxo, error)
}

func (m *MockUtxoState) UtxoById(
	id common.OutputRef,
) (common.Utxo, error) {
	if m.UtxoByIdFunc != nil {
		return m.UtxoByIdFunc(id)
	}
	output, ok := m.Utxos[id]
	if !ok {
		return common.Utxo{}, fmt.Errorf("%w: %s", common.ErrUtxoNotFound, id)
	}
	return common.Utxo{Ref: id, Output: output}, nil
}

// KeyPair is a deterministic ed25519 key pair for use in tests
type KeyPair struct {
	Private ed25519.PrivateKey
	Public  ed25519.PublicKey
	Address common.Address
}

// NewKeyPair derives a key pair from a single seed byte, so the same seed always
// yields the same keys
func NewKeyPair(seed byte) KeyPair {
	privKey := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{seed}, ed25519.SeedSize))
	pubKey, _ := privKey.Public().(ed25519.PublicKey)
	addr, err := common.NewAddressFromPublicKey(pubKey)
	if err != nil {
		panic(fmt.Sprintf("unexpected error building address: %s", err))
	}
	return KeyPair{
		Private: privKey,
		Public:  pubKey,
		Address: addr,
	}
}

// Sign signs the signable payload of the input at idx and stores the signature
func (k KeyPair) Sign(tx *common.Transaction, idx int) error {
	payload, err := tx.SignablePayload(idx)
	if err != nil {
		return err
	}
	return tx.AddSignature(idx, ed25519.Sign(k.Private, payload))
}

// SignAll signs every input of the transaction with the same key
func (k KeyPair) SignAll(tx *common.Transaction) error {
	for idx := range tx.Inputs {
		if err := k.Sign(tx, idx); err != nil {
			return err
		}
	}
	return nil
}

// GenesisRef returns a ref to an output of a made-up transaction that exists only in
// test snapshots
func GenesisRef(n byte, index uint32) common.OutputRef {
	return common.NewOutputRef(
		common.Blake2b256Hash([]byte{'g', 'e', 'n', 'e', 's', 'i', 's', n}),
		index,
	)
}

// NewSignedTransaction builds a transaction spending refs with outputs, signing every
// input with key
func NewSignedTransaction(
	key KeyPair,
	refs []common.OutputRef,
	outputs []common.Output,
) *common.Transaction {
	tx := common.NewTransaction(refs, outputs)
	if err := key.SignAll(tx); err != nil {
		panic(fmt.Sprintf("unexpected error signing transaction: %s", err))
	}
	return tx
}
