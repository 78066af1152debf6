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
	"bytes"
	"cmp"
	"errors"
	"fmt"

	"github.com/blinklabs-io/utxobatch/cbor"
)

// Related files:
//   - verify.go: signature verification for inputs
//   - ledger/utxo: the UtxoState implementation transactions are validated against
//   - ledger/validation: the rules applied to a Transaction

var ErrUtxoNotFound = errors.New("UTxO not found")

// OutputRef identifies a spendable output by the hash of the transaction that produced it
// and the position of the output within that transaction
type OutputRef struct {
	cbor.StructAsArray
	TxHash Blake2b256
	Index  uint32
}

func NewOutputRef(txHash Blake2b256, index uint32) OutputRef {
	return OutputRef{
		TxHash: txHash,
		Index:  index,
	}
}

func (r OutputRef) String() string {
	return fmt.Sprintf("%s#%d", r.TxHash, r.Index)
}

// Compare orders refs by transaction hash and then by output index
func (r OutputRef) Compare(other OutputRef) int {
	if ret := bytes.Compare(r.TxHash[:], other.TxHash[:]); ret != 0 {
		return ret
	}
	return cmp.Compare(r.Index, other.Index)
}

// Output is a value owned by an address. Outputs are never modified once created
type Output struct {
	Address Address
	Value   Amount
}

func NewOutput(addr Address, value Amount) Output {
	return Output{
		Address: addr,
		Value:   value,
	}
}

func (o Output) Equal(other Output) bool {
	return o.Address == other.Address && o.Value.Equal(other.Value)
}

func (o Output) String() string {
	return fmt.Sprintf("(%s, %s)", o.Address, o.Value)
}

type outputCbor struct {
	cbor.StructAsArray
	Address Address
	Value   amountCbor
}

func (o Output) MarshalCBOR() ([]byte, error) {
	return cbor.Encode(
		outputCbor{
			Address: o.Address,
			Value:   encodeAmount(o.Value),
		},
	)
}

func (o *Output) UnmarshalCBOR(data []byte) error {
	var tmp outputCbor
	if _, err := cbor.Decode(data, &tmp); err != nil {
		return err
	}
	value, err := decodeAmount(tmp.Value)
	if err != nil {
		return err
	}
	o.Address = tmp.Address
	o.Value = value
	return nil
}

// Input claims a previous output. The signature must be made by the owner of the
// referenced output over the transaction's signable payload for this input
type Input struct {
	cbor.StructAsArray
	Ref       OutputRef
	Signature []byte
}

// Utxo pairs an output with the ref it can be spent by
type Utxo struct {
	Ref    OutputRef
	Output Output
}

// UtxoState defines the interface for querying unspent outputs
type UtxoState interface {
	// UtxoById returns the unspent output for the ref, or an error wrapping
	// ErrUtxoNotFound if it does not exist
	UtxoById(OutputRef) (Utxo, error)
}

type Transaction struct {
	cbor.StructAsArray
	cbor.DecodeStoreCbor
	Inputs  []Input
	Outputs []Output
	hash    *Blake2b256
}

// transactionBody is the part of a transaction covered by its hash. Signatures are
// not included, so the hash is known before any input is signed
type transactionBody struct {
	cbor.StructAsArray
	Inputs  []OutputRef
	Outputs []Output
}

type signablePayload struct {
	cbor.StructAsArray
	InputIndex uint32
	Body       transactionBody
}

// NewTransaction creates an unsigned transaction spending the provided refs
func NewTransaction(refs []OutputRef, outputs []Output) *Transaction {
	t := &Transaction{}
	for _, ref := range refs {
		t.AddInput(ref)
	}
	for _, output := range outputs {
		t.AddOutput(output)
	}
	return t
}

func (t *Transaction) AddInput(ref OutputRef) {
	t.Inputs = append(t.Inputs, Input{Ref: ref})
	t.reset()
}

func (t *Transaction) AddOutput(output Output) {
	t.Outputs = append(t.Outputs, output)
	t.reset()
}

// AddSignature sets the signature for the input at the given index
func (t *Transaction) AddSignature(idx int, sig []byte) error {
	if idx < 0 || idx >= len(t.Inputs) {
		return fmt.Errorf("input index out of range: %d", idx)
	}
	t.Inputs[idx].Signature = sig
	t.reset()
	return nil
}

// reset drops the stored CBOR and the cached hash after a change made through the
// Add* methods
func (t *Transaction) reset() {
	t.SetCbor(nil)
	t.hash = nil
}

// InputRefs returns the refs claimed by the transaction, in input order
func (t *Transaction) InputRefs() []OutputRef {
	ret := make([]OutputRef, len(t.Inputs))
	for idx, input := range t.Inputs {
		ret[idx] = input.Ref
	}
	return ret
}

func (t *Transaction) body() transactionBody {
	outputs := make([]Output, len(t.Outputs))
	copy(outputs, t.Outputs)
	return transactionBody{
		Inputs:  t.InputRefs(),
		Outputs: outputs,
	}
}

// Hash returns the Blake2b-256 hash of the transaction body. The hash is computed once
// and cached until the transaction is changed with one of the Add* methods, so Inputs
// and Outputs must not be modified directly after calling it
func (t *Transaction) Hash() Blake2b256 {
	if t.hash == nil {
		bodyCbor, err := cbor.Encode(t.body())
		if err != nil {
			panic(fmt.Sprintf("unexpected error encoding transaction body: %s", err))
		}
		tmpHash := Blake2b256Hash(bodyCbor)
		t.hash = &tmpHash
	}
	return *t.hash
}

// SignablePayload returns the message signed for the input at the given index. It
// covers the full body and the input's position, but no signatures
func (t *Transaction) SignablePayload(idx int) ([]byte, error) {
	if idx < 0 || idx >= len(t.Inputs) {
		return nil, fmt.Errorf("input index out of range: %d", idx)
	}
	return cbor.Encode(
		signablePayload{
			InputIndex: uint32(idx), //nolint:gosec
			Body:       t.body(),
		},
	)
}

// Produced returns the outputs created by the transaction, addressed by this
// transaction's hash and their position in the output list
func (t *Transaction) Produced() []Utxo {
	txHash := t.Hash()
	ret := make([]Utxo, len(t.Outputs))
	for idx, output := range t.Outputs {
		ret[idx] = Utxo{
			Ref:    NewOutputRef(txHash, uint32(idx)), //nolint:gosec
			Output: output,
		}
	}
	return ret
}

// Fee returns the difference between the consumed and produced value, looking up
// consumed outputs in the provided state. Amounts rejected by CheckAmount are an error
func (t *Transaction) Fee(ls UtxoState) (Amount, error) {
	consumed := make([]Amount, 0, len(t.Inputs))
	for _, input := range t.Inputs {
		utxo, err := ls.UtxoById(input.Ref)
		if err != nil {
			return Amount{}, err
		}
		if err := CheckAmount(utxo.Output.Value); err != nil {
			return Amount{}, err
		}
		consumed = append(consumed, utxo.Output.Value)
	}
	produced := make([]Amount, 0, len(t.Outputs))
	for _, output := range t.Outputs {
		if err := CheckAmount(output.Value); err != nil {
			return Amount{}, err
		}
		produced = append(produced, output.Value)
	}
	return SumAmounts(consumed...).Sub(SumAmounts(produced...)), nil
}

func (t *Transaction) MarshalCBOR() ([]byte, error) {
	// Return stored CBOR if we have any
	cborData := t.Cbor()
	if cborData != nil {
		return cborData, nil
	}
	return cbor.EncodeGeneric(t)
}

func (t *Transaction) UnmarshalCBOR(data []byte) error {
	if err := cbor.DecodeGeneric(data, t); err != nil {
		return err
	}
	t.hash = nil
	t.SetCbor(data)
	return nil
}
