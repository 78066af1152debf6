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

package utxo

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/blinklabs-io/utxobatch/cbor"
	"github.com/blinklabs-io/utxobatch/ledger/common"
)

// Compile-time check that Ledger implements UtxoState
var _ common.UtxoState = (*Ledger)(nil)

var ErrUtxoExists = errors.New("UTxO already exists")

// Ledger is a snapshot of every unspent output at a point in time, keyed by ref.
// A Ledger is not safe for concurrent use
type Ledger struct {
	utxos map[common.OutputRef]common.Output
}

// New returns an empty ledger
func New() *Ledger {
	return &Ledger{
		utxos: make(map[common.OutputRef]common.Output),
	}
}

// NewFromUtxos returns a ledger containing the provided UTxOs. Duplicate refs are an error
func NewFromUtxos(utxos []common.Utxo) (*Ledger, error) {
	l := New()
	for _, utxo := range utxos {
		if err := l.Add(utxo.Ref, utxo.Output); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// NewFrom returns a copy of other. Later changes to either ledger are not visible in
// the other one
func NewFrom(other *Ledger) *Ledger {
	if other == nil {
		return New()
	}
	return other.Clone()
}

// Clone returns an independent copy of the ledger. Outputs are immutable values, so
// copying the map is a full copy
func (l *Ledger) Clone() *Ledger {
	return &Ledger{
		utxos: maps.Clone(l.utxos),
	}
}

func (l *Ledger) Get(ref common.OutputRef) (common.Output, bool) {
	output, ok := l.utxos[ref]
	return output, ok
}

func (l *Ledger) Contains(ref common.OutputRef) bool {
	_, ok := l.utxos[ref]
	return ok
}

// Remove marks the output as spent. Removing a ref that is not present does nothing
func (l *Ledger) Remove(ref common.OutputRef) {
	delete(l.utxos, ref)
}

// Add makes a new output spendable. A ref can only be present once
func (l *Ledger) Add(ref common.OutputRef, output common.Output) error {
	if _, ok := l.utxos[ref]; ok {
		return fmt.Errorf("%w: %s", ErrUtxoExists, ref)
	}
	l.utxos[ref] = output
	return nil
}

// Apply spends every output consumed by tx and adds every output it produces. The
// ledger is left unchanged if a consumed ref is missing or a produced ref is present
func (l *Ledger) Apply(tx *common.Transaction) error {
	consumed := tx.InputRefs()
	for _, ref := range consumed {
		if !l.Contains(ref) {
			return fmt.Errorf("%w: %s", common.ErrUtxoNotFound, ref)
		}
	}
	produced := tx.Produced()
	for _, utxo := range produced {
		if l.Contains(utxo.Ref) {
			return fmt.Errorf("%w: %s", ErrUtxoExists, utxo.Ref)
		}
	}
	for _, ref := range consumed {
		l.Remove(ref)
	}
	for _, utxo := range produced {
		l.utxos[utxo.Ref] = utxo.Output
	}
	return nil
}

func (l *Ledger) Len() int {
	return len(l.utxos)
}

// AllRefs returns every ref in the ledger, sorted by transaction hash and output index
func (l *Ledger) AllRefs() []common.OutputRef {
	ret := slices.Collect(maps.Keys(l.utxos))
	slices.SortFunc(ret, common.OutputRef.Compare)
	return ret
}

// Utxos returns every UTxO in the ledger in the same order as AllRefs
func (l *Ledger) Utxos() []common.Utxo {
	refs := l.AllRefs()
	ret := make([]common.Utxo, len(refs))
	for idx, ref := range refs {
		ret[idx] = common.Utxo{Ref: ref, Output: l.utxos[ref]}
	}
	return ret
}

func (l *Ledger) UtxoById(ref common.OutputRef) (common.Utxo, error) {
	output, ok := l.utxos[ref]
	if !ok {
		return common.Utxo{}, fmt.Errorf("%w: %s", common.ErrUtxoNotFound, ref)
	}
	return common.Utxo{Ref: ref, Output: output}, nil
}

type ledgerEntry struct {
	cbor.StructAsArray
	Ref    common.OutputRef
	Output common.Output
}

// MarshalCBOR encodes the ledger as a list of [ref, output] pairs in AllRefs order
func (l *Ledger) MarshalCBOR() ([]byte, error) {
	utxos := l.Utxos()
	entries := make([]ledgerEntry, len(utxos))
	for idx, utxo := range utxos {
		entries[idx] = ledgerEntry{Ref: utxo.Ref, Output: utxo.Output}
	}
	return cbor.Encode(entries)
}

// UnmarshalCBOR replaces the ledger contents with the decoded snapshot. A snapshot that
// is not a list or that contains a ref twice is an error, and leaves the ledger unchanged
func (l *Ledger) UnmarshalCBOR(data []byte) error {
	count, err := cbor.ListLength(data)
	if err != nil {
		return fmt.Errorf("decode ledger snapshot: %w", err)
	}
	entries := make([]ledgerEntry, 0, count)
	if _, err := cbor.Decode(data, &entries); err != nil {
		return err
	}
	tmp := &Ledger{
		utxos: make(map[common.OutputRef]common.Output, len(entries)),
	}
	for _, entry := range entries {
		if err := tmp.Add(entry.Ref, entry.Output); err != nil {
			return err
		}
	}
	l.utxos = tmp.utxos
	return nil
}
