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

package epoch

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/blinklabs-io/utxobatch/ledger/common"
)

// Ordering is the policy deciding the order in which candidates are swept
type Ordering int

const (
	// OrderInput processes candidates in the order they were submitted
	OrderInput Ordering = iota
	// OrderHash processes candidates by ascending transaction hash. The result does
	// not depend on submission order
	OrderHash
	// OrderFeeDescending processes candidates by descending fee, computed against the
	// starting ledger. Candidates whose fee can't be computed there, such as those
	// spending outputs created in the same epoch, follow in submission order
	OrderFeeDescending
)

func (o Ordering) valid() bool {
	switch o {
	case OrderInput, OrderHash, OrderFeeDescending:
		return true
	}
	return false
}

func (o Ordering) String() string {
	switch o {
	case OrderInput:
		return "input"
	case OrderHash:
		return "hash"
	case OrderFeeDescending:
		return "fee-descending"
	default:
		return fmt.Sprintf("Ordering(%d)", int(o))
	}
}

type candidate struct {
	tx       *common.Transaction
	hash     common.Blake2b256
	fee      common.Amount
	feeKnown bool
}

// order returns the candidates in processing order. Ties always fall back to
// submission order, and nil candidates are kept so that they are reported as rejected
func (o Ordering) order(
	txs []*common.Transaction,
	ls common.UtxoState,
) []*common.Transaction {
	candidates := make([]candidate, len(txs))
	for idx, tx := range txs {
		candidates[idx] = candidate{tx: tx}
	}
	switch o {
	case OrderHash:
		for idx := range candidates {
			if candidates[idx].tx != nil {
				candidates[idx].hash = candidates[idx].tx.Hash()
			}
		}
		slices.SortStableFunc(candidates, func(a, b candidate) int {
			// nil candidates go last
			if (a.tx == nil) != (b.tx == nil) {
				if a.tx == nil {
					return 1
				}
				return -1
			}
			return bytes.Compare(a.hash[:], b.hash[:])
		})
	case OrderFeeDescending:
		for idx := range candidates {
			if candidates[idx].tx == nil {
				continue
			}
			fee, err := candidates[idx].tx.Fee(ls)
			if err != nil {
				continue
			}
			candidates[idx].fee = fee
			candidates[idx].feeKnown = true
		}
		slices.SortStableFunc(candidates, func(a, b candidate) int {
			if a.feeKnown != b.feeKnown {
				if a.feeKnown {
					return -1
				}
				return 1
			}
			if !a.feeKnown {
				return 0
			}
			return b.fee.Cmp(a.fee)
		})
	}
	ret := make([]*common.Transaction, len(candidates))
	for idx, c := range candidates {
		ret[idx] = c.tx
	}
	return ret
}
