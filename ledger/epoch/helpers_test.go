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

package epoch_test

import (
	"io"
	"log/slog"
	"testing"

	test_ledger "github.com/blinklabs-io/utxobatch/internal/test/ledger"
	"github.com/blinklabs-io/utxobatch/ledger/common"
	"github.com/blinklabs-io/utxobatch/ledger/epoch"
	"github.com/blinklabs-io/utxobatch/ledger/utxo"
	"github.com/stretchr/testify/require"
)

var (
	keyA = test_ledger.NewKeyPair(1)
	keyB = test_ledger.NewKeyPair(2)
	keyC = test_ledger.NewKeyPair(3)

	// O1 in the scenarios
	refO1 = test_ledger.GenesisRef(0, 0)
	refO2 = test_ledger.GenesisRef(0, 1)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testLedger returns a ledger with O1 (10, owned by A) and O2 (5, owned by A)
func testLedger(t *testing.T) *utxo.Ledger {
	t.Helper()
	l, err := utxo.NewFromUtxos(
		[]common.Utxo{
			{Ref: refO1, Output: common.NewOutput(keyA.Address, common.NewAmount(10))},
			{Ref: refO2, Output: common.NewOutput(keyA.Address, common.NewAmount(5))},
		},
	)
	require.NoError(t, err)
	return l
}

func newResolver(t *testing.T, opts ...epoch.ResolverOptionFunc) *epoch.Resolver {
	t.Helper()
	opts = append([]epoch.ResolverOptionFunc{epoch.WithLogger(discardLogger())}, opts...)
	r, err := epoch.NewResolver(opts...)
	require.NoError(t, err)
	return r
}

func pay(key test_ledger.KeyPair, refs []common.OutputRef, to common.Address, value int64) *common.Transaction {
	return test_ledger.NewSignedTransaction(
		key,
		refs,
		[]common.Output{common.NewOutput(to, common.NewAmount(value))},
	)
}
