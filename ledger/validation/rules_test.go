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

package validation_test

import (
	"errors"
	"strings"
	"testing"

	test_ledger "github.com/blinklabs-io/utxobatch/internal/test/ledger"
	"github.com/blinklabs-io/utxobatch/ledger/common"
	"github.com/blinklabs-io/utxobatch/ledger/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testOwner    = test_ledger.NewKeyPair(1)
	testReceiver = test_ledger.NewKeyPair(2)
)

func testUtxoState() *test_ledger.MockUtxoState {
	return &test_ledger.MockUtxoState{
		Utxos: map[common.OutputRef]common.Output{
			test_ledger.GenesisRef(0, 0): common.NewOutput(testOwner.Address, common.NewAmount(10)),
			test_ledger.GenesisRef(0, 1): common.NewOutput(testOwner.Address, common.NewAmount(5)),
		},
	}
}

func testOutputs(values ...int64) []common.Output {
	ret := make([]common.Output, len(values))
	for idx, value := range values {
		ret[idx] = common.NewOutput(testReceiver.Address, common.NewAmount(value))
	}
	return ret
}

func TestUtxoValidateWellFormed(t *testing.T) {
	testDefs := []struct {
		name    string
		tx      *common.Transaction
		wantErr bool
	}{
		{
			name: "valid",
			tx: common.NewTransaction(
				[]common.OutputRef{test_ledger.GenesisRef(0, 0)},
				testOutputs(1),
			),
		},
		{
			name:    "no inputs",
			tx:      common.NewTransaction(nil, testOutputs(1)),
			wantErr: true,
		},
		{
			name: "no outputs",
			tx: common.NewTransaction(
				[]common.OutputRef{test_ledger.GenesisRef(0, 0)},
				nil,
			),
			wantErr: true,
		},
		{
			name: "exponent out of range",
			tx: common.NewTransaction(
				[]common.OutputRef{test_ledger.GenesisRef(0, 0)},
				[]common.Output{
					common.NewOutput(testReceiver.Address, common.NewAmount(1)),
					common.NewOutput(testReceiver.Address, decimal.New(1, 30000000)),
				},
			),
			wantErr: true,
		},
		{
			name: "too many digits",
			tx: common.NewTransaction(
				[]common.OutputRef{test_ledger.GenesisRef(0, 0)},
				[]common.Output{
					common.NewOutput(
						testReceiver.Address,
						decimal.RequireFromString(strings.Repeat("9", common.MaxAmountDigits+1)),
					),
				},
			),
			wantErr: true,
		},
		{
			name: "smallest allowed exponent",
			tx: common.NewTransaction(
				[]common.OutputRef{test_ledger.GenesisRef(0, 0)},
				[]common.Output{
					common.NewOutput(testReceiver.Address, decimal.New(1, -common.MaxAmountExponent)),
				},
			),
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			err := validation.UtxoValidateWellFormed(testDef.tx, testUtxoState(), common.VerifySignature)
			if !testDef.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.IsType(t, validation.MalformedTransactionError{}, err)
		})
	}
}

func TestUtxoValidateBadInputs(t *testing.T) {
	ls := testUtxoState()
	missingRef := test_ledger.GenesisRef(0, 2)
	tx := common.NewTransaction(
		[]common.OutputRef{test_ledger.GenesisRef(0, 0), missingRef},
		testOutputs(1),
	)
	err := validation.UtxoValidateBadInputs(tx, ls, common.VerifySignature)
	var badInputsErr validation.BadInputsError
	require.True(t, errors.As(err, &badInputsErr), "got error: %v", err)
	assert.Equal(t, []common.OutputRef{missingRef}, badInputsErr.Inputs)
	// An output equal in owner and value under a different ref does not count
	ls.Utxos[test_ledger.GenesisRef(1, 2)] = ls.Utxos[test_ledger.GenesisRef(0, 0)]
	assert.Error(t, validation.UtxoValidateBadInputs(tx, ls, common.VerifySignature))
	ls.Utxos[missingRef] = ls.Utxos[test_ledger.GenesisRef(0, 0)]
	assert.NoError(t, validation.UtxoValidateBadInputs(tx, ls, common.VerifySignature))
}

func TestUtxoValidateSignatures(t *testing.T) {
	ls := testUtxoState()
	refs := []common.OutputRef{test_ledger.GenesisRef(0, 0), test_ledger.GenesisRef(0, 1)}
	// Test helper function
	testRun := func(t *testing.T, name string, tx *common.Transaction, wantIndexes []int) {
		t.Run(
			name,
			func(t *testing.T) {
				err := validation.UtxoValidateSignatures(tx, ls, common.VerifySignature)
				if wantIndexes == nil {
					assert.NoError(t, err)
					return
				}
				var sigErr validation.InvalidSignatureError
				require.True(t, errors.As(err, &sigErr), "got error: %v", err)
				assert.Equal(t, wantIndexes, sigErr.InputIndexes)
			},
		)
	}
	testRun(t, "signed by owner", test_ledger.NewSignedTransaction(testOwner, refs, testOutputs(15)), nil)
	testRun(t, "signed by someone else", test_ledger.NewSignedTransaction(testReceiver, refs, testOutputs(15)), []int{0, 1})
	unsigned := common.NewTransaction(refs, testOutputs(15))
	testRun(t, "unsigned", unsigned, []int{0, 1})
	partial := common.NewTransaction(refs, testOutputs(15))
	require.NoError(t, testOwner.Sign(partial, 1))
	testRun(t, "partially signed", partial, []int{0})
	// A signature for one input is not valid for another
	swapped := test_ledger.NewSignedTransaction(testOwner, refs, testOutputs(15))
	swapped.Inputs[0].Signature, swapped.Inputs[1].Signature = swapped.Inputs[1].Signature, swapped.Inputs[0].Signature
	testRun(t, "swapped signatures", swapped, []int{0, 1})
	// Signature made before the outputs were changed
	tampered := test_ledger.NewSignedTransaction(testOwner, refs, testOutputs(15))
	tampered.Outputs[0] = common.NewOutput(testOwner.Address, common.NewAmount(15))
	testRun(t, "tampered outputs", tampered, []int{0, 1})
	// Missing outputs are left to the bad inputs rule
	missing := test_ledger.NewSignedTransaction(
		testOwner,
		[]common.OutputRef{test_ledger.GenesisRef(9, 0)},
		testOutputs(1),
	)
	testRun(t, "missing input", missing, nil)
}

func TestUtxoValidateSignaturesVerifier(t *testing.T) {
	var calls []common.Address
	verifier := func(owner common.Address, payload []byte, sig []byte) bool {
		calls = append(calls, owner)
		return true
	}
	tx := common.NewTransaction([]common.OutputRef{test_ledger.GenesisRef(0, 1)}, testOutputs(1))
	require.NoError(t, validation.UtxoValidateSignatures(tx, testUtxoState(), verifier))
	assert.Equal(t, []common.Address{testOwner.Address}, calls)
}

func TestUtxoValidateDuplicateInputs(t *testing.T) {
	ref := test_ledger.GenesisRef(0, 0)
	tx := common.NewTransaction([]common.OutputRef{ref, test_ledger.GenesisRef(0, 1), ref}, testOutputs(1))
	err := validation.UtxoValidateDuplicateInputs(tx, testUtxoState(), common.VerifySignature)
	var dupErr validation.DuplicateInputError
	require.True(t, errors.As(err, &dupErr), "got error: %v", err)
	assert.Equal(t, []common.OutputRef{ref}, dupErr.Inputs)
	tx = common.NewTransaction([]common.OutputRef{ref}, testOutputs(1))
	assert.NoError(t, validation.UtxoValidateDuplicateInputs(tx, testUtxoState(), common.VerifySignature))
}

func TestUtxoValidateNegativeOutputs(t *testing.T) {
	refs := []common.OutputRef{test_ledger.GenesisRef(0, 0)}
	tx := common.NewTransaction(refs, testOutputs(1, -1, 0))
	err := validation.UtxoValidateNegativeOutputs(tx, testUtxoState(), common.VerifySignature)
	var negErr validation.NegativeOutputError
	require.True(t, errors.As(err, &negErr), "got error: %v", err)
	require.Len(t, negErr.Outputs, 1)
	assert.True(t, negErr.Outputs[0].Value.Equal(common.NewAmount(-1)))
	// Zero is allowed
	tx = common.NewTransaction(refs, testOutputs(0))
	assert.NoError(t, validation.UtxoValidateNegativeOutputs(tx, testUtxoState(), common.VerifySignature))
}

func TestUtxoValidateValueNotConserved(t *testing.T) {
	refs := []common.OutputRef{test_ledger.GenesisRef(0, 0), test_ledger.GenesisRef(0, 1)}
	testDefs := []struct {
		name    string
		outputs []common.Output
		wantErr bool
	}{
		{name: "exact", outputs: testOutputs(10, 5)},
		{name: "with fee", outputs: testOutputs(10, 4)},
		{name: "zero outputs value", outputs: testOutputs(0)},
		{name: "too much", outputs: testOutputs(10, 6), wantErr: true},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			tx := common.NewTransaction(refs, testDef.outputs)
			err := validation.UtxoValidateValueNotConserved(tx, testUtxoState(), common.VerifySignature)
			if !testDef.wantErr {
				assert.NoError(t, err)
				return
			}
			var valueErr validation.ValueNotConservedError
			require.True(t, errors.As(err, &valueErr), "got error: %v", err)
			assert.True(t, valueErr.Consumed.Equal(common.NewAmount(15)))
			assert.True(t, valueErr.Produced.Equal(common.NewAmount(16)))
		})
	}
}

func TestUtxoValidateValueNotConservedFractional(t *testing.T) {
	value, err := common.NewAmountFromString("10.01")
	require.NoError(t, err)
	tx := common.NewTransaction(
		[]common.OutputRef{test_ledger.GenesisRef(0, 0)},
		[]common.Output{common.NewOutput(testReceiver.Address, value)},
	)
	assert.Error(t, validation.UtxoValidateValueNotConserved(tx, testUtxoState(), common.VerifySignature))
}
