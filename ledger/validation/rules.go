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

package validation

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/utxobatch/ledger/common"
)

// UtxoValidationRuleFunc represents a function that validates a transaction against a
// specific rule. A nil return means the rule holds
type UtxoValidationRuleFunc func(
	tx *common.Transaction,
	ls common.UtxoState,
	verifier common.SignatureVerifierFunc,
) error

// DefaultRules are the rules a transaction must satisfy to be accepted
var DefaultRules = []UtxoValidationRuleFunc{
	UtxoValidateWellFormed,
	UtxoValidateBadInputs,
	UtxoValidateSignatures,
	UtxoValidateDuplicateInputs,
	UtxoValidateNegativeOutputs,
	UtxoValidateValueNotConserved,
}

// VerifyTransaction runs the provided validation rules in order and wraps
// the first error encountered into a ValidationError.
func VerifyTransaction(
	tx *common.Transaction,
	ls common.UtxoState,
	verifier common.SignatureVerifierFunc,
	validationRules []UtxoValidationRuleFunc,
) error {
	if tx == nil {
		return common.NewValidationError(
			common.ValidationErrorTypeTransaction,
			"transaction validation failed",
			nil,
			MalformedTransactionError{Reason: "nil transaction"},
		)
	}
	if verifier == nil {
		verifier = common.VerifySignature
	}
	for i, rule := range validationRules {
		if err := rule(tx, ls, verifier); err != nil {
			errType := common.ValidationErrorTypeTransaction
			var sigErr InvalidSignatureError
			if errors.As(err, &sigErr) {
				errType = common.ValidationErrorTypeSignature
			}
			return common.NewValidationError(
				errType,
				"transaction validation failed",
				map[string]any{
					"rule_index": i,
					"tx_hash":    tx.Hash().String(),
				},
				err,
			)
		}
	}
	return nil
}

// UtxoValidateWellFormed ensures that the transaction has at least one input and one
// output, and that every output amount is within the range allowed by common.CheckAmount
func UtxoValidateWellFormed(
	tx *common.Transaction,
	ls common.UtxoState,
	verifier common.SignatureVerifierFunc,
) error {
	if len(tx.Inputs) == 0 {
		return MalformedTransactionError{Reason: "input set empty"}
	}
	if len(tx.Outputs) == 0 {
		return MalformedTransactionError{Reason: "output set empty"}
	}
	for idx, tmpOutput := range tx.Outputs {
		if err := common.CheckAmount(tmpOutput.Value); err != nil {
			return MalformedTransactionError{
				Reason: fmt.Sprintf("output %d: %s", idx, err),
			}
		}
	}
	return nil
}

// UtxoValidateBadInputs ensures that every input refers to an output present in the ledger
// state. Lookup is by ref, never by output contents
func UtxoValidateBadInputs(
	tx *common.Transaction,
	ls common.UtxoState,
	verifier common.SignatureVerifierFunc,
) error {
	var badInputs []common.OutputRef
	for _, tmpInput := range tx.Inputs {
		if _, err := ls.UtxoById(tmpInput.Ref); err != nil {
			badInputs = append(badInputs, tmpInput.Ref)
		}
	}
	if len(badInputs) == 0 {
		return nil
	}
	return BadInputsError{
		Inputs: badInputs,
	}
}

// UtxoValidateSignatures ensures that every input is signed by the owner of the output it
// spends
func UtxoValidateSignatures(
	tx *common.Transaction,
	ls common.UtxoState,
	verifier common.SignatureVerifierFunc,
) error {
	var badIndexes []int
	for idx, tmpInput := range tx.Inputs {
		tmpUtxo, err := ls.UtxoById(tmpInput.Ref)
		if err != nil {
			// UtxoValidateBadInputs handles missing outputs
			continue
		}
		payload, err := tx.SignablePayload(idx)
		if err != nil {
			return err
		}
		if !verifier(tmpUtxo.Output.Address, payload, tmpInput.Signature) {
			badIndexes = append(badIndexes, idx)
		}
	}
	if len(badIndexes) == 0 {
		return nil
	}
	return InvalidSignatureError{
		InputIndexes: badIndexes,
	}
}

// UtxoValidateDuplicateInputs ensures that no output is claimed more than once by the
// same transaction
func UtxoValidateDuplicateInputs(
	tx *common.Transaction,
	ls common.UtxoState,
	verifier common.SignatureVerifierFunc,
) error {
	seen := make(map[common.OutputRef]struct{}, len(tx.Inputs))
	var dupInputs []common.OutputRef
	for _, tmpInput := range tx.Inputs {
		if _, ok := seen[tmpInput.Ref]; ok {
			dupInputs = append(dupInputs, tmpInput.Ref)
			continue
		}
		seen[tmpInput.Ref] = struct{}{}
	}
	if len(dupInputs) == 0 {
		return nil
	}
	return DuplicateInputError{
		Inputs: dupInputs,
	}
}

// UtxoValidateNegativeOutputs ensures that no output has a negative value
func UtxoValidateNegativeOutputs(
	tx *common.Transaction,
	ls common.UtxoState,
	verifier common.SignatureVerifierFunc,
) error {
	var badOutputs []common.Output
	for _, tmpOutput := range tx.Outputs {
		if tmpOutput.Value.IsNegative() {
			badOutputs = append(badOutputs, tmpOutput)
		}
	}
	if len(badOutputs) == 0 {
		return nil
	}
	return NegativeOutputError{
		Outputs: badOutputs,
	}
}

// UtxoValidateValueNotConserved ensures that the consumed value is at least the produced
// value. Any difference is the fee
func UtxoValidateValueNotConserved(
	tx *common.Transaction,
	ls common.UtxoState,
	verifier common.SignatureVerifierFunc,
) error {
	consumed := make([]common.Amount, 0, len(tx.Inputs))
	for _, tmpInput := range tx.Inputs {
		tmpUtxo, err := ls.UtxoById(tmpInput.Ref)
		// Ignore errors fetching the UTxO and exclude it from calculations
		if err != nil {
			continue
		}
		consumed = append(consumed, tmpUtxo.Output.Value)
	}
	produced := make([]common.Amount, 0, len(tx.Outputs))
	for _, tmpOutput := range tx.Outputs {
		produced = append(produced, tmpOutput.Value)
	}
	consumedValue := common.SumAmounts(consumed...)
	producedValue := common.SumAmounts(produced...)
	if consumedValue.GreaterThanOrEqual(producedValue) {
		return nil
	}
	return ValueNotConservedError{
		Consumed: consumedValue,
		Produced: producedValue,
	}
}
