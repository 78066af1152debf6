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
	"fmt"
	"strconv"
	"strings"

	"github.com/blinklabs-io/utxobatch/ledger/common"
)

type MalformedTransactionError struct {
	Reason string
}

func (e MalformedTransactionError) Error() string {
	return "malformed transaction: " + e.Reason
}

type BadInputsError struct {
	Inputs []common.OutputRef
}

func (e BadInputsError) Error() string {
	return "bad input(s): " + joinRefs(e.Inputs)
}

type InvalidSignatureError struct {
	InputIndexes []int
}

func (e InvalidSignatureError) Error() string {
	tmpIndexes := make([]string, len(e.InputIndexes))
	for idx, inputIdx := range e.InputIndexes {
		tmpIndexes[idx] = strconv.Itoa(inputIdx)
	}
	return "invalid signature(s) for input(s): " + strings.Join(tmpIndexes, ", ")
}

type DuplicateInputError struct {
	Inputs []common.OutputRef
}

func (e DuplicateInputError) Error() string {
	return "input(s) claimed more than once: " + joinRefs(e.Inputs)
}

type NegativeOutputError struct {
	Outputs []common.Output
}

func (e NegativeOutputError) Error() string {
	tmpOutputs := make([]string, len(e.Outputs))
	for idx, tmpOutput := range e.Outputs {
		tmpOutputs[idx] = tmpOutput.String()
	}
	return "negative output(s): " + strings.Join(tmpOutputs, ", ")
}

type ValueNotConservedError struct {
	Consumed common.Amount
	Produced common.Amount
}

func (e ValueNotConservedError) Error() string {
	return fmt.Sprintf(
		"value not conserved: consumed %s, produced %s",
		e.Consumed,
		e.Produced,
	)
}

func joinRefs(refs []common.OutputRef) string {
	tmpRefs := make([]string, len(refs))
	for idx, ref := range refs {
		tmpRefs[idx] = ref.String()
	}
	return strings.Join(tmpRefs, ", ")
}
