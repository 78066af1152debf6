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
	"github.com/blinklabs-io/utxobatch/ledger/common"
)

// Validator decides whether a transaction can be applied to a ledger state
type Validator struct {
	rules    []UtxoValidationRuleFunc
	verifier common.SignatureVerifierFunc
}

// ValidatorOptionFunc is a type that represents functions that modify the Validator config
type ValidatorOptionFunc func(*Validator)

// WithRules specifies the validation rules to run. The default is DefaultRules
func WithRules(rules ...UtxoValidationRuleFunc) ValidatorOptionFunc {
	return func(v *Validator) {
		v.rules = rules
	}
}

// WithVerifier specifies the signature verifier. The default is common.VerifySignature
func WithVerifier(verifier common.SignatureVerifierFunc) ValidatorOptionFunc {
	return func(v *Validator) {
		v.verifier = verifier
	}
}

func NewValidator(opts ...ValidatorOptionFunc) *Validator {
	v := &Validator{
		rules:    DefaultRules,
		verifier: common.VerifySignature,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate returns nil if tx is valid against ls, or an error describing the first rule
// that does not hold
func (v *Validator) Validate(tx *common.Transaction, ls common.UtxoState) error {
	return VerifyTransaction(tx, ls, v.verifier, v.rules)
}

// IsValid reports whether tx is valid against ls
func (v *Validator) IsValid(tx *common.Transaction, ls common.UtxoState) bool {
	return v.Validate(tx, ls) == nil
}
