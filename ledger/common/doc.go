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

// Package common provides the data model shared by the ledger packages.
//
// # Key Files by Purpose
//
// Core Types:
//   - common.go: Blake2b256 hash type
//   - address.go: Address, an ed25519 public key with a bech32 text form
//   - amount.go: Amount, a decimal monetary value
//   - tx.go: OutputRef, Output, Input, Utxo, UtxoState and Transaction
//
// Validation:
//   - verify.go: signature verification
//   - errors.go: ValidationError wrapper used by the validation rules
//
// # Testing
//
// Use MockUtxoState and KeyPair from internal/test/ledger for building signed
// transactions and ledger states in tests.
package common
