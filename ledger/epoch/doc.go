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

// Package epoch selects, from an unordered batch of candidate transactions, a
// mutually consistent subset to commit and computes the resulting ledger.
//
// Resolution is a single deterministic sweep. Candidates are put in the order
// chosen by an Ordering, then each one is validated against the working ledger
// as it stands after every earlier acceptance. A valid candidate is applied
// immediately, so later candidates may spend its outputs, and a candidate
// claiming an output already spent in the sweep is rejected. Rejected
// candidates are never retried within the same epoch.
//
// The sweep is not globally optimal: it does not maximize the number of
// accepted transactions or the total fee. Different orderings can accept
// different, equally valid subsets of the same batch.
//
// Sequencer chains epochs, feeding the ledger produced by one epoch into the
// next.
package epoch
