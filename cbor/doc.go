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

// Package cbor wraps github.com/fxamacker/cbor/v2 with the conventions used for
// transactions and ledger snapshots.
//
// Encoding is always deterministic (core deterministic map key ordering), so the
// bytes produced for a transaction body are stable and suitable for hashing and
// signing.
//
// Embeddable types for struct encoding:
//   - StructAsArray: embed to encode struct fields as a CBOR array instead of a map
//   - DecodeStoreCbor: embed to preserve the original CBOR bytes of a decoded object
//
// EncodeGeneric and DecodeGeneric encode/decode a struct while bypassing its own
// MarshalCBOR/UnmarshalCBOR methods, which is how those methods avoid recursing
// into themselves:
//
//	func (t *MyType) UnmarshalCBOR(data []byte) error {
//	    if err := cbor.DecodeGeneric(data, t); err != nil {
//	        return err
//	    }
//	    t.SetCbor(data)
//	    return nil
//	}
package cbor
