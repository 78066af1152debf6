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

package common

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
)

// SignatureVerifierFunc reports whether sig is a valid signature by owner over payload.
// Implementations must be pure
type SignatureVerifierFunc func(owner Address, payload []byte, sig []byte) bool

// VerifyVKeySignature verifies an ed25519 signature against the provided public key and message.
func VerifyVKeySignature(pubKey, sig, msg []byte) error {
	if len(pubKey) != ed25519.PublicKeySize {
		return fmt.Errorf("invalid public key size: %d", len(pubKey))
	}
	if len(sig) != ed25519.SignatureSize {
		return fmt.Errorf("invalid signature size: %d", len(sig))
	}
	// Reject keys that are not a valid encoding of a curve point
	if _, err := new(edwards25519.Point).SetBytes(pubKey); err != nil {
		return fmt.Errorf("invalid public key: %w", err)
	}
	if !ed25519.Verify(ed25519.PublicKey(pubKey), msg, sig) {
		return errors.New("signature verification failed")
	}
	return nil
}

// VerifySignature is the default SignatureVerifierFunc. The owner address is the raw
// ed25519 public key of the output's owner
func VerifySignature(owner Address, payload []byte, sig []byte) bool {
	return VerifyVKeySignature(owner[:], sig, payload) == nil
}
