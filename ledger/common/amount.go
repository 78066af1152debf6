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
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/blinklabs-io/utxobatch/cbor"
	"github.com/shopspring/decimal"
)

const (
	// MaxAmountDigits is the largest number of significant digits an Amount may carry
	MaxAmountDigits = 64
	// MaxAmountExponent is the largest magnitude of an Amount's decimal exponent
	MaxAmountExponent = 64
)

var ErrAmountOutOfRange = errors.New("amount out of range")

// Amount is a monetary value. Amounts can be constructed negative, but a transaction
// producing one is never valid
type Amount = decimal.Decimal

// NewAmount returns an Amount for a whole number of units
func NewAmount(value int64) Amount {
	return decimal.NewFromInt(value)
}

// NewAmountFromString parses a decimal string such as "10.25". Values outside the
// range allowed by CheckAmount are rejected
func NewAmountFromString(value string) (Amount, error) {
	ret, err := decimal.NewFromString(value)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	if err := CheckAmount(ret); err != nil {
		return Amount{}, err
	}
	return ret, nil
}

// CheckAmount returns an error wrapping ErrAmountOutOfRange if the amount has more than
// MaxAmountDigits significant digits or an exponent beyond MaxAmountExponent
func CheckAmount(a Amount) error {
	exp := a.Exponent()
	if exp > MaxAmountExponent || exp < -MaxAmountExponent {
		return fmt.Errorf("%w: exponent %d", ErrAmountOutOfRange, exp)
	}
	// BitLen bounds the digit count without formatting the coefficient
	coef := a.Coefficient()
	if coef.BitLen() > MaxAmountDigits*4 || a.NumDigits() > MaxAmountDigits {
		return fmt.Errorf("%w: more than %d digits", ErrAmountOutOfRange, MaxAmountDigits)
	}
	return nil
}

// SumAmounts adds up the provided amounts
func SumAmounts(amounts ...Amount) Amount {
	return decimal.Sum(decimal.Zero, amounts...)
}

// amountCbor is the encoded form of an Amount: a coefficient and a base 10 exponent
type amountCbor struct {
	cbor.StructAsArray
	Coefficient *big.Int
	Exponent    int32
}

// encodeAmount returns the canonical form of an amount. Trailing zeros are moved from
// the coefficient into the exponent, so equal values always produce identical bytes
func encodeAmount(a Amount) amountCbor {
	coef := a.Coefficient()
	exp := a.Exponent()
	if coef.Sign() == 0 {
		return amountCbor{Coefficient: coef, Exponent: 0}
	}
	ten := big.NewInt(10)
	quo := new(big.Int)
	rem := new(big.Int)
	for exp < math.MaxInt32 {
		quo.QuoRem(coef, ten, rem)
		if rem.Sign() != 0 {
			break
		}
		coef.Set(quo)
		exp++
	}
	return amountCbor{Coefficient: coef, Exponent: exp}
}

func decodeAmount(tmp amountCbor) (Amount, error) {
	if tmp.Coefficient == nil {
		return Amount{}, errors.New("missing amount coefficient")
	}
	ret := decimal.NewFromBigInt(tmp.Coefficient, tmp.Exponent)
	if err := CheckAmount(ret); err != nil {
		return Amount{}, err
	}
	return ret, nil
}
