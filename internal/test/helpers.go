package test

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/blinklabs-io/utxobatch/ledger/common"
)

// DecodeHexString is a helper function for tests that decodes hex strings. It doesn't return
// an error value, which makes it usable inline.
func DecodeHexString(hexData string) []byte {
	// Strip off any leading/trailing whitespace in hex string
	hexData = strings.TrimSpace(hexData)
	decoded, err := hex.DecodeString(hexData)
	if err != nil {
		panic(fmt.Sprintf("error decoding hex: %s", err))
	}
	return decoded
}

// DecodeHash is like DecodeHexString, but returns a transaction hash
func DecodeHash(hexData string) common.Blake2b256 {
	ret, err := common.NewBlake2b256FromHex(strings.TrimSpace(hexData))
	if err != nil {
		panic(fmt.Sprintf("error decoding hash: %s", err))
	}
	return ret
}
