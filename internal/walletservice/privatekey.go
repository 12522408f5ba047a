package walletservice

import (
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/aurumlabs/aurum-core/pkg/aerr"
)

// secp256k1GroupOrder is the curve order n; a valid private key scalar
// must be in [1, n-1].
var secp256k1GroupOrder, _ = new(big.Int).SetString(
	"FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141", 16,
)

// decodePrivateKeyHex validates and decodes a 64-hex-character private
// key, rejecting zero and out-of-range scalars before they ever reach
// crypto.ToECDSA.
func decodePrivateKeyHex(hexKey string) ([]byte, error) {
	hexKey = strings.TrimPrefix(hexKey, "0x")
	if len(hexKey) != 64 {
		return nil, aerr.ErrInvalidPrivateKey
	}

	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, aerr.ErrInvalidPrivateKey
	}

	scalar := new(big.Int).SetBytes(raw)
	if scalar.Sign() == 0 || scalar.Cmp(secp256k1GroupOrder) >= 0 {
		return nil, aerr.ErrInvalidPrivateKey
	}

	return raw, nil
}

// addressFromPrivateKey derives the EIP-55 checksummed address
// corresponding to a raw 32-byte private key.
func addressFromPrivateKey(raw []byte) (string, error) {
	privKey, err := crypto.ToECDSA(raw)
	if err != nil {
		return "", aerr.ErrInvalidPrivateKey
	}
	return crypto.PubkeyToAddress(privKey.PublicKey).Hex(), nil
}
