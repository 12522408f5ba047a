package hdwallet

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/decred/dcrd/hdkeychain/v3"
	"golang.org/x/crypto/sha3"
)

// CoinType is the BIP-44 coin_type for Ethereum and EVM-compatible chains.
// Every EVM network this wallet supports shares coin_type 60 — chain
// identity is carried by the chain ID in the transaction, not the
// derivation path.
const CoinType = 60

// secp256k1 curve parameters, needed to decompress the 33-byte public key
// decred's hdkeychain returns into the 65-byte form Keccak-256 hashing
// expects.
//
//nolint:gochecknoglobals // curve constants, not mutable state
var (
	secp256k1P *big.Int
	secp256k1B = big.NewInt(7)
)

//nolint:gochecknoinits // one-time parse of a fixed curve constant
func init() {
	var ok bool
	secp256k1P, ok = new(big.Int).SetString("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFC2F", 16)
	if !ok {
		panic("hdwallet: failed to parse secp256k1 field prime")
	}
}

// hdNetParams satisfies hdkeychain.NetworkParams using the standard
// Bitcoin mainnet HD version bytes. BIP-32 derivation itself is
// coin-agnostic; the version bytes only affect the extended-key's
// serialized text form, which this package never exposes.
type hdNetParams struct{}

func (hdNetParams) HDPrivKeyVersion() [4]byte { return [4]byte{0x04, 0x88, 0xAD, 0xE4} }
func (hdNetParams) HDPubKeyVersion() [4]byte  { return [4]byte{0x04, 0x88, 0xB2, 0x1E} }

var (
	// ErrInvalidPublicKeyLength indicates a compressed public key that
	// isn't 33 bytes.
	ErrInvalidPublicKeyLength = errors.New("invalid compressed public key length")

	// ErrInvalidPublicKeyPrefix indicates a compressed public key byte 0
	// that is neither 0x02 nor 0x03.
	ErrInvalidPublicKeyPrefix = errors.New("invalid public key prefix")

	// ErrInvalidAddressLength indicates an address byte slice that isn't
	// 20 bytes.
	ErrInvalidAddressLength = errors.New("invalid address length")
)

// Address is a derived EVM account: its derivation path, index, checksum
// address, and public key.
type Address struct {
	Path      string `json:"path"`
	Index     uint32 `json:"index"`
	Address   string `json:"address"`
	PublicKey string `json:"public_key"`
}

// DerivationPath returns the BIP-44 path m/44'/60'/account'/0/index.
func DerivationPath(account, index uint32) string {
	return fmt.Sprintf("m/44'/%d'/%d'/0/%d", CoinType, account, index)
}

// DeriveAddress derives the EVM account at account/index from a BIP-39
// seed.
func DeriveAddress(seed []byte, account, index uint32) (*Address, error) {
	masterKey, err := hdkeychain.NewMaster(seed, hdNetParams{})
	if err != nil {
		return nil, fmt.Errorf("hdwallet: creating master key: %w", err)
	}

	key, err := deriveBIP44Key(masterKey, account, index)
	if err != nil {
		return nil, err
	}

	address, pubKeyHex, err := deriveETHAddress(key)
	if err != nil {
		return nil, err
	}

	return &Address{
		Path:      DerivationPath(account, index),
		Index:     index,
		Address:   address,
		PublicKey: pubKeyHex,
	}, nil
}

// DerivePrivateKey derives the raw 32-byte secp256k1 private key at
// account/index. The caller must zero the returned slice (e.g. via
// secure.Zero) once the one-shot signer built from it is no longer
// needed.
func DerivePrivateKey(seed []byte, account, index uint32) ([]byte, error) {
	masterKey, err := hdkeychain.NewMaster(seed, hdNetParams{})
	if err != nil {
		return nil, fmt.Errorf("hdwallet: creating master key: %w", err)
	}

	key, err := deriveBIP44Key(masterKey, account, index)
	if err != nil {
		return nil, err
	}

	serialized, err := key.SerializedPrivKey()
	if err != nil {
		return nil, fmt.Errorf("hdwallet: serializing private key: %w", err)
	}

	privKey := make([]byte, 32)
	copy(privKey, serialized)
	return privKey, nil
}

// deriveBIP44Key walks m/44'/60'/account'/0/index.
func deriveBIP44Key(masterKey *hdkeychain.ExtendedKey, account, index uint32) (*hdkeychain.ExtendedKey, error) {
	purposeKey, err := masterKey.ChildBIP32Std(hdkeychain.HardenedKeyStart + 44)
	if err != nil {
		return nil, fmt.Errorf("hdwallet: deriving purpose key: %w", err)
	}

	coinTypeKey, err := purposeKey.ChildBIP32Std(hdkeychain.HardenedKeyStart + CoinType)
	if err != nil {
		return nil, fmt.Errorf("hdwallet: deriving coin type key: %w", err)
	}

	accountKey, err := coinTypeKey.ChildBIP32Std(hdkeychain.HardenedKeyStart + account)
	if err != nil {
		return nil, fmt.Errorf("hdwallet: deriving account key: %w", err)
	}

	changeKey, err := accountKey.ChildBIP32Std(0)
	if err != nil {
		return nil, fmt.Errorf("hdwallet: deriving change key: %w", err)
	}

	indexKey, err := changeKey.ChildBIP32Std(index)
	if err != nil {
		return nil, fmt.Errorf("hdwallet: deriving index key: %w", err)
	}

	return indexKey, nil
}

// deriveETHAddress computes the EIP-55 checksummed address and hex public
// key for a derived BIP-32 key.
func deriveETHAddress(key *hdkeychain.ExtendedKey) (address, pubKeyHex string, err error) {
	pubKeyCompressed := key.SerializedPubKey()

	pubKeyUncompressed, err := decompressPublicKey(pubKeyCompressed)
	if err != nil {
		return "", "", fmt.Errorf("hdwallet: decompressing public key: %w", err)
	}

	hash := sha3.NewLegacyKeccak256()
	hash.Write(pubKeyUncompressed[1:]) // skip the 0x04 prefix
	addrBytes := hash.Sum(nil)[12:]    // last 20 bytes

	address, err = toChecksumAddress(addrBytes)
	if err != nil {
		return "", "", fmt.Errorf("hdwallet: checksumming address: %w", err)
	}

	pubKeyHex = hex.EncodeToString(pubKeyUncompressed[1:])
	return address, pubKeyHex, nil
}

// checksumChar applies EIP-55 to one hex character of an address given
// the corresponding nibble of keccak256(lowercase address hex).
func checksumChar(c, hashByte byte, isOddPosition bool) byte {
	if c >= '0' && c <= '9' {
		return c
	}

	nibble := hashByte >> 4
	if isOddPosition {
		nibble = hashByte & 0x0F
	}

	if nibble >= 8 {
		return c - 32 // uppercase
	}
	return c
}

// toChecksumAddress converts a 20-byte address to an EIP-55 checksummed
// hex string.
func toChecksumAddress(addr []byte) (string, error) {
	const ethAddressBytes = 20
	if len(addr) != ethAddressBytes {
		return "", fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAddressLength, ethAddressBytes, len(addr))
	}

	addrHex := hex.EncodeToString(addr)

	hash := sha3.NewLegacyKeccak256()
	hash.Write([]byte(addrHex))
	hashBytes := hash.Sum(nil)

	const hexLen = ethAddressBytes * 2
	result := make([]byte, hexLen)
	for i := 0; i < hexLen; i++ {
		result[i] = checksumChar(addrHex[i], hashBytes[i/2], i%2 == 1)
	}

	return "0x" + string(result), nil
}

// IsValidAddress reports whether address is a syntactically well-formed
// 0x-prefixed 20-byte hex address. It does not verify EIP-55 casing —
// callers that need checksum validation should recompute and compare via
// toChecksumAddress.
func IsValidAddress(address string) bool {
	if len(address) != 42 || !strings.HasPrefix(address, "0x") {
		return false
	}
	for _, c := range address[2:] {
		if !isHexChar(c) {
			return false
		}
	}
	return true
}

func isHexChar(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// decompressPublicKey expands a 33-byte compressed secp256k1 public key
// into its 65-byte uncompressed form via the curve equation
// y^2 = x^3 + 7 (mod p) and a modular square root, computed as the
// direct exponentiation y = (y^2)^((p+1)/4) since p ≡ 3 (mod 4).
func decompressPublicKey(compressed []byte) ([]byte, error) {
	if len(compressed) != 33 {
		return nil, ErrInvalidPublicKeyLength
	}

	prefix := compressed[0]
	if prefix != 0x02 && prefix != 0x03 {
		return nil, ErrInvalidPublicKeyPrefix
	}

	x := new(big.Int).SetBytes(compressed[1:33])

	x3 := new(big.Int).Exp(x, big.NewInt(3), secp256k1P)
	y2 := new(big.Int).Add(x3, secp256k1B)
	y2.Mod(y2, secp256k1P)

	exp := new(big.Int).Add(secp256k1P, big.NewInt(1))
	exp.Div(exp, big.NewInt(4))
	y := new(big.Int).Exp(y2, exp, secp256k1P)

	isOdd := y.Bit(0) == 1
	wantOdd := prefix == 0x03
	if isOdd != wantOdd {
		y.Sub(secp256k1P, y)
	}

	uncompressed := make([]byte, 65)
	uncompressed[0] = 0x04

	xBytes := x.Bytes()
	yBytes := y.Bytes()
	copy(uncompressed[1+(32-len(xBytes)):33], xBytes)
	copy(uncompressed[33+(32-len(yBytes)):65], yBytes)

	return uncompressed, nil
}
