// Package hdwallet implements BIP-39 mnemonic handling and BIP-32/BIP-44
// key derivation for EVM accounts. It is the sole owner of seed material
// during wallet creation and import; callers receive derived addresses
// and public keys, never a live seed, except through DerivePrivateKey
// which the wallet service uses to build a one-shot signer.
package hdwallet

import (
	"errors"
	"math"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/tyler-smith/go-bip39"
)

var (
	// ErrInvalidWordCount indicates the mnemonic must be 12 or 24 words.
	ErrInvalidWordCount = errors.New("word count must be 12 or 24")

	// ErrInvalidMnemonic indicates the mnemonic failed word-list or
	// checksum validation.
	ErrInvalidMnemonic = errors.New("invalid mnemonic phrase")

	whitespaceRegex   = regexp.MustCompile(`\s+`)
	numberedListRegex = regexp.MustCompile(`(?m)^\s*\d+[.):]\s*`)
	bulletListRegex   = regexp.MustCompile(`(?m)^\s*[-*•]\s*`)
)

// GenerateMnemonic creates a new BIP-39 mnemonic. wordCount must be 12
// (128 bits of entropy) or 24 (256 bits).
func GenerateMnemonic(wordCount int) (string, error) {
	var bitSize int
	switch wordCount {
	case 12:
		bitSize = 128
	case 24:
		bitSize = 256
	default:
		return "", ErrInvalidWordCount
	}

	entropy, err := bip39.NewEntropy(bitSize)
	if err != nil {
		return "", err
	}

	return bip39.NewMnemonic(entropy)
}

// ValidateMnemonic checks word count, word-list membership, and checksum.
func ValidateMnemonic(mnemonic string) error {
	if mnemonic == "" {
		return ErrInvalidMnemonic
	}

	normalized := NormalizeMnemonicInput(mnemonic)

	words := strings.Fields(normalized)
	if len(words) != 12 && len(words) != 24 {
		return ErrInvalidMnemonic
	}

	if !bip39.IsMnemonicValid(normalized) {
		return ErrInvalidMnemonic
	}

	return nil
}

// NormalizeMnemonicInput lowercases, strips numbered-list and bullet
// prefixes a user might paste in from a note-taking app, replaces commas
// with spaces, and collapses whitespace.
func NormalizeMnemonicInput(input string) string {
	input = strings.ToLower(input)
	input = numberedListRegex.ReplaceAllString(input, " ")
	input = bulletListRegex.ReplaceAllString(input, " ")
	input = strings.ReplaceAll(input, ",", " ")
	input = whitespaceRegex.ReplaceAllString(input, " ")
	return strings.TrimSpace(input)
}

// Seed converts a validated mnemonic and optional passphrase into a
// 64-byte BIP-39 seed. The caller is responsible for wrapping the result
// in a secure.Bytes and zeroing it after derivation.
func Seed(mnemonic, passphrase string) ([]byte, error) {
	normalized := NormalizeMnemonicInput(mnemonic)

	if !bip39.IsMnemonicValid(normalized) {
		return nil, ErrInvalidMnemonic
	}

	return bip39.NewSeed(normalized, passphrase), nil
}

// WordList returns the BIP-39 English word list.
func WordList() []string {
	return bip39.GetWordList()
}

// IsValidWord reports whether word appears in the BIP-39 English word list.
func IsValidWord(word string) bool {
	_, ok := bip39.GetWordIndex(strings.ToLower(word))
	return ok
}

// MaxTypoDistance is the maximum Levenshtein distance considered close
// enough to suggest a correction. Beyond this the words are treated as
// unrelated rather than a likely typo.
const MaxTypoDistance = 2

// Typo describes a word that failed word-list membership and, if one was
// found, the closest valid word.
type Typo struct {
	Index      int
	Word       string
	Suggestion string
	Distance   int
}

// SuggestWord returns the closest BIP-39 word to input by Levenshtein
// distance, or "" if nothing is within MaxTypoDistance.
func SuggestWord(input string) string {
	input = strings.ToLower(input)
	wordList := bip39.GetWordList()

	minDist := math.MaxInt
	var suggestion string

	for _, word := range wordList {
		dist := levenshtein.ComputeDistance(input, word)
		if dist == 0 {
			return word
		}
		if dist < minDist {
			minDist = dist
			suggestion = word
		}
	}

	if minDist <= MaxTypoDistance {
		return suggestion
	}
	return ""
}

// DetectTypos scans a mnemonic and reports every word absent from the
// BIP-39 word list, with a suggested correction where one exists.
func DetectTypos(mnemonic string) []Typo {
	if mnemonic == "" {
		return nil
	}

	normalized := NormalizeMnemonicInput(mnemonic)
	words := strings.Fields(normalized)

	var typos []Typo
	for i, word := range words {
		if IsValidWord(word) {
			continue
		}

		suggestion := SuggestWord(word)
		distance := 0
		if suggestion != "" {
			distance = levenshtein.ComputeDistance(word, suggestion)
		}

		typos = append(typos, Typo{
			Index:      i,
			Word:       word,
			Suggestion: suggestion,
			Distance:   distance,
		})
	}

	return typos
}
