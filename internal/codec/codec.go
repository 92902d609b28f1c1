package codec

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf16"

	"github.com/danielpatrickdp/uqrc-engine/internal/vector"
)

// #region dictionary
// FallbackDictionary is used when the input has no tokens.
var FallbackDictionary = []string{"dream", "echo", "signal", "loop", "pulse"}

// maxDecodedTokens caps the length of a decoded utterance.
const maxDecodedTokens = 3

// Dictionary returns the whitespace tokens of input, or FallbackDictionary if blank.
func Dictionary(input string) []string {
	tokens := strings.Fields(input)
	if len(tokens) == 0 {
		out := make([]string, len(FallbackDictionary))
		copy(out, FallbackDictionary)
		return out
	}
	return tokens
}

// #endregion dictionary

// #region encode
// Encode accumulates UTF-16 code units into dim buckets (index mod dim),
// scaled by 1/255 and normalized. Characters outside the BMP contribute both
// surrogates. Empty text encodes to the zero vector.
func Encode(text string, dim int) vector.Vector {
	v := vector.Zeros(dim)
	if text == "" || dim <= 0 {
		return v
	}
	for i, unit := range utf16.Encode([]rune(text)) {
		v[i%dim] += float64(unit) / 255
	}
	return vector.Normalize(v)
}

// #endregion encode

// #region decode
// Decode projects u onto the dictionary: the indices of the top
// min(3, len(dictionary)) components, each taken modulo the dictionary length.
// A nil dictionary is derived from input.
func Decode(u vector.Vector, input string, dictionary []string) string {
	if dictionary == nil {
		dictionary = Dictionary(input)
	}
	if len(dictionary) == 0 {
		dictionary = []string{FallbackDictionary[0]}
	}

	idx := make([]int, len(u))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return u[idx[a]] > u[idx[b]]
	})

	n := min(maxDecodedTokens, len(dictionary), len(idx))
	words := make([]string, 0, n)
	for _, i := range idx[:n] {
		words = append(words, dictionary[i%len(dictionary)])
	}
	return strings.Join(words, " ")
}

// #endregion decode

// #region turn-completion
var terminalPunctuation = regexp.MustCompile(`[.!?]$`)

// TurnCompletion estimates how finished an utterance is:
// min(1, min(1, tokens/12)*0.7 + 0.3 if it ends in terminal punctuation).
func TurnCompletion(input string, dictionary []string) float64 {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0
	}
	tokenScore := min(1, float64(len(dictionary))/12)
	var terminal float64
	if terminalPunctuation.MatchString(trimmed) {
		terminal = 0.3
	}
	return min(1, tokenScore*0.7+terminal)
}

// #endregion turn-completion
