package vectorstore

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const embeddingDims = 512

var (
	// Arabic code points commonly typed in place of their Persian forms, and
	// the zero-width non-joiner used inside Persian words.
	persianReplacer = strings.NewReplacer(
		"\u064a", "\u06cc", // ي -> ی
		"\u0649", "\u06cc", // ى -> ی
		"\u0643", "\u06a9", // ك -> ک
		"\u0629", "\u0647", // ة -> ه
		"\u200c", " ",
		"\u0640", "",
	)
)

// Normalize folds case, applies NFKC, unifies Arabic/Persian letter variants
// and collapses whitespace.
func Normalize(text string) string {
	text = norm.NFKC.String(text)
	text = cases.Fold().String(text)
	text = persianReplacer.Replace(text)
	return strings.Join(strings.Fields(text), " ")
}

// Tokens splits normalized text into letter/digit runs.
func Tokens(text string) []string {
	return strings.FieldsFunc(Normalize(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && !unicode.Is(unicode.Mn, r)
	})
}

// LocalEmbedding is a deterministic hashed bag of words and character
// trigrams. It needs no network and keeps lexical overlap measurable for
// both Persian and English text.
func LocalEmbedding(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, embeddingDims)
	for _, token := range Tokens(text) {
		vec[bucket("w:"+token)] += 2
		runes := []rune(token)
		for i := 0; i+3 <= len(runes); i++ {
			vec[bucket("g:"+string(runes[i:i+3]))]++
		}
	}

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		// chromem requires a non-zero vector to normalize.
		vec[0] = 1
		return vec, nil
	}
	length := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= length
	}
	return vec, nil
}

func bucket(s string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return int(h.Sum32() % embeddingDims)
}
