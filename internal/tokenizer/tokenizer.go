// Package tokenizer maps arbitrary source text into the canonical,
// full-text-indexable token string shared by the Store and the Query
// Rewriter, and can reverse that mapping for snippet display.
//
// The same Tokenize call is used to build code_entities columns at index
// time and to normalize query leaves at search time, so the stored index
// and the search query always share one vocabulary (see the symmetry
// contract in Tokenize's doc comment).
package tokenizer

import (
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// maxNonWordRun bounds a single maximal run of non-word bytes before
// Tokenize treats it as pathological input and engages the recovery
// layer below. RE2 has no stack/JIT failure mode of its own, so this
// guard stands in for the "stack/jit-limit" recovery the engine-neutral
// failure contract describes.
const maxNonWordRun = 2048

const hexDigits = "0123456789abcdef"

// Tokenizer tokenizes source text and query leaves. Its zero value is not
// usable; construct one with New.
type Tokenizer struct {
	// dev gates the persistent-failure branch: when true, a Tokenize
	// call that survives every recovery layer still unresolved returns
	// a TokenizationError instead of degrading silently.
	dev bool
}

// New returns a Tokenizer. dev should mirror config.Config.Dev.
func New(dev bool) *Tokenizer {
	return &Tokenizer{dev: dev}
}

// Tokenize maps s into its canonical space-joined token string.
//
// Splitting rules (applied as one pass, equivalent to splitting on the
// union of): whitespace runs; word boundaries; camelCase lowercase to
// uppercase transitions; either side of '_'; immediately before any
// non-word character. Empty parts and bare "_" parts are discarded.
//
// Per-part normalization: every '"' is first replaced with '\'' (folding
// the two quote styles into one token so they never collide with FTS
// phrase syntax); then every maximal run of non-word bytes is replaced
// with T<hex>K, where <hex> is the lowercase, variable-length, byte-level
// hex encoding of the run (so "->" becomes one token, T2d3eK, not two).
//
// Symmetry contract: for any leaf term w in a user query, Tokenize(w)
// must match byte-for-byte the token substring Tokenize would emit for
// the same textual occurrence of w inside a larger source string. This
// holds here because splitting and normalization are purely local to
// each maximal word/non-word run; no rule looks outside that run.
//
// Failure handling applies three layered recoveries, matching the
// engine-neutral contract even though RE2 cannot itself fail this way:
//  1. stack/jit-limit retry: widen the pathological-run guard once.
//  2. malformed UTF-8: transcode through a fixed list of legacy
//     encodings and retry.
//  3. persistent failure: in developer mode, return a TokenizationError;
//     otherwise degrade to whitespace-only splitting and continue.
func (t *Tokenizer) Tokenize(s string) (string, error) {
	out, err := tokenizeOnce(s, maxNonWordRun)
	if err == nil {
		return out, nil
	}

	// Layer 1: stack/jit-limit retry, with the run guard widened eightfold.
	out, err2 := tokenizeOnce(s, maxNonWordRun*8)
	if err2 == nil {
		return out, nil
	}

	// Layer 2: malformed UTF-8 transcoding.
	if !utf8.ValidString(s) {
		if transcoded, terr := transcodeToUTF8(s); terr == nil {
			if out, err3 := tokenizeOnce(transcoded, maxNonWordRun*8); err3 == nil {
				return out, nil
			}
		}
	}

	// Layer 3: persistent failure.
	if t.dev {
		return "", &TokenizationError{Head: headOf(s, 64), Reason: err2.Error()}
	}
	return whitespaceOnlySplit(s), nil
}

func tokenizeOnce(s string, maxRun int) (string, error) {
	s = strings.ReplaceAll(s, `"`, `'`)
	var parts []string
	for _, chunk := range splitWhitespace(s) {
		chunkParts, err := splitChunk(chunk, maxRun)
		if err != nil {
			return "", err
		}
		parts = append(parts, chunkParts...)
	}
	return strings.Join(parts, " "), nil
}

func splitWhitespace(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
	})
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func splitChunk(chunk string, maxRun int) ([]string, error) {
	var parts []string
	i, n := 0, len(chunk)
	for i < n {
		if isWordByte(chunk[i]) {
			j := i + 1
			for j < n && isWordByte(chunk[j]) {
				j++
			}
			parts = append(parts, splitWordRun(chunk[i:j])...)
			i = j
			continue
		}
		j := i + 1
		for j < n && !isWordByte(chunk[j]) {
			j++
		}
		run := chunk[i:j]
		if len(run) > maxRun {
			return nil, fmt.Errorf("non-word run of %d bytes exceeds limit %d", len(run), maxRun)
		}
		parts = append(parts, encodeNonWordRun(run))
		i = j
	}
	return parts, nil
}

func encodeNonWordRun(run string) string {
	var b strings.Builder
	b.Grow(len(run)*2 + 2)
	b.WriteByte('T')
	for i := 0; i < len(run); i++ {
		b.WriteByte(hexDigits[run[i]>>4])
		b.WriteByte(hexDigits[run[i]&0xf])
	}
	b.WriteByte('K')
	return b.String()
}

// splitWordRun further splits an ASCII word run on '_' (bare underscores
// are discarded) and on camelCase transitions.
func splitWordRun(run string) []string {
	var out []string
	for _, piece := range strings.Split(run, "_") {
		if piece == "" {
			continue
		}
		out = append(out, camelSplit(piece)...)
	}
	return out
}

func camelSplit(s string) []string {
	var parts []string
	start := 0
	for i := 1; i < len(s); i++ {
		if isLower(s[i-1]) && isUpper(s[i]) {
			parts = append(parts, s[start:i])
			start = i
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func isLower(b byte) bool { return b >= 'a' && b <= 'z' }
func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }

func whitespaceOnlySplit(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// transcodeToUTF8 tries, in order, the legacy encodings the failure
// contract names: ISO-8859-1, Windows-1252, ASCII (stripping any byte
// with the high bit set), ISO-8859-15, CP1252. x/text ships a single
// Windows-1252 table that also serves as CP1252, so the last two entries
// share a decoder; the ordering is kept for parity with the contract.
func transcodeToUTF8(s string) (string, error) {
	attempts := []func(string) (string, error){
		func(in string) (string, error) { return charmap.ISO8859_1.NewDecoder().String(in) },
		func(in string) (string, error) { return charmap.Windows1252.NewDecoder().String(in) },
		asciiStrip,
		func(in string) (string, error) { return charmap.ISO8859_15.NewDecoder().String(in) },
		func(in string) (string, error) { return charmap.Windows1252.NewDecoder().String(in) },
	}
	for _, attempt := range attempts {
		out, err := attempt(s)
		if err == nil && utf8.ValidString(out) {
			return out, nil
		}
	}
	return "", errors.New("no encoding recovered valid utf-8")
}

func asciiStrip(s string) (string, error) {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] < 0x80 {
			b = append(b, s[i])
		}
	}
	return string(b), nil
}

var (
	tokenPattern = regexp.MustCompile(`^T([0-9a-f]+)K$`)
	camelGlueRe  = regexp.MustCompile(`([a-z])\s+([A-Z][a-z])`)
)

// Detokenize reverses Tokenize for snippet display: every T<hex>K is
// decoded back to its raw bytes (glued directly to its neighbors, with
// no surrounding whitespace), and camelCase splits are reglued by
// repeatedly collapsing "<lowercase> <Upper><lower>" down to
// "<lowercase><Upper><lower>" until no more such pairs remain.
func Detokenize(tokenString string) string {
	return DetokenizeMarked(tokenString, "", "")
}

// DetokenizeMarked is Detokenize, additionally aware of highlight markers
// wrapping a token on both sides (e.g. "\x01T6f6eK\x02"). Markers are
// preserved outside the decoded character; an adjacent end-then-start
// marker pair produced by two neighboring highlighted tokens is elided.
func DetokenizeMarked(tokenString, startMark, endMark string) string {
	fields := strings.Fields(tokenString)
	var b strings.Builder
	prevNonWord := false
	for idx, f := range fields {
		marked := startMark != "" && endMark != "" &&
			strings.HasPrefix(f, startMark) && strings.HasSuffix(f, endMark) &&
			len(f) >= len(startMark)+len(endMark)
		inner := f
		if marked {
			inner = strings.TrimSuffix(strings.TrimPrefix(f, startMark), endMark)
		}

		decoded, isNonWord := decodeToken(inner)
		text := decoded
		if marked {
			text = startMark + decoded + endMark
		}

		if idx > 0 && !isNonWord && !prevNonWord {
			b.WriteByte(' ')
		}
		b.WriteString(text)
		prevNonWord = isNonWord
	}

	result := b.String()
	if startMark != "" && endMark != "" {
		result = strings.ReplaceAll(result, endMark+startMark, "")
	}
	return glueCamelCase(result)
}

func decodeToken(tok string) (text string, isDecodedNonWord bool) {
	m := tokenPattern.FindStringSubmatch(tok)
	if m == nil {
		return tok, false
	}
	raw, err := hex.DecodeString(m[1])
	if err != nil {
		return tok, false
	}
	return string(raw), true
}

func glueCamelCase(s string) string {
	for {
		next := camelGlueRe.ReplaceAllString(s, "$1$2")
		if next == s {
			return s
		}
		s = next
	}
}
