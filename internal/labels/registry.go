// Package labels implements the short-name registry and generator used to
// rewrite every distinct logical label into a short, collision-free
// identifier the game engine accepts (spec section 4.5).
package labels

import (
	"strings"
	"unicode"

	"github.com/dekarrin/marzipan/internal/util"
)

// alphabet is the odometer digit set used by Increment: underscore ticks
// first, then the 26 lowercase letters, matching spec 4.5's "Characters tick
// _, a, b, …, z then carry."
const alphabet = "_abcdefghijklmnopqrstuvwxyz"

// reservedNames are pre-registered with an empty suffix so any user label
// that collides with one of these gets renamed instead of shadowing it.
var reservedNames = []string{"bombed", "energize", "shot", "thud", "touch"}

// Registry assigns short engine-valid names to label keys, deterministically
// and idempotently, and generates a stream of distinct anonymous-label
// names. The zero value is not usable; construct with NewRegistry.
type Registry struct {
	keyToSuffix map[string]string
	taken       util.StringSet
	anonSuffix  string
}

// NewRegistry returns a Registry preloaded with the engine's reserved names.
func NewRegistry() *Registry {
	return NewRegistryWithReserved(nil)
}

// NewRegistryWithReserved returns a Registry preloaded with the engine's
// built-in reserved names plus extra, an operator-supplied list (e.g. from
// an internal/mzconfig file) of additional names that should keep their
// literal spelling rather than being sanitized.
func NewRegistryWithReserved(extra []string) *Registry {
	r := &Registry{
		keyToSuffix: make(map[string]string),
		taken:       util.NewStringSet(),
	}
	for _, name := range reservedNames {
		lower := strings.ToLower(name)
		r.keyToSuffix[lower] = ""
		r.taken.Add(lower)
	}
	for _, name := range extra {
		lower := strings.ToLower(name)
		r.keyToSuffix[lower] = ""
		r.taken.Add(lower)
	}
	return r
}

// Sanitize maps key, the canonical lowercase full name of a label
// ([namespace "~"] base ["." local]), to a short name valid in the engine.
// It is deterministic and idempotent: repeated calls with the same key
// always return the same name (testable property 5).
func (r *Registry) Sanitize(key string) string {
	key = strings.ToLower(key)
	stem := preferredStem(key)

	if suffix, ok := r.keyToSuffix[key]; ok {
		return stem + suffix
	}

	suffix := ""
	for {
		candidate := stem + suffix
		if !r.taken.Has(candidate) {
			r.keyToSuffix[key] = suffix
			r.taken.Add(candidate)
			return candidate
		}
		suffix = Increment(suffix)
	}
}

// GenAnonymous returns the next name in the shared anonymous-name pool,
// advancing past any name a Sanitize call has already claimed so the two
// generators never collide.
func (r *Registry) GenAnonymous() string {
	for {
		r.anonSuffix = Increment(r.anonSuffix)
		if !r.taken.Has(r.anonSuffix) {
			r.taken.Add(r.anonSuffix)
			return r.anonSuffix
		}
	}
}

// preferredStem derives the identifier-shaped stem a key sanitizes to, per
// spec 4.5:
//  1. take the substring after the last non-identifier character (the
//     namespace separator "~" or the section-local dot "."; label_word
//     itself only ever contains letters, digits and underscores);
//  2. collapse any maximal run of non-letter characters (digits and
//     underscores alike) to a single underscore.
func preferredStem(key string) string {
	cut := -1
	for i, r := range key {
		if !isIdentRune(r) {
			cut = i + len(string(r))
		}
	}
	if cut >= 0 {
		key = key[cut:]
	}
	return collapseNonLetters(key)
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func collapseNonLetters(s string) string {
	var b strings.Builder
	inRun := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
			inRun = false
			continue
		}
		if !inRun {
			b.WriteByte('_')
			inRun = true
		}
	}
	return b.String()
}

// Increment advances s through the alphabet-with-underscore in odometer
// order: the empty string increments to "_"; each successive call ticks the
// rightmost digit through "_", "a", …, "z", carrying into the next digit to
// the left on overflow, and growing the string by one digit (prepended) when
// every digit overflows. Iterating from "" enumerates every finite-length
// string over {"_"} ∪ {a..z} exactly once, in non-decreasing length
// (testable property 8).
func Increment(s string) string {
	b := []byte(s)
	for i := len(b) - 1; i >= 0; i-- {
		idx := strings.IndexByte(alphabet, b[i])
		if idx < len(alphabet)-1 {
			b[i] = alphabet[idx+1]
			return string(b)
		}
		b[i] = alphabet[0]
	}
	return "_" + string(b)
}

// IsValidName reports whether name matches the engine's identifier rule: all
// characters must be a letter or underscore, except the final character,
// which may additionally be a digit.
func IsValidName(name string) bool {
	if name == "" {
		return false
	}
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsLetter(r) || r == '_' {
			continue
		}
		if unicode.IsDigit(r) && i == len(runes)-1 {
			continue
		}
		return false
	}
	return true
}
