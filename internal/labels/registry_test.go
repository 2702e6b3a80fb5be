package labels

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Sanitize_Idempotent(t *testing.T) {
	r := NewRegistry()
	first := r.Sanitize("area~touch.foo")
	second := r.Sanitize("area~touch.foo")
	assert.Equal(t, first, second)
}

func Test_Sanitize_Uniqueness(t *testing.T) {
	r := NewRegistry()
	a := r.Sanitize("touch")
	b := r.Sanitize("touch.foo")
	assert.NotEqual(t, strings.ToLower(a), strings.ToLower(b))
}

func Test_Sanitize_Validity(t *testing.T) {
	r := NewRegistry()
	keys := []string{"touch", "area~touch.foo", "123", "ns~.x", "weird~~name"}
	for _, k := range keys {
		name := r.Sanitize(k)
		assert.True(t, IsValidName(name), "name %q for key %q is not a valid identifier", name, k)
	}
}

// Test_Sanitize_ReservedNames mirrors spec Scenario C.
func Test_Sanitize_ReservedNames(t *testing.T) {
	r := NewRegistry()
	first := r.Sanitize("touch")
	assert.Equal(t, "touch", first)

	second := r.Sanitize("board2~touch")
	assert.NotEqual(t, "touch", second)
	assert.True(t, strings.HasPrefix(second, "touch"))
}

func Test_Sanitize_StemDerivation(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, "foo", r.Sanitize("area~foo"))
}

func Test_Sanitize_StemCollapsesDigitsAndUnderscores(t *testing.T) {
	r := NewRegistry()
	name := r.Sanitize("area~room2")
	assert.Equal(t, "room_", name)
}

func Test_GenAnonymous_DistinctAndValid(t *testing.T) {
	r := NewRegistry()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		name := r.GenAnonymous()
		assert.False(t, seen[name], "GenAnonymous produced %q twice", name)
		seen[name] = true
		assert.True(t, IsValidName(name))
	}
}

func Test_GenAnonymous_SkipsTakenNames(t *testing.T) {
	r := NewRegistry()
	// force the first couple of anonymous candidates to already be taken
	r.taken["_"] = true
	r.taken["a"] = true
	name := r.GenAnonymous()
	assert.Equal(t, "b", name)
}

// Test_Increment_Enumeration covers testable property 8.
func Test_Increment_Enumeration(t *testing.T) {
	seen := map[string]bool{}
	s := ""
	prevLen := 0
	for i := 0; i < 27*27+27+1; i++ {
		s = Increment(s)
		require.False(t, seen[s], "increment repeated %q", s)
		seen[s] = true
		require.GreaterOrEqual(t, len(s), prevLen)
		prevLen = len(s)
		for _, r := range s {
			require.True(t, r == '_' || (r >= 'a' && r <= 'z'))
		}
	}
	assert.Equal(t, "_", Increment(""))
}

func Test_Increment_CarriesAndGrows(t *testing.T) {
	assert.Equal(t, "a", Increment("_"))
	assert.Equal(t, "z", Increment("y"))
	assert.Equal(t, "__", Increment("z"))
	assert.Equal(t, "_a", Increment("__"))
}

func Test_NewRegistryWithReserved_KeepsExtraNamesLiteral(t *testing.T) {
	r := NewRegistryWithReserved([]string{"gem", "torch"})
	assert.Equal(t, "gem", r.Sanitize("gem"))
	assert.Equal(t, "torch", r.Sanitize("torch"))

	// a different key that merely stems to "torch" still collides with the
	// reserved name and gets suffixed, same as the built-in reserved list.
	other := r.Sanitize("area~torch")
	assert.NotEqual(t, "torch", other)
	assert.True(t, strings.HasPrefix(other, "torch"))
}

func Test_IsValidName(t *testing.T) {
	assert.True(t, IsValidName("touch"))
	assert.True(t, IsValidName("_foo"))
	assert.True(t, IsValidName("foo9"))
	assert.False(t, IsValidName(""))
	assert.False(t, IsValidName("9foo"))
	assert.False(t, IsValidName("fo9o"))
}
