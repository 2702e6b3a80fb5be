package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ResolveSecret_PadsShortSecret(t *testing.T) {
	secret := resolveSecret("short")
	assert.GreaterOrEqual(t, len(secret), 32)
	assert.LessOrEqual(t, len(secret), 64)
}

func Test_ResolveSecret_EmptyGeneratesRandom(t *testing.T) {
	a := resolveSecret("")
	b := resolveSecret("")
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func Test_ResolveSecret_LongSecretPreserved(t *testing.T) {
	long := make([]byte, 40)
	for i := range long {
		long[i] = 'x'
	}
	secret := resolveSecret(string(long))
	assert.Equal(t, 40, len(secret))
}

func Test_RandomHex_ProducesDistinctValues(t *testing.T) {
	a := randomHex(16)
	b := randomHex(16)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
