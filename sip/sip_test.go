package sip

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateBranchIsUniqueAndCookiePrefixed(t *testing.T) {
	a := GenerateBranch()
	b := GenerateBranch()
	assert.NotEqual(t, a, b)
	assert.True(t, len(a) == 32+len(RFC3261BranchMagicCookie)+1)
	assert.Equal(t, RFC3261BranchMagicCookie+".", a[:len(RFC3261BranchMagicCookie)+1])
}

func BenchmarkGenerateBranch(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		val := GenerateBranch()
		if len(val) != 32+len(RFC3261BranchMagicCookie)+1 {
			b.Fatal("wrong number of bytes")
		}
	}
}

func BenchmarkGenerateBranchN16(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		val := GenerateBranchN(16)
		if len(val) != 32+len(RFC3261BranchMagicCookie)+1 {
			b.Fatal("wrong number of bytes")
		}
	}
}
