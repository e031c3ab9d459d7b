package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRandomString(t *testing.T) {
	s := GenerateRandomString(6)
	assert.Len(t, s, 6)
	for _, ch := range s {
		assert.True(t, strings.ContainsRune(randomCharset, ch), "unexpected character %q", ch)
	}

	assert.Empty(t, GenerateRandomString(0))
}
