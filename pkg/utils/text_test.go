package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("RBA flags rate path", "rba"))
	assert.True(t, ContainsFold("Inflation eases", "INFLATION"))
	assert.False(t, ContainsFold("Local sports roundup", "fed"))
}

func TestCleanToValidUTF8(t *testing.T) {
	assert.Equal(t, "hello", CleanToValidUTF8("hello"))
	assert.Equal(t, "ab", CleanToValidUTF8("a\xffb"))
}
