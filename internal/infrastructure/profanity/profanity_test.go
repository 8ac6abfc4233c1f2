package profanity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains(t *testing.T) {
	f := NewFilter()

	assert.True(t, f.Contains("what the fuck"))
	assert.True(t, f.Contains("WHAT THE FUCK"))
	assert.True(t, f.Contains("sh1t happens"))
	assert.False(t, f.Contains("perfectly clean message"))
	assert.False(t, f.Contains(""))
}

func TestContainsRespectsWordBoundaries(t *testing.T) {
	f := NewFilter()

	// substrings inside larger words are not matches
	assert.False(t, f.Contains("scunthorpe"))
	assert.False(t, f.Contains("assassin"))
}

func TestMask(t *testing.T) {
	f := NewFilter()

	assert.Equal(t, "what the ****", f.Mask("what the fuck"))
	assert.Equal(t, "clean text", f.Mask("clean text"))
	assert.Equal(t, "", f.Mask(""))
}

func TestMaskLeetspeak(t *testing.T) {
	f := NewFilter()
	assert.Equal(t, "**** happens", f.Mask("sh1t happens"))
}

func TestCustomWordList(t *testing.T) {
	f := NewFilter("banana")

	assert.True(t, f.Contains("i hate banana"))
	assert.Equal(t, "i hate ******", f.Mask("i hate banana"))
	assert.False(t, f.Contains("fuck"), "custom list replaces the default")
}
