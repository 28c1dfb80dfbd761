package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcherSubstring(t *testing.T) {
	m, err := NewMatcher("iPhone 13")
	require.NoError(t, err)

	got, err := m.Match("vendo IPHONE 13 seminovo")
	require.NoError(t, err)
	assert.True(t, got)

	got, err = m.Match("vendo iphone 14")
	require.NoError(t, err)
	assert.False(t, got)

	hit, err := m.Find("vendo IPHONE 13 seminovo")
	require.NoError(t, err)
	assert.Equal(t, "IPHONE 13", hit)
}

func TestMatcherRegexLiteral(t *testing.T) {
	m, err := NewMatcher(`/promo\w*/i`)
	require.NoError(t, err)

	got, err := m.Match("mega PROMOÇÃO relâmpago")
	require.NoError(t, err)
	assert.True(t, got)

	hit, err := m.Find("mega PROMOCAO relampago")
	require.NoError(t, err)
	assert.Equal(t, "PROMOCAO", hit)
}

func TestMatcherInvalidRegex(t *testing.T) {
	_, err := NewMatcher(`/promo(/i`)
	assert.Error(t, err)
}

func TestMatcherFindMultibyteCaseFold(t *testing.T) {
	// İ (U+0130) lowers to a shorter byte sequence; the returned slice
	// must still cover the original runes exactly
	m, err := NewMatcher("istanbul")
	require.NoError(t, err)

	got, err := m.Match("voos para İstanbul em oferta")
	require.NoError(t, err)
	assert.True(t, got)

	hit, err := m.Find("voos para İstanbul em oferta")
	require.NoError(t, err)
	assert.Equal(t, "İstanbul", hit)
}

func TestMatcherFindMiss(t *testing.T) {
	m, err := NewMatcher("panela")
	require.NoError(t, err)

	hit, err := m.Find("nada por aqui")
	require.NoError(t, err)
	assert.Empty(t, hit)
}
