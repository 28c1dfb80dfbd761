package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePassThrough(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"plain word", "panela"},
		{"plain phrase", "ferro fundido"},
		{"regex literal", `/promo.*barato/gi`},
		{"regex literal no flags", `/^oferta$/`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expr, Compile(tt.expr))
		})
	}
}

func TestCompileAndSegments(t *testing.T) {
	got := Compile("+panela+ferro+fundido")
	want := `/^(?=.*(?:\b(?:panela)\b))(?=.*(?:\b(?:ferro)\b))(?=.*(?:\b(?:fundido)\b)).*/i`
	assert.Equal(t, want, got)
}

func TestCompileOrAlternatives(t *testing.T) {
	got := Compile("+celular+iphone=samsung")
	want := `/^(?=.*(?:\b(?:celular)\b))(?=.*(?:\b(?:iphone|samsung)\b)).*/i`
	assert.Equal(t, want, got)
}

func TestCompileExclusionPrecedesInclusions(t *testing.T) {
	got := Compile("celular+iphone-samsung")
	want := `/^(?!.*(?:\bsamsung\b))(?=.*(?:\b(?:celular)\b))(?=.*(?:\b(?:iphone)\b)).*/i`
	assert.Equal(t, want, got)
}

func TestCompileAccentFolding(t *testing.T) {
	got := Compile("fogão=cooktop+indução-atlas")
	want := `/^(?!.*(?:\batlas\b))(?=.*(?:\b(?:fog[aáàâã]o|cooktop)\b))(?=.*(?:\b(?:indu[cç][aáàâã]o)\b)).*/i`
	assert.Equal(t, want, got)
}

func TestCompileOnlyExclusions(t *testing.T) {
	got := Compile("-spam-scam")
	want := `/^(?!.*(?:\bspam\b))(?!.*(?:\bscam\b)).*/i`
	assert.Equal(t, want, got)
}

func TestCompileDropsEmptySegments(t *testing.T) {
	assert.Equal(t, Compile("+panela"), Compile("++panela+"))
}

func TestCompileIsDeterministic(t *testing.T) {
	expr := "fogão=cooktop+indução-atlas-fake"
	first := Compile(expr)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Compile(expr))
	}
}

func TestFoldToken(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"panela", "panela"},
		{"fogão", "fog[aáàâã]o"},
		{"indução", "indu[cç][aáàâã]o"},
		{"café", "caf[eéê]"},
		{"c.d", `c\.d`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, foldToken(tt.token))
	}
}

func TestCompiledPatternMatches(t *testing.T) {
	m, err := NewMatcher(Compile("fogão=cooktop+indução-atlas"))
	require.NoError(t, err)

	tests := []struct {
		text string
		want bool
	}{
		{"Fogao com inducao barato", true},
		{"Cooktop de indução em oferta", true},
		{"Cooktop de indução da Atlas", false},
		{"Fogão comum quatro bocas", false},
		{"inducaozinha cooktop", false},
	}
	for _, tt := range tests {
		got, err := m.Match(tt.text)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "text: %s", tt.text)
	}
}

func TestCompiledPatternWordBoundaries(t *testing.T) {
	m, err := NewMatcher(Compile("+cat"))
	require.NoError(t, err)

	got, err := m.Match("a catastrophe happened")
	require.NoError(t, err)
	assert.False(t, got, "word match must not hit inside a longer word")

	got, err = m.Match("my cat is fine")
	require.NoError(t, err)
	assert.True(t, got)
}
