package normalize

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "Cyberpunk 2077", "cyberpunk 2077"},
		{"colon removed", "The Witcher 3: Wild Hunt", "the witcher 3 wild hunt"},
		{"hyphen to space", "Counter-Strike", "counter strike"},
		{"whitespace collapsed", "  Half   Life  2 ", "half life 2"},
		{"combined", "Counter-Strike: Global Offensive", "counter strike global offensive"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Title(tt.input))
		})
	}
}

func TestTitleIdempotent(t *testing.T) {
	inputs := []string{
		"Counter-Strike: Global Offensive",
		"counter strike global offensive",
		"Dark Souls III",
	}
	for _, input := range inputs {
		once := Title(input)
		assert.Equal(t, once, Title(once))
	}
}

func TestTitlePunctuationInsensitive(t *testing.T) {
	assert.Equal(t,
		Title("Counter-Strike: Global Offensive"),
		Title("counter strike global offensive"))
}

func TestIsAppID(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"730", true},
		{" 292030 ", true},
		{"0", false},
		{"-5", false},
		{"csgo", false},
		{"12.5", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAppID(tt.input))
		})
	}
}

func TestAppID(t *testing.T) {
	assert.Equal(t, 730, AppID("730"))
	assert.Equal(t, 0, AppID("not a number"))
	assert.Equal(t, 0, AppID("-1"))
}
