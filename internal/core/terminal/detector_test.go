package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetector_IsIdlePrompt(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{
			name:    "bare prompt",
			content: "Done. All tests pass.\n\n> \n",
			want:    true,
		},
		{
			name:    "boxed prompt",
			content: "output\n╭────────────╮\n│ >          │\n╰────────────╯\n  ? for shortcuts\n",
			want:    true,
		},
		{
			name:    "fancy glyph with nbsp",
			content: "───────\n❯ \n───────\n",
			want:    true,
		},
		{
			name:    "ansi colored prompt",
			content: "\x1b[2m───\x1b[0m\n\x1b[1m>\x1b[0m   \n",
			want:    true,
		},
		{
			name:    "prompt with typed text",
			content: "> fix the tests\n",
			want:    false,
		},
		{
			name:    "busy marker wins",
			content: "✻ Thinking… (12s · esc to interrupt)\n> \n",
			want:    false,
		},
		{
			name:    "prompt scrolled out of tail",
			content: "> \n1\n2\n3\n4\n5\n6\n",
			want:    false,
		},
		{
			name:    "quoted markdown is not a prompt",
			content: "> note: this is a quote\n",
			want:    false,
		},
		{
			name:    "empty",
			content: "",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.IsIdlePrompt(tt.content))
		})
	}
}

func TestDetector_CustomGlyphs(t *testing.T) {
	d := NewDetector("$")
	assert.True(t, d.IsIdlePrompt("build ok\n$ \n"))
	assert.False(t, d.IsIdlePrompt("build ok\n> \n"))
}
