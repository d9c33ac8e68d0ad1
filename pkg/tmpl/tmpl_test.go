package tmpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	hook := struct {
		Project string
		Dir     string
		DataDir string
	}{Project: "3f2a9c01b7d4e588", Dir: "/work/my app", DataDir: "/data/projects/3f2a9c01b7d4e588"}

	tests := []struct {
		name    string
		tmpl    string
		data    any
		want    string
		wantErr bool
	}{
		{
			name: "hook fields",
			tmpl: "notify-send done {{ .Project }}",
			data: hook,
			want: "notify-send done 3f2a9c01b7d4e588",
		},
		{
			name: "quoted directory",
			tmpl: "cd {{ .Dir | shq }} && git status",
			data: hook,
			want: "cd '/work/my app' && git status",
		},
		{
			name: "map data",
			tmpl: "{{ .Task }}",
			data: map[string]string{"Task": "write tests"},
			want: "write tests",
		},
		{
			name: "static command",
			tmpl: "tmux display-message closed",
			want: "tmux display-message closed",
		},
		{
			name:    "unknown field errors",
			tmpl:    "{{ .Session }}",
			data:    hook,
			wantErr: true,
		},
		{
			name:    "missing map key errors",
			tmpl:    "{{ .Missing }}",
			data:    map[string]string{"Task": "x"},
			wantErr: true,
		},
		{
			name:    "invalid syntax",
			tmpl:    "{{ .Dir }",
			data:    hook,
			wantErr: true,
		},
		{
			name: "join",
			tmpl: `{{ join .Args " " }}`,
			data: map[string][]string{"Args": {"show", "--cwd", "/tmp"}},
			want: "show --cwd /tmp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.tmpl, tt.data)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShellQuote(t *testing.T) {
	tests := map[string]string{
		"":                      "''",
		"plain":                 "'plain'",
		"it's":                  `'it'\''s'`,
		`say "hi"`:              `'say "hi"'`,
		"$(whoami) && rm -rf /": "'$(whoami) && rm -rf /'",
	}
	for in, want := range tests {
		assert.Equal(t, want, ShellQuote(in), "input %q", in)
	}
}

func TestSelf_Default(t *testing.T) {
	SetExecutable("")

	got, err := Render("{{ self }} show", nil)
	require.NoError(t, err)
	assert.Equal(t, "queuebar show", got)
}

func TestSelf_InSidebarCommand(t *testing.T) {
	SetExecutable("/opt/my tools/queuebar")
	t.Cleanup(func() { SetExecutable("") })

	data := struct {
		Project string
	}{Project: "/work/app"}

	got, err := Render(`{{ self | shq }} show --cwd {{ .Project | shq }}`, data)
	require.NoError(t, err)
	assert.Equal(t, `'/opt/my tools/queuebar' show --cwd '/work/app'`, got)
}

func TestCheck(t *testing.T) {
	require.NoError(t, Check("{{ self | shq }} show"))
	require.NoError(t, Check("echo {{ .Anything }}"), "fields are resolved at render time")
	require.Error(t, Check("{{ self | shq } show"))
	require.Error(t, Check("{{ nope }}"), "unknown functions fail to parse")
}
