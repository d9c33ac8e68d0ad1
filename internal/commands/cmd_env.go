package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/queuebar/internal/core/doctor"
	"github.com/colonyops/queuebar/internal/core/pane"
	"github.com/colonyops/queuebar/internal/core/styles"
	"github.com/colonyops/queuebar/pkg/iojson"
)

type EnvCmd struct {
	flags  *Flags
	app    *App
	format string
}

// NewEnvCmd creates a new env command
func NewEnvCmd(flags *Flags, app *App) *EnvCmd {
	return &EnvCmd{flags: flags, app: app}
}

func (cmd *EnvCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "env",
		Usage:       "Show the environment queuebar sees",
		UsageText:   "queuebar env [options]",
		Description: "Prints paths, the detected pane backend and diagnostic checks for the current project.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})
	return app
}

// envInfo is the non-check part of the report.
type envInfo struct {
	ConfigPath string `json:"configPath"`
	DataDir    string `json:"dataDir"`
	WorkDir    string `json:"workDir"`
	Project    string `json:"project"`
	ProjectDir string `json:"projectDir"`
	Running    bool   `json:"running"`
	Backend    string `json:"backend"`
}

func (cmd *EnvCmd) run(ctx context.Context, c *cli.Command) error {
	info := cmd.info()
	results := doctor.RunAll(ctx, cmd.checks())

	if cmd.format == "json" {
		return cmd.outputJSON(c, info, results)
	}

	return cmd.outputText(os.Stderr, info, results)
}

func (cmd *EnvCmd) info() envInfo {
	store := cmd.app.Store
	backend := "none"
	if kind, err := pane.Detect(pane.Kind(cmd.app.Config.Pane.Backend), os.Getenv); err == nil {
		backend = string(kind)
	}

	return envInfo{
		ConfigPath: cmd.flags.ConfigPath,
		DataDir:    cmd.app.Config.DataDir,
		WorkDir:    cmd.app.WorkDir,
		Project:    store.Scope(),
		ProjectDir: store.Dir(),
		Running:    store.Running(),
		Backend:    backend,
	}
}

func (cmd *EnvCmd) checks() []doctor.Check {
	return []doctor.Check{
		doctor.NewConfigCheck(cmd.flags.ConfigPath, cmd.flags.Config),
		doctor.NewDirsCheck(
			doctor.Dir{Label: "data dir", Path: cmd.app.Config.DataDir},
			doctor.Dir{Label: "project", Path: cmd.app.Store.Dir(), Optional: true},
		),
		doctor.NewToolsCheck(),
		doctor.NewBackendCheck(pane.Kind(cmd.app.Config.Pane.Backend), os.Getenv),
		doctor.NewTerminalCheck(os.Stdout, os.Getenv),
	}
}

func (cmd *EnvCmd) outputJSON(c *cli.Command, info envInfo, results []doctor.Result) error {
	passed, warned, failed := doctor.Summary(results)

	out := struct {
		Env     envInfo         `json:"env"`
		Healthy bool            `json:"healthy"`
		Summary summaryJSON     `json:"summary"`
		Checks  []doctor.Result `json:"checks"`
	}{
		Env:     info,
		Healthy: failed == 0,
		Summary: summaryJSON{Passed: passed, Warned: warned, Failed: failed},
		Checks:  results,
	}

	if err := iojson.WriteWith(c.Root().Writer, os.Stderr, out); err != nil {
		return err
	}
	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

type summaryJSON struct {
	Passed int `json:"passed"`
	Warned int `json:"warned"`
	Failed int `json:"failed"`
}

func (cmd *EnvCmd) outputText(w io.Writer, info envInfo, results []doctor.Result) error {
	theme, err := styles.NewTheme(cmd.app.Config.Sidebar.Theme, styles.NewRenderer(w, nil))
	if err != nil {
		return err
	}
	st := theme.Focused
	divider := st.Muted.Render(strings.Repeat("─", 40))

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, st.Header.Render("queuebar env"))
	_, _ = fmt.Fprintln(w, divider)

	rows := [][2]string{
		{"config", info.ConfigPath},
		{"data dir", info.DataDir},
		{"work dir", info.WorkDir},
		{"project", info.Project},
		{"project dir", info.ProjectDir},
		{"backend", info.Backend},
		{"running", fmt.Sprintf("%t", info.Running)},
	}
	for _, r := range rows {
		_, _ = fmt.Fprintf(w, "  %-12s %s\n", r[0], st.Muted.Render(r[1]))
	}
	_, _ = fmt.Fprintln(w)

	for _, result := range results {
		_, _ = fmt.Fprintln(w, st.SectionTitle.Render(result.Name))

		for _, item := range result.Items {
			var detail string
			if item.Detail != "" {
				detail = " " + st.Muted.Render(item.Detail)
			}

			var icon string
			switch item.Status {
			case doctor.StatusPass:
				icon = st.Done.Render("✔")
			case doctor.StatusWarn:
				icon = st.MetricsWarn.Render("●")
			case doctor.StatusFail:
				icon = st.Flash.Render("✘")
			}

			_, _ = fmt.Fprintf(w, "  %s %s%s\n", icon, item.Label, detail)
		}

		_, _ = fmt.Fprintln(w)
	}

	passed, warned, failed := doctor.Summary(results)
	summary := fmt.Sprintf("%s  %s  %s",
		st.Done.Render(fmt.Sprintf("%d passed", passed)),
		st.MetricsWarn.Render(fmt.Sprintf("%d warnings", warned)),
		st.Flash.Render(fmt.Sprintf("%d failed", failed)),
	)
	_, _ = fmt.Fprintln(w, summary)

	if failed > 0 {
		return cli.Exit("", 1)
	}

	return nil
}
