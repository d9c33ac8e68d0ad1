package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/queuebar/internal/core/task"
	"github.com/colonyops/queuebar/internal/core/validate"
	"github.com/colonyops/queuebar/internal/store/jsonfile"
	"github.com/colonyops/queuebar/pkg/iojson"
)

type AddCmd struct {
	flags    *Flags
	app      *App
	priority int
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags, app *App) *AddCmd {
	return &AddCmd{flags: flags, app: app}
}

func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Queue tasks for the current project",
		UsageText: "queuebar add [options] <task> [task...]",
		Description: `Appends each argument as a task at the end of the queue. The running
sidebar shows them on its next refresh.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "priority",
				Aliases:     []string{"p"},
				Usage:       "priority for the new tasks (lower sorts first)",
				Destination: &cmd.priority,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	args := c.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("at least one task is required")
	}

	var priority *int
	if c.IsSet("priority") {
		if err := validate.Priority(cmd.priority); err != nil {
			return err
		}
		priority = task.IntPtr(cmd.priority)
	}

	added, err := addTasks(ctx, cmd.app.Store, time.Now(), priority, args...)
	if err != nil {
		return err
	}

	return iojson.WriteWith(c.Root().Writer, os.Stderr, added)
}

// addTasks validates every content before writing any of them.
func addTasks(ctx context.Context, store *jsonfile.Store, now time.Time, priority *int, contents ...string) ([]task.Queued, error) {
	var errs criterio.FieldErrorsBuilder
	for i, content := range contents {
		if err := validate.TaskContent(content); err != nil {
			errs = errs.Append(fmt.Sprintf("tasks[%d]", i), err)
		}
	}
	if err := errs.ToError(); err != nil {
		return nil, err
	}

	var added []task.Queued
	_, err := store.UpdateBoard(ctx, func(b task.Board) (task.Board, error) {
		b, added = b.Add(now, contents...)
		if priority == nil {
			return b, nil
		}
		var err error
		for _, q := range added {
			b, err = b.Annotate(q.ID, func(q *task.Queued) { q.Priority = task.IntPtr(*priority) })
			if err != nil {
				return b, err
			}
		}
		return b, nil
	})
	if err != nil {
		return nil, fmt.Errorf("add tasks: %w", err)
	}
	return added, nil
}
