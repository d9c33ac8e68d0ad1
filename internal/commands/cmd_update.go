package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/queuebar/internal/core/task"
	"github.com/colonyops/queuebar/internal/core/todo"
	"github.com/colonyops/queuebar/internal/core/validate"
	"github.com/colonyops/queuebar/internal/store/jsonfile"
	"github.com/colonyops/queuebar/pkg/iojson"
)

type UpdateCmd struct {
	flags *Flags
	app   *App
	r     *iojson.Reader[UpdateInput]
}

// NewUpdateCmd creates a new update command
func NewUpdateCmd(flags *Flags, app *App) *UpdateCmd {
	return &UpdateCmd{
		flags: flags,
		app:   app,
		r:     &iojson.Reader[UpdateInput]{},
	}
}

func (cmd *UpdateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "update",
		Usage: "Update todos, metrics or task metadata from JSON",
		UsageText: `queuebar update [options] [json]

Inline:
  queuebar update '{"metrics":{"contextPercent":42,"costUsd":1.5}}'

Read from stdin (e.g. from an assistant hook):
  echo '{"todos":[{"content":"write tests","status":"pending"}]}' | queuebar update`,
		Description: `Writes assistant-side state into the project store. The running sidebar
picks the change up on its next refresh.

Input JSON schema (every key optional):
  {
    "todos":   [{"content": "...", "status": "pending|in_progress|completed", "activeForm": "..."}],
    "metrics": {"contextPercent": 0, "costUsd": 0, "durationMs": 0, "model": "", "branch": "", "repo": ""},
    "tasks":   [{"id": "...", "priority": 1, "recommended": true, "clarified": true, "planRef": "..."}]
  }

"todos" replaces the whole list; an empty array clears it. "tasks" patches
metadata on queued tasks; a priority of 0 removes the priority.`,
		Flags:  []cli.Flag{cmd.r.Flag()},
		Action: cmd.run,
	})
	return app
}

func (cmd *UpdateCmd) run(ctx context.Context, c *cli.Command) error {
	input, err := cmd.r.Read(c.Args().First())
	if err != nil {
		return err
	}

	if err := input.Validate(); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	res, err := applyUpdate(ctx, cmd.app.Store, input)
	if err != nil {
		return err
	}

	log.Debug().
		Bool("todos", res.Todos).
		Bool("metrics", res.Metrics).
		Int("tasks", res.Tasks).
		Msg("store updated")

	return iojson.WriteWith(c.Root().Writer, os.Stderr, res)
}

// UpdateInput is the update payload.
type UpdateInput struct {
	Todos   *[]todo.Item  `json:"todos,omitempty"`
	Metrics *task.Metrics `json:"metrics,omitempty"`
	Tasks   []TaskPatch   `json:"tasks,omitempty"`
}

// TaskPatch sets metadata on one queued task. Nil fields are left unchanged.
type TaskPatch struct {
	ID          string  `json:"id"`
	Priority    *int    `json:"priority,omitempty"`
	Recommended *bool   `json:"recommended,omitempty"`
	Clarified   *bool   `json:"clarified,omitempty"`
	PlanRef     *string `json:"planRef,omitempty"`
}

// Validate checks the payload using criterio.
func (u UpdateInput) Validate() error {
	if u.Todos == nil && u.Metrics == nil && len(u.Tasks) == 0 {
		return criterio.NewFieldErrors("input", fmt.Errorf("nothing to update"))
	}

	var errs criterio.FieldErrorsBuilder

	if u.Todos != nil {
		for i, it := range *u.Todos {
			field := fmt.Sprintf("todos[%d]", i)
			if err := validate.TaskContent(it.Content); err != nil {
				errs = errs.Append(field+".content", err)
			}
			if !it.Status.IsValid() {
				errs = errs.Append(field+".status", fmt.Errorf("unknown status %q", it.Status))
			}
		}
	}

	if u.Metrics != nil {
		if err := validate.Percent(u.Metrics.ContextPercent); err != nil {
			errs = errs.Append("metrics.contextPercent", err)
		}
		if u.Metrics.CostUSD < 0 {
			errs = errs.Append("metrics.costUsd", fmt.Errorf("cannot be negative"))
		}
		if u.Metrics.DurationMS < 0 {
			errs = errs.Append("metrics.durationMs", fmt.Errorf("cannot be negative"))
		}
	}

	seen := make(map[string]bool)
	for i, p := range u.Tasks {
		field := fmt.Sprintf("tasks[%d]", i)
		if p.ID == "" {
			errs = errs.Append(field+".id", fmt.Errorf("id is required"))
			continue
		}
		if seen[p.ID] {
			errs = errs.Append(field+".id", fmt.Errorf("duplicate id %q", p.ID))
			continue
		}
		seen[p.ID] = true

		if p.Priority != nil && *p.Priority != 0 {
			if err := validate.Priority(*p.Priority); err != nil {
				errs = errs.Append(field+".priority", err)
			}
		}
	}

	return errs.ToError()
}

// UpdateResult reports what an update wrote.
type UpdateResult struct {
	Todos   bool `json:"todos"`
	Metrics bool `json:"metrics"`
	Tasks   int  `json:"tasks"`
}

// applyUpdate writes a validated payload. Task patches are applied in one
// board transaction so an unknown id leaves every task unchanged.
func applyUpdate(ctx context.Context, store *jsonfile.Store, in UpdateInput) (UpdateResult, error) {
	var res UpdateResult

	if len(in.Tasks) > 0 {
		_, err := store.UpdateBoard(ctx, func(b task.Board) (task.Board, error) {
			var err error
			for _, p := range in.Tasks {
				b, err = b.Annotate(p.ID, p.apply)
				if err != nil {
					return b, err
				}
			}
			return b, nil
		})
		if err != nil {
			return res, fmt.Errorf("patch tasks: %w", err)
		}
		res.Tasks = len(in.Tasks)
	}

	if in.Todos != nil {
		if err := store.SetTodos(ctx, *in.Todos); err != nil {
			return res, fmt.Errorf("write todos: %w", err)
		}
		res.Todos = true
	}

	if in.Metrics != nil {
		if err := store.SetMetrics(ctx, in.Metrics); err != nil {
			return res, fmt.Errorf("write metrics: %w", err)
		}
		res.Metrics = true
	}

	return res, nil
}

func (p TaskPatch) apply(q *task.Queued) {
	if p.Priority != nil {
		if *p.Priority == 0 {
			q.Priority = nil
		} else {
			q.Priority = task.IntPtr(*p.Priority)
		}
	}
	if p.Recommended != nil {
		q.Recommended = *p.Recommended
	}
	if p.Clarified != nil {
		q.Clarified = *p.Clarified
	}
	if p.PlanRef != nil {
		q.PlanRef = *p.PlanRef
	}
}
