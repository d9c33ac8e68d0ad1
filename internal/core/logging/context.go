package logging

import "context"

type contextKey string

const (
	projectKey contextKey = "project"
	taskIDKey  contextKey = "task_id"
)

// WithProject adds a project scope to the context.
func WithProject(ctx context.Context, project string) context.Context {
	return context.WithValue(ctx, projectKey, project)
}

// WithTaskID adds a task ID to the context.
func WithTaskID(ctx context.Context, taskID string) context.Context {
	return context.WithValue(ctx, taskIDKey, taskID)
}

// GetProject retrieves the project scope from the context.
// Returns empty string if not present.
func GetProject(ctx context.Context) string {
	if id, ok := ctx.Value(projectKey).(string); ok {
		return id
	}
	return ""
}

// GetTaskID retrieves the task ID from the context.
// Returns empty string if not present.
func GetTaskID(ctx context.Context) string {
	if id, ok := ctx.Value(taskIDKey).(string); ok {
		return id
	}
	return ""
}
