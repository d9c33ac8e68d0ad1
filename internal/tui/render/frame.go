package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/colonyops/queuebar/internal/core/styles"
	"github.com/colonyops/queuebar/internal/core/task"
	"github.com/colonyops/queuebar/internal/core/todo"
	"github.com/mattn/go-runewidth"
)

// Frame is a fully laid out screen.
type Frame struct {
	Width, Height int
	Lines         []string // exactly Height rows, styled

	ContentRows int
	Filler      int
	Trimmed     bool // content did not fit and was cut

	// Input block geometry; InputTop is -1 outside editing.
	InputTop   int
	InputRows  int
	InputLimit int // first row the input may not grow into
	CursorRow  int
	CursorCol  int
}

// FillerRows is the padding between content and footer.
func FillerRows(height, contentRows int) int {
	return max(0, height-contentRows-FooterRows)
}

func contentWidth(width int) int {
	return max(1, width-Margin)
}

const inputPrefixWidth = 2

// Build lays out v.
func Build(v View, theme styles.Theme) Frame {
	st := theme.For(v.Focused)
	cw := contentWidth(v.Width)

	body, selStart, selEnd := buildBody(v, st, cw)

	var input []string
	cursorLine, cursorCol := 0, 0
	if v.Editing() {
		title := "ADD TASK"
		if v.Mode == ModeEdit {
			title = "EDIT TASK"
		}
		input = append(input, st.InputTitle.Render(Truncate(title, cw)))
		lines, r, c := inputLines(v, st, cw)
		input = append(input, lines...)
		cursorLine, cursorCol = r+1, c
	}

	avail := max(0, v.Height-FooterRows)
	f := Frame{Width: v.Width, Height: v.Height, InputTop: -1}

	if len(body)+len(input) > avail {
		f.Trimmed = true
		if len(input) > avail {
			input, cursorLine = window(input, cursorLine, avail)
			body = nil
		} else {
			body = fitBody(body, avail-len(input), selStart, selEnd)
		}
	}

	lines := make([]string, 0, max(v.Height, 0))
	lines = append(lines, body...)
	if v.Editing() {
		f.InputTop = len(lines) + 1
		if f.Trimmed && len(input) == avail && cursorLine > 0 {
			// title was windowed away
			f.InputTop = len(lines)
		}
		f.InputRows = len(input) - (f.InputTop - len(lines))
		f.CursorRow = len(lines) + cursorLine
		f.CursorCol = cursorCol + inputPrefixWidth
		f.InputLimit = avail
	}
	lines = append(lines, input...)

	f.ContentRows = len(lines)
	f.Filler = FillerRows(v.Height, f.ContentRows)
	for range f.Filler {
		lines = append(lines, "")
	}
	lines = append(lines, footer(v, st, cw)...)

	if len(lines) > v.Height {
		lines = lines[len(lines)-max(v.Height, 0):]
	}
	for i, l := range lines {
		lines[i] = truncateStyled(l, cw)
	}
	f.Lines = lines
	return f
}

func truncateStyled(s string, width int) string {
	return ansi.Truncate(s, width, "")
}

// window returns n lines of in that include line idx, and idx's new position.
func window(in []string, idx, n int) ([]string, int) {
	if n <= 0 {
		return nil, 0
	}
	start := 0
	if idx >= n {
		start = idx - n + 1
	}
	end := min(start+n, len(in))
	return in[start:end], idx - start
}

// fitBody cuts body to n rows keeping the header and the selected rows.
func fitBody(body []string, n, selStart, selEnd int) []string {
	if n <= 0 {
		return nil
	}
	if selEnd <= n || selStart < 0 {
		return body[:n]
	}
	if n == 1 {
		return body[selStart : selStart+1]
	}
	start := max(selEnd-(n-1), 1)
	out := make([]string, 0, n)
	out = append(out, body[0])
	out = append(out, body[start:min(start+n-1, len(body))]...)
	return out
}

// inputLines renders the wrapped edit buffer and the cursor's row/col within
// it (col excludes the prefix).
func inputLines(v View, st styles.Styles, cw int) ([]string, int, int) {
	iw := max(1, cw-inputPrefixWidth)
	spans := Wrap(v.Input, iw)
	row, col := CursorPos(v.Input, spans, v.Cursor)

	out := make([]string, len(spans))
	for i, sp := range spans {
		prefix := "  "
		if i == 0 {
			prefix = styles.IconPrompt + " "
		}
		out[i] = st.Input.Render(prefix + string(v.Input[sp.Start:sp.End]))
	}
	return out, row, col
}

func buildBody(v View, st styles.Styles, cw int) (lines []string, selStart, selEnd int) {
	selStart, selEnd = -1, -1

	lines = append(lines, header(v, st, cw), "")

	// in progress
	lines = append(lines, st.SectionTitle.Render("IN PROGRESS"))
	if v.Active == nil {
		lines = append(lines, st.ActiveIdle.Render(Truncate(styles.IconIdle+" idle", cw)))
	} else {
		elapsed := ""
		if !v.Now.IsZero() {
			elapsed = " " + compactDuration(v.Now.Sub(v.Active.SentAt))
		}
		prefix := styles.IconActive + " "
		tw := max(1, cw-runewidth.StringWidth(prefix)-runewidth.StringWidth(elapsed))
		if v.FocusActive && v.Focused && v.Mode == ModeNormal {
			wrapped := Lines([]rune(flatten(v.Active.Content)), tw)
			for i, l := range wrapped {
				p := "  "
				if i == 0 {
					p = prefix
				}
				row := st.Active.Render(p + l)
				if i == 0 {
					row = PadRightStyled(row, cw-runewidth.StringWidth(elapsed)) + st.Elapsed.Render(elapsed)
				}
				lines = append(lines, row)
			}
		} else {
			text := Truncate(v.Active.Content, tw)
			lines = append(lines, PadRightStyled(st.Active.Render(prefix+text), cw-runewidth.StringWidth(elapsed))+st.Elapsed.Render(elapsed))
		}
	}

	// review
	if len(v.Done) > 0 {
		lines = append(lines, "", st.SectionTitle.Render(fmt.Sprintf("REVIEW (%d)", len(v.Done))))
		for i, d := range v.Done {
			selected := v.Section == SectionDone && i == v.DoneSelected && v.Mode == ModeNormal
			rows := itemRows(styles.IconDone+" ", "", d.Content, cw, selected && v.Focused)
			if selected {
				selStart = len(lines)
				for _, r := range rows {
					lines = append(lines, st.Selected.Render(PadRight(r, cw)))
				}
				selEnd = len(lines)
				continue
			}
			for _, r := range rows {
				lines = append(lines, st.Done.Render(r))
			}
		}
	}

	// assistant todos
	if v.ShowTodos && len(v.Todos) > 0 {
		_, _, completed := todo.Counts(v.Todos)
		lines = append(lines, "", st.SectionTitle.Render(fmt.Sprintf("ASSISTANT (%d/%d)", completed, len(v.Todos))))
		shown := v.Todos
		if len(shown) > maxTodoRows {
			shown = shown[:maxTodoRows-1]
		}
		for _, it := range shown {
			lines = append(lines, todoRow(it, st, cw))
		}
		if len(shown) < len(v.Todos) {
			lines = append(lines, st.Muted.Render(fmt.Sprintf("  +%d more", len(v.Todos)-len(shown))))
		}
	}

	// queue
	lines = append(lines, "", st.SectionTitle.Render(fmt.Sprintf("QUEUE (%d)", len(v.Queue))))
	if len(v.Queue) == 0 {
		if v.Focused && v.Mode == ModeNormal {
			lines = append(lines, st.Hint.Render(Truncate("press a to add", cw)))
		} else {
			lines = append(lines, st.Muted.Render(Truncate("(empty)", cw)))
		}
	}
	for i, q := range v.Queue {
		selected := v.Section == SectionQueue && i == v.Selected && (v.Mode == ModeNormal || v.Mode == ModeEdit)
		number := fmt.Sprintf("%2d. ", i+1)
		markers := queueMarkers(q)
		wrap := selected && v.Focused && !v.FocusActive
		rows := itemRows(number, markers, q.Content, cw, wrap)
		if selected {
			selStart = len(lines)
			for _, r := range rows {
				lines = append(lines, st.Selected.Render(PadRight(r, cw)))
			}
			selEnd = len(lines)
			continue
		}
		for j, r := range rows {
			if j == 0 {
				lines = append(lines, st.Number.Render(number)+styleMarkers(q, st)+st.Item.Render(strings.TrimPrefix(r, number+markers)))
				continue
			}
			lines = append(lines, st.Item.Render(r))
		}
	}
	return lines, selStart, selEnd
}

// itemRows lays out a list row: prefix + markers + content, truncated to one
// row or, when wrap is set, word-wrapped with continuation rows indented to
// the content column.
func itemRows(prefix, markers, content string, cw int, wrap bool) []string {
	lead := prefix + markers
	indent := runewidth.StringWidth(lead)
	tw := max(1, cw-indent)
	if !wrap {
		return []string{lead + Truncate(content, tw)}
	}
	wrapped := Lines([]rune(flatten(strings.TrimSpace(content))), tw)
	out := make([]string, len(wrapped))
	pad := strings.Repeat(" ", indent)
	for i, l := range wrapped {
		if i == 0 {
			out[i] = lead + l
			continue
		}
		out[i] = pad + l
	}
	return out
}

func queueMarkers(q task.Queued) string {
	var b strings.Builder
	if q.Priority != nil {
		b.WriteString("P" + strconv.Itoa(*q.Priority) + " ")
	}
	if q.Recommended {
		b.WriteString(styles.IconRecommended + " ")
	}
	if q.Clarified {
		b.WriteString(styles.IconClarified + " ")
	}
	return b.String()
}

func styleMarkers(q task.Queued, st styles.Styles) string {
	var b strings.Builder
	if q.Priority != nil {
		b.WriteString(st.Priority.Render("P"+strconv.Itoa(*q.Priority)) + " ")
	}
	if q.Recommended {
		b.WriteString(st.Recommended.Render(styles.IconRecommended) + " ")
	}
	if q.Clarified {
		b.WriteString(st.Clarified.Render(styles.IconClarified) + " ")
	}
	return b.String()
}

func todoRow(it todo.Item, st styles.Styles, cw int) string {
	icon, style := styles.IconPending, st.Todo
	switch it.Status {
	case todo.StatusInProgress:
		icon, style = styles.IconInProgress, st.TodoCurrent
	case todo.StatusCompleted:
		icon, style = styles.IconCompleted, st.TodoDone
	}
	return style.Render(icon + " " + Truncate(it.Label(), max(1, cw-2)))
}

func header(v View, st styles.Styles, cw int) string {
	title := "queuebar"
	count := fmt.Sprintf("%d queued", len(v.Queue))
	gap := cw - runewidth.StringWidth(title) - runewidth.StringWidth(count)
	if gap < 1 {
		return st.Header.Render(Truncate(title, cw))
	}
	return st.Header.Render(title) + strings.Repeat(" ", gap) + st.HeaderCount.Render(count)
}

func footer(v View, st styles.Styles, cw int) []string {
	var hint string
	switch {
	case v.Flash != "":
		hint = st.Flash.Render(Truncate(v.Flash, cw))
	case v.Editing():
		hint = st.Hint.Render(Truncate("⏎ save · esc cancel", cw))
	case v.Focused:
		hint = st.Hint.Render(Truncate("a add · ⏎ send · e edit · d del · q quit", cw))
	}

	metrics := ""
	if v.ShowMetrics && v.Metrics != nil {
		metrics = metricsLine(v.Metrics, st, cw)
	}
	return []string{hint, metrics}
}

func metricsLine(m *task.Metrics, st styles.Styles, cw int) string {
	parts := []string{
		fmt.Sprintf("ctx %.0f%%", m.ContextPercent),
		fmt.Sprintf("$%.2f", m.CostUSD),
	}
	if m.DurationMS > 0 {
		parts = append(parts, compactDuration(time.Duration(m.DurationMS)*time.Millisecond))
	}
	if m.Model != "" {
		parts = append(parts, m.Model)
	}
	if m.Branch != "" {
		parts = append(parts, m.Branch)
	}
	text := Truncate(strings.Join(parts, " · "), cw)
	if m.ContextPercent >= 80 {
		return st.MetricsWarn.Render(text)
	}
	return st.Metrics.Render(text)
}

// compactDuration formats d as 45s, 3m or 1h05m.
func compactDuration(d time.Duration) string {
	d = max(d, 0).Round(time.Second)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

// PadRightStyled pads an already styled string to width visible cells.
func PadRightStyled(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
