package styles

// Glyphs used in sidebar rows. They are plain unicode so no patched font is
// required.
const (
	IconActive      = "▶"
	IconIdle        = "·"
	IconDone        = "✓"
	IconRecommended = "★"
	IconClarified   = "◆"
	IconPending     = "○"
	IconInProgress  = "◐"
	IconCompleted   = "●"
	IconPrompt      = "›"
	IconEllipsis    = "…"
)
