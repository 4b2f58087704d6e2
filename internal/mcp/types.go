package mcp

// CursorStatusInput is the input for the cursor_status tool.
type CursorStatusInput struct{}

// CursorStatusOutput is the output for the cursor_status tool.
type CursorStatusOutput struct {
	Phase         string `json:"phase"`
	Frozen        bool   `json:"frozen"`
	FocusMarker   string `json:"focus_marker"`
	FocusedID     string `json:"focused_id,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// CursorFreezeInput is the input for the cursor_freeze tool.
type CursorFreezeInput struct{}

// CursorFreezeOutput is the output for the cursor_freeze tool.
type CursorFreezeOutput struct {
	Frozen bool `json:"frozen"`
}

// CursorResumeInput is the input for the cursor_resume tool.
type CursorResumeInput struct{}

// CursorResumeOutput is the output for the cursor_resume tool.
type CursorResumeOutput struct {
	Frozen bool `json:"frozen"`
}

// CursorRefocusInput is the input for the cursor_refocus tool.
type CursorRefocusInput struct{}

// CursorRefocusOutput is the output for the cursor_refocus tool.
type CursorRefocusOutput struct {
	FocusedID string `json:"focused_id,omitempty"`
}

// CursorFocusedInput is the input for the cursor_focused tool.
type CursorFocusedInput struct{}

// CursorFocusedOutput is the output for the cursor_focused tool.
type CursorFocusedOutput struct {
	FocusedID string `json:"focused_id,omitempty"`
	Tracked   bool   `json:"tracked"`
}
