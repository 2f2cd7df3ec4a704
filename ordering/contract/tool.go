package contract

// ToolResult wraps one tool invocation outcome for the agent transport.
// Operation-level failures live inside Result's envelope; Error is set only
// when the invocation itself could not be dispatched.
type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}
