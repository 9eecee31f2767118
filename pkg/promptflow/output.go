package promptflow

// NodeOutput is the result record of a completed node. All fields are
// optional; a zero value marks the field absent. The JSON tags are the wire
// shape shared with the remote runner and cached-output payloads, and must
// round-trip losslessly.
//
// For a terminal node exactly one of Error or the usable content fields
// (Text/Image/...) is populated; partial per-node success is not modeled.
type NodeOutput struct {
	Text               string `json:"text,omitempty"`
	Image              string `json:"image,omitempty"`
	PersonaDescription string `json:"persona_description,omitempty"`
	PersonaName        string `json:"persona_name,omitempty"`
	ReplacePrompt      string `json:"replace_prompt,omitempty"`
	InjectedPrompt     string `json:"injected_prompt,omitempty"`
	Error              string `json:"error,omitempty"`
	DurationMS         int64  `json:"duration_ms,omitempty"`
}

// HasError reports whether the node ended with a node-local error.
func (o NodeOutput) HasError() bool {
	return o.Error != ""
}

// PrimaryText returns the output's main textual content, falling back
// through the prompt fields in priority order. Returns "" when the output
// carries no usable text, so corrupt upstream shapes degrade to empty text.
func (o NodeOutput) PrimaryText() string {
	switch {
	case o.Text != "":
		return o.Text
	case o.ReplacePrompt != "":
		return o.ReplacePrompt
	case o.InjectedPrompt != "":
		return o.InjectedPrompt
	default:
		return o.PersonaDescription
	}
}
