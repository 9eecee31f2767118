package executors

import "github.com/promptflow/promptflow/pkg/promptflow"

// TextOutput is the terminal sink: it collects upstream text without any
// collaborator call. An empty merge still succeeds; the sink displays
// whatever arrives.
func TextOutput(_ promptflow.Context, in promptflow.ExecInput) promptflow.Result {
	return promptflow.Succeed(promptflow.NodeOutput{Text: MergeInputText(in.Inputs)})
}
