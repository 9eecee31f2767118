package executors

import (
	"github.com/promptflow/promptflow/pkg/promptflow"
	"github.com/promptflow/promptflow/pkg/promptflow/provider"
)

// ImageDescriber turns the node's attached image into a textual description.
func ImageDescriber(ctx promptflow.Context, in promptflow.ExecInput) promptflow.Result {
	image := in.NodeData.String("image", "")
	if image == "" {
		return promptflow.Fail("No image selected")
	}
	client := ctx.Provider()
	if client == nil {
		return promptflow.Fail(errNoProvider.Error())
	}

	description, err := client.DescribeImage(ctx, provider.Request{
		Image:      image,
		Style:      in.NodeData.String("style", ""),
		ProviderID: in.ProviderID,
		Model:      in.Model,
		MaxTokens:  in.NodeData.Int("maxTokens", 0),
	})
	if err != nil {
		return promptflow.Fail(err.Error())
	}

	final, err := injectPersonasIfPresent(ctx, description, in)
	if err != nil {
		return promptflow.Fail(err.Error())
	}
	return promptflow.Succeed(promptflow.NodeOutput{Text: final})
}

// ImageGenerator produces an image reference from upstream prompt text.
func ImageGenerator(ctx promptflow.Context, in promptflow.ExecInput) promptflow.Result {
	prompt := MergeInputText(in.Inputs)
	if prompt == "" {
		return promptflow.Fail("No prompt text to generate from")
	}
	client := ctx.Provider()
	if client == nil {
		return promptflow.Fail(errNoProvider.Error())
	}

	image, err := client.GenerateImage(ctx, provider.Request{
		Text:       prompt,
		Style:      in.NodeData.String("style", ""),
		ProviderID: in.ProviderID,
		Model:      in.Model,
	})
	if err != nil {
		return promptflow.Fail(err.Error())
	}
	return promptflow.Succeed(promptflow.NodeOutput{Image: image, Text: prompt})
}

// PersonasReplacer rewrites upstream text so its subjects become the
// personas connected on adapter handles, producing a replace prompt.
func PersonasReplacer(ctx promptflow.Context, in promptflow.ExecInput) promptflow.Result {
	upstream := MergeInputText(in.Inputs)
	if upstream == "" {
		return promptflow.Fail("No input text to rewrite")
	}

	personas := ExtractPersonas(in.AdapterInputs)
	if len(personas) == 0 {
		return promptflow.Fail("No character connected")
	}
	client := ctx.Provider()
	if client == nil {
		return promptflow.Fail(errNoProvider.Error())
	}

	replaced, err := client.ReplacePersonas(ctx, provider.Request{
		Text:       upstream,
		Personas:   personas,
		ProviderID: in.ProviderID,
		Model:      in.Model,
		MaxTokens:  in.NodeData.Int("maxTokens", 0),
	})
	if err != nil {
		return promptflow.Fail(err.Error())
	}
	return promptflow.Succeed(promptflow.NodeOutput{ReplacePrompt: replaced})
}
