package executors

import (
	"strings"

	"github.com/promptflow/promptflow/pkg/promptflow"
	"github.com/promptflow/promptflow/pkg/promptflow/provider"
)

// compressThreshold is the character count above which the compressor
// rewrites its input. At or below it, text passes through untouched.
const compressThreshold = 2500

// InitialPrompt passes the node's own text through, with persona injection
// when adapters are connected.
func InitialPrompt(ctx promptflow.Context, in promptflow.ExecInput) promptflow.Result {
	text := in.NodeData.String("text", "")
	if strings.TrimSpace(text) == "" {
		return promptflow.Fail("No prompt text entered")
	}

	final, err := injectPersonasIfPresent(ctx, text, in)
	if err != nil {
		return promptflow.Fail(err.Error())
	}
	return promptflow.Succeed(promptflow.NodeOutput{Text: final})
}

// PromptEnhancer enriches upstream text with the node's notes.
func PromptEnhancer(ctx promptflow.Context, in promptflow.ExecInput) promptflow.Result {
	upstream := MergeInputText(in.Inputs)
	if upstream == "" {
		return promptflow.Fail("No input text to enhance")
	}
	client := ctx.Provider()
	if client == nil {
		return promptflow.Fail(errNoProvider.Error())
	}

	enhanced, err := client.Enhance(ctx, provider.Request{
		Text:       upstream,
		Notes:      in.NodeData.String("notes", ""),
		ProviderID: in.ProviderID,
		Model:      in.Model,
		MaxTokens:  in.NodeData.Int("maxTokens", 0),
	})
	if err != nil {
		return promptflow.Fail(err.Error())
	}

	final, err := injectPersonasIfPresent(ctx, enhanced, in)
	if err != nil {
		return promptflow.Fail(err.Error())
	}
	return promptflow.Succeed(promptflow.NodeOutput{Text: final})
}

// Translator renders upstream text into the node's target language.
// With no language selected the text passes through unchanged.
func Translator(ctx promptflow.Context, in promptflow.ExecInput) promptflow.Result {
	upstream := MergeInputText(in.Inputs)
	if upstream == "" {
		return promptflow.Fail("No input text to translate")
	}

	language := in.NodeData.String("language", "")
	if language == "" {
		return promptflow.Succeed(promptflow.NodeOutput{Text: upstream})
	}
	client := ctx.Provider()
	if client == nil {
		return promptflow.Fail(errNoProvider.Error())
	}

	translated, err := client.Translate(ctx, provider.Request{
		Text:       upstream,
		Language:   LanguageName(language),
		ProviderID: in.ProviderID,
		Model:      in.Model,
		MaxTokens:  in.NodeData.Int("maxTokens", 0),
	})
	if err != nil {
		return promptflow.Fail(err.Error())
	}
	return promptflow.Succeed(promptflow.NodeOutput{Text: translated})
}

// StoryTeller expands an idea into a creative prompt. Upstream text wins
// over the node's own idea field.
func StoryTeller(ctx promptflow.Context, in promptflow.ExecInput) promptflow.Result {
	text := MergeInputText(in.Inputs)
	if text == "" {
		text = in.NodeData.String("idea", "")
	}
	if strings.TrimSpace(text) == "" {
		return promptflow.Fail("No idea provided")
	}
	client := ctx.Provider()
	if client == nil {
		return promptflow.Fail(errNoProvider.Error())
	}

	story, err := client.GenerateStory(ctx, provider.Request{
		Text:       text,
		Tags:       in.NodeData.String("tags", ""),
		ProviderID: in.ProviderID,
		Model:      in.Model,
		MaxTokens:  in.NodeData.Int("maxTokens", 0),
	})
	if err != nil {
		return promptflow.Fail(err.Error())
	}

	final, err := injectPersonasIfPresent(ctx, story, in)
	if err != nil {
		return promptflow.Fail(err.Error())
	}
	return promptflow.Succeed(promptflow.NodeOutput{Text: final})
}

// GrammarFix corrects grammar and typos in upstream text.
func GrammarFix(ctx promptflow.Context, in promptflow.ExecInput) promptflow.Result {
	upstream := MergeInputText(in.Inputs)
	if upstream == "" {
		return promptflow.Fail("No input text to fix")
	}
	client := ctx.Provider()
	if client == nil {
		return promptflow.Fail(errNoProvider.Error())
	}

	fixed, err := client.FixGrammar(ctx, provider.Request{
		Text:       upstream,
		Style:      in.NodeData.String("style", ""),
		ProviderID: in.ProviderID,
		Model:      in.Model,
		MaxTokens:  in.NodeData.Int("maxTokens", 0),
	})
	if err != nil {
		return promptflow.Fail(err.Error())
	}
	return promptflow.Succeed(promptflow.NodeOutput{Text: fixed})
}

// Compressor shortens upstream text when it exceeds the threshold;
// shorter text passes through without a collaborator call.
func Compressor(ctx promptflow.Context, in promptflow.ExecInput) promptflow.Result {
	upstream := MergeInputText(in.Inputs)
	if upstream == "" {
		return promptflow.Fail("No input text to compress")
	}
	if len(upstream) <= compressThreshold {
		return promptflow.Succeed(promptflow.NodeOutput{Text: upstream})
	}
	client := ctx.Provider()
	if client == nil {
		return promptflow.Fail(errNoProvider.Error())
	}

	compressed, err := client.Compress(ctx, provider.Request{
		Text:       upstream,
		ProviderID: in.ProviderID,
		Model:      in.Model,
		MaxTokens:  in.NodeData.Int("maxTokens", 0),
	})
	if err != nil {
		return promptflow.Fail(err.Error())
	}
	return promptflow.Succeed(promptflow.NodeOutput{Text: compressed})
}
