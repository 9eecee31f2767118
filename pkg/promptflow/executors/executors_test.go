package executors_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptflow/promptflow/pkg/promptflow"
	"github.com/promptflow/promptflow/pkg/promptflow/config"
	"github.com/promptflow/promptflow/pkg/promptflow/executors"
	"github.com/promptflow/promptflow/pkg/promptflow/provider"
)

// stubClient records endpoint calls in order and returns canned results.
type stubClient struct {
	calls   []string
	reqs    map[string]provider.Request
	results map[string]string
	errs    map[string]error
}

func newStubClient() *stubClient {
	return &stubClient{
		reqs:    make(map[string]provider.Request),
		results: make(map[string]string),
		errs:    make(map[string]error),
	}
}

func (c *stubClient) do(op string, req provider.Request) (string, error) {
	c.calls = append(c.calls, op)
	c.reqs[op] = req
	if err := c.errs[op]; err != nil {
		return "", err
	}
	if result, ok := c.results[op]; ok {
		return result, nil
	}
	return op + " result", nil
}

func (c *stubClient) Enhance(_ context.Context, req provider.Request) (string, error) {
	return c.do("enhance", req)
}
func (c *stubClient) Translate(_ context.Context, req provider.Request) (string, error) {
	return c.do("translate", req)
}
func (c *stubClient) DescribeImage(_ context.Context, req provider.Request) (string, error) {
	return c.do("describe", req)
}
func (c *stubClient) FixGrammar(_ context.Context, req provider.Request) (string, error) {
	return c.do("grammar-fix", req)
}
func (c *stubClient) GenerateStory(_ context.Context, req provider.Request) (string, error) {
	return c.do("storyteller", req)
}
func (c *stubClient) Compress(_ context.Context, req provider.Request) (string, error) {
	return c.do("compress", req)
}
func (c *stubClient) InjectPersonas(_ context.Context, req provider.Request) (string, error) {
	return c.do("inject-persona", req)
}
func (c *stubClient) ReplacePersonas(_ context.Context, req provider.Request) (string, error) {
	return c.do("replace", req)
}
func (c *stubClient) GenerateImage(_ context.Context, req provider.Request) (string, error) {
	return c.do("generate-image", req)
}

func execCtx(client provider.Client) promptflow.Context {
	return promptflow.NewContext(context.Background(), promptflow.WithProvider(client))
}

func textInput(texts ...string) []promptflow.NodeOutput {
	outs := make([]promptflow.NodeOutput, len(texts))
	for i, t := range texts {
		outs[i] = promptflow.NodeOutput{Text: t}
	}
	return outs
}

func personaInput(name, description string) promptflow.NodeOutput {
	return promptflow.NodeOutput{PersonaName: name, PersonaDescription: description}
}

// TestMergeInputText tests blank-line joining with the fallback chain.
func TestMergeInputText(t *testing.T) {
	inputs := []promptflow.NodeOutput{
		{Text: "first"},
		{ReplacePrompt: "second"},
		{},
		{PersonaDescription: "third"},
	}

	assert.Equal(t, "first\n\nsecond\n\nthird", executors.MergeInputText(inputs))
	assert.Empty(t, executors.MergeInputText(nil))
}

// TestExtractPersonas tests filtering and the default name.
func TestExtractPersonas(t *testing.T) {
	inputs := []promptflow.NodeOutput{
		personaInput("Ada", "a mathematician"),
		{Text: "not a persona"},
		personaInput("", "anonymous hero"),
	}

	personas := executors.ExtractPersonas(inputs)

	require.Len(t, personas, 2)
	assert.Equal(t, provider.Persona{Name: "Ada", Description: "a mathematician"}, personas[0])
	assert.Equal(t, "Character", personas[1].Name)
}

// TestLanguageName tests code resolution with unknown fallback.
func TestLanguageName(t *testing.T) {
	assert.Equal(t, "Spanish", executors.LanguageName("es"))
	assert.Equal(t, "xx", executors.LanguageName("xx"))
}

// TestInitialPrompt_Passthrough tests the no-adapter path makes no calls.
func TestInitialPrompt_Passthrough(t *testing.T) {
	client := newStubClient()
	result := executors.InitialPrompt(execCtx(client), promptflow.ExecInput{
		NodeData: config.Data{"text": "a castle at dusk"},
	})

	require.True(t, result.Success)
	assert.Equal(t, "a castle at dusk", result.Output.Text)
	assert.Empty(t, client.calls)
}

// TestInitialPrompt_EmptyText tests the validation failure.
func TestInitialPrompt_EmptyText(t *testing.T) {
	result := executors.InitialPrompt(execCtx(newStubClient()), promptflow.ExecInput{
		NodeData: config.Data{"text": "   "},
	})

	assert.False(t, result.Success)
	assert.Equal(t, "No prompt text entered", result.Output.Error)
}

// TestInitialPrompt_PersonaInjection tests that connected personas trigger
// injection with the node's text as the prompt.
func TestInitialPrompt_PersonaInjection(t *testing.T) {
	client := newStubClient()
	client.results["inject-persona"] = "injected castle"

	result := executors.InitialPrompt(execCtx(client), promptflow.ExecInput{
		NodeData:      config.Data{"text": "a castle"},
		AdapterInputs: []promptflow.NodeOutput{personaInput("Ada", "a mathematician")},
		ProviderID:    "openai",
	})

	require.True(t, result.Success)
	assert.Equal(t, "injected castle", result.Output.Text)
	assert.Equal(t, []string{"inject-persona"}, client.calls)
	assert.Equal(t, "a castle", client.reqs["inject-persona"].PromptText)
	assert.Equal(t, "openai", client.reqs["inject-persona"].ProviderID)
}

// TestPromptEnhancer_InjectionLast tests the enhance-then-inject ordering:
// personas merge into the enhanced text, not the raw input.
func TestPromptEnhancer_InjectionLast(t *testing.T) {
	client := newStubClient()
	client.results["enhance"] = "enhanced text"
	client.results["inject-persona"] = "final text"

	result := executors.PromptEnhancer(execCtx(client), promptflow.ExecInput{
		NodeData:      config.Data{"notes": "add drama", "maxTokens": 100},
		Inputs:        textInput("raw text"),
		AdapterInputs: []promptflow.NodeOutput{personaInput("Ada", "a mathematician")},
	})

	require.True(t, result.Success)
	assert.Equal(t, "final text", result.Output.Text)
	assert.Equal(t, []string{"enhance", "inject-persona"}, client.calls)
	assert.Equal(t, "raw text", client.reqs["enhance"].Text)
	assert.Equal(t, "add drama", client.reqs["enhance"].Notes)
	assert.Equal(t, 100, client.reqs["enhance"].MaxTokens)
	assert.Equal(t, "enhanced text", client.reqs["inject-persona"].PromptText)
}

// TestPromptEnhancer_NoInput tests the empty-input failure.
func TestPromptEnhancer_NoInput(t *testing.T) {
	result := executors.PromptEnhancer(execCtx(newStubClient()), promptflow.ExecInput{})

	assert.False(t, result.Success)
	assert.Equal(t, "No input text to enhance", result.Output.Error)
}

// TestPromptEnhancer_CollaboratorError tests endpoint failures become
// node-local errors.
func TestPromptEnhancer_CollaboratorError(t *testing.T) {
	client := newStubClient()
	client.errs["enhance"] = errors.New("Enhancement failed")

	result := executors.PromptEnhancer(execCtx(client), promptflow.ExecInput{
		Inputs: textInput("raw"),
	})

	assert.False(t, result.Success)
	assert.Equal(t, "Enhancement failed", result.Output.Error)
}

// TestTranslator_NoLanguagePassthrough tests pass-through without a target.
func TestTranslator_NoLanguagePassthrough(t *testing.T) {
	client := newStubClient()
	result := executors.Translator(execCtx(client), promptflow.ExecInput{
		Inputs: textInput("hola"),
	})

	require.True(t, result.Success)
	assert.Equal(t, "hola", result.Output.Text)
	assert.Empty(t, client.calls)
}

// TestTranslator_LanguageResolved tests code-to-name resolution on the wire.
func TestTranslator_LanguageResolved(t *testing.T) {
	client := newStubClient()
	client.results["translate"] = "bonjour"

	result := executors.Translator(execCtx(client), promptflow.ExecInput{
		NodeData: config.Data{"language": "fr"},
		Inputs:   textInput("hello"),
	})

	require.True(t, result.Success)
	assert.Equal(t, "bonjour", result.Output.Text)
	assert.Equal(t, "French", client.reqs["translate"].Language)
}

// TestStoryTeller_UpstreamWinsOverIdea tests input precedence.
func TestStoryTeller_UpstreamWinsOverIdea(t *testing.T) {
	client := newStubClient()
	result := executors.StoryTeller(execCtx(client), promptflow.ExecInput{
		NodeData: config.Data{"idea": "node idea", "tags": "noir"},
		Inputs:   textInput("upstream idea"),
	})

	require.True(t, result.Success)
	assert.Equal(t, "upstream idea", client.reqs["storyteller"].Text)
	assert.Equal(t, "noir", client.reqs["storyteller"].Tags)
}

// TestStoryTeller_NoIdea tests the validation failure.
func TestStoryTeller_NoIdea(t *testing.T) {
	result := executors.StoryTeller(execCtx(newStubClient()), promptflow.ExecInput{
		NodeData: config.Data{},
	})

	assert.False(t, result.Success)
	assert.Equal(t, "No idea provided", result.Output.Error)
}

// TestCompressor_Gate tests the size threshold: short text passes through
// without a call, long text compresses.
func TestCompressor_Gate(t *testing.T) {
	client := newStubClient()

	short := executors.Compressor(execCtx(client), promptflow.ExecInput{
		Inputs: textInput("short text"),
	})
	require.True(t, short.Success)
	assert.Equal(t, "short text", short.Output.Text)
	assert.Empty(t, client.calls)

	long := strings.Repeat("x", 2501)
	client.results["compress"] = "tiny"
	compressed := executors.Compressor(execCtx(client), promptflow.ExecInput{
		Inputs: textInput(long),
	})
	require.True(t, compressed.Success)
	assert.Equal(t, "tiny", compressed.Output.Text)
	assert.Equal(t, []string{"compress"}, client.calls)
}

// TestGrammarFix tests the basic call shape.
func TestGrammarFix(t *testing.T) {
	client := newStubClient()
	client.results["grammar-fix"] = "fixed"

	result := executors.GrammarFix(execCtx(client), promptflow.ExecInput{
		NodeData: config.Data{"style": "formal"},
		Inputs:   textInput("teh text"),
	})

	require.True(t, result.Success)
	assert.Equal(t, "fixed", result.Output.Text)
	assert.Equal(t, "formal", client.reqs["grammar-fix"].Style)
}

// TestConsistentCharacter tests the pure persona source.
func TestConsistentCharacter(t *testing.T) {
	result := executors.ConsistentCharacter(execCtx(nil), promptflow.ExecInput{
		NodeData: config.Data{"characterDescription": "a tall knight", "characterName": "Roland"},
	})

	require.True(t, result.Success)
	assert.Equal(t, "a tall knight", result.Output.Text)
	assert.Equal(t, "a tall knight", result.Output.PersonaDescription)
	assert.Equal(t, "Roland", result.Output.PersonaName)
}

// TestConsistentCharacter_Defaults tests the missing-selection failure and
// the default name.
func TestConsistentCharacter_Defaults(t *testing.T) {
	missing := executors.ConsistentCharacter(execCtx(nil), promptflow.ExecInput{
		NodeData: config.Data{},
	})
	assert.False(t, missing.Success)

	unnamed := executors.ConsistentCharacter(execCtx(nil), promptflow.ExecInput{
		NodeData: config.Data{"characterDescription": "someone"},
	})
	require.True(t, unnamed.Success)
	assert.Equal(t, "Character", unnamed.Output.PersonaName)
}

// TestSceneBuilder tests composition in category order.
func TestSceneBuilder(t *testing.T) {
	result := executors.SceneBuilder(execCtx(nil), promptflow.ExecInput{
		NodeData: config.Data{"mood": "epic", "lighting": "neon"},
	})

	require.True(t, result.Success)
	blocks := strings.Split(result.Output.Text, "\n\n")
	require.Len(t, blocks, 2)
	assert.Contains(t, blocks[0], "neon")
	assert.Contains(t, blocks[1], "epic")
}

// TestSceneBuilder_NoSelections tests the empty-config failure.
func TestSceneBuilder_NoSelections(t *testing.T) {
	result := executors.SceneBuilder(execCtx(nil), promptflow.ExecInput{
		NodeData: config.Data{"lighting": "plasma"},
	})

	assert.False(t, result.Success)
	assert.Equal(t, "No scene attributes selected", result.Output.Error)
}

// TestTextOutput tests the terminal sink.
func TestTextOutput(t *testing.T) {
	result := executors.TextOutput(execCtx(nil), promptflow.ExecInput{
		Inputs: textInput("a", "b"),
	})

	require.True(t, result.Success)
	assert.Equal(t, "a\n\nb", result.Output.Text)

	empty := executors.TextOutput(execCtx(nil), promptflow.ExecInput{})
	assert.True(t, empty.Success)
	assert.Empty(t, empty.Output.Text)
}

// TestImageDescriber tests describe-then-inject.
func TestImageDescriber(t *testing.T) {
	client := newStubClient()
	client.results["describe"] = "a painting of a dog"

	result := executors.ImageDescriber(execCtx(client), promptflow.ExecInput{
		NodeData: config.Data{"image": "upload://dog.png"},
	})

	require.True(t, result.Success)
	assert.Equal(t, "a painting of a dog", result.Output.Text)
	assert.Equal(t, "upload://dog.png", client.reqs["describe"].Image)

	missing := executors.ImageDescriber(execCtx(client), promptflow.ExecInput{})
	assert.False(t, missing.Success)
	assert.Equal(t, "No image selected", missing.Output.Error)
}

// TestImageGenerator tests prompt-to-image.
func TestImageGenerator(t *testing.T) {
	client := newStubClient()
	client.results["generate-image"] = "https://img/1.png"

	result := executors.ImageGenerator(execCtx(client), promptflow.ExecInput{
		Inputs: textInput("a castle"),
	})

	require.True(t, result.Success)
	assert.Equal(t, "https://img/1.png", result.Output.Image)
	assert.Equal(t, "a castle", result.Output.Text)

	missing := executors.ImageGenerator(execCtx(client), promptflow.ExecInput{})
	assert.False(t, missing.Success)
}

// TestPersonasReplacer tests the replace-prompt path.
func TestPersonasReplacer(t *testing.T) {
	client := newStubClient()
	client.results["replace"] = "Roland rides at dusk"

	result := executors.PersonasReplacer(execCtx(client), promptflow.ExecInput{
		Inputs:        textInput("a knight rides at dusk"),
		AdapterInputs: []promptflow.NodeOutput{personaInput("Roland", "a tall knight")},
	})

	require.True(t, result.Success)
	assert.Equal(t, "Roland rides at dusk", result.Output.ReplacePrompt)
	assert.Empty(t, result.Output.Text)

	noPersona := executors.PersonasReplacer(execCtx(client), promptflow.ExecInput{
		Inputs: textInput("text"),
	})
	assert.False(t, noPersona.Success)
	assert.Equal(t, "No character connected", noPersona.Output.Error)
}

// TestNilProvider tests that collaborator executors fail cleanly without a
// configured client.
func TestNilProvider(t *testing.T) {
	result := executors.PromptEnhancer(execCtx(nil), promptflow.ExecInput{
		Inputs: textInput("text"),
	})

	assert.False(t, result.Success)
	assert.Equal(t, "no AI provider configured", result.Output.Error)
}

// TestRegister tests that all built-in types land in the registry.
func TestRegister(t *testing.T) {
	r := promptflow.NewRegistry()
	executors.Register(r)

	want := []string{
		executors.TypeInitialPrompt, executors.TypePromptEnhancer, executors.TypeTranslator,
		executors.TypeStoryTeller, executors.TypeGrammarFix, executors.TypeCompressor,
		executors.TypeImageDescriber, executors.TypeImageGenerator, executors.TypePersonasReplacer,
		executors.TypeConsistentCharacter, executors.TypeSceneBuilder, executors.TypeTextOutput,
	}
	for _, nodeType := range want {
		assert.True(t, r.Has(nodeType), nodeType)
	}
	assert.Len(t, r.Types(), len(want))
}
