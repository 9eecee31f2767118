package executors

import (
	"errors"

	"github.com/promptflow/promptflow/pkg/promptflow"
)

// errNoProvider reports a collaborator call attempted with no client
// configured. It surfaces as a node-local failure, never a panic.
var errNoProvider = errors.New("no AI provider configured")

// Node type tags for the built-in executors.
const (
	TypeInitialPrompt       = "initialPrompt"
	TypePromptEnhancer      = "promptEnhancer"
	TypeTranslator          = "translator"
	TypeStoryTeller         = "storyTeller"
	TypeGrammarFix          = "grammarFix"
	TypeCompressor          = "compressor"
	TypeImageDescriber      = "imageDescriber"
	TypeImageGenerator      = "imageGenerator"
	TypePersonasReplacer    = "personasReplacer"
	TypeConsistentCharacter = "consistentCharacter"
	TypeSceneBuilder        = "sceneBuilder"
	TypeTextOutput          = promptflow.TextOutputNodeType
)

// Register wires every built-in executor into the registry.
func Register(r *promptflow.ExecutorRegistry) {
	r.Register(TypeInitialPrompt, InitialPrompt)
	r.Register(TypePromptEnhancer, PromptEnhancer)
	r.Register(TypeTranslator, Translator)
	r.Register(TypeStoryTeller, StoryTeller)
	r.Register(TypeGrammarFix, GrammarFix)
	r.Register(TypeCompressor, Compressor)
	r.Register(TypeImageDescriber, ImageDescriber)
	r.Register(TypeImageGenerator, ImageGenerator)
	r.Register(TypePersonasReplacer, PersonasReplacer)
	r.Register(TypeConsistentCharacter, ConsistentCharacter)
	r.Register(TypeSceneBuilder, SceneBuilder)
	r.Register(TypeTextOutput, TextOutput)
}
