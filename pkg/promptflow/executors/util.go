package executors

import (
	"strings"

	"github.com/promptflow/promptflow/pkg/promptflow"
	"github.com/promptflow/promptflow/pkg/promptflow/provider"
)

// languageNames maps language codes to full names for translation prompts.
var languageNames = map[string]string{
	"en": "English", "es": "Spanish", "fr": "French", "de": "German",
	"it": "Italian", "pt": "Portuguese", "ru": "Russian", "ja": "Japanese",
	"ko": "Korean", "zh": "Chinese", "ar": "Arabic", "hi": "Hindi",
	"tr": "Turkish", "pl": "Polish", "nl": "Dutch", "sv": "Swedish",
	"da": "Danish", "fi": "Finnish", "no": "Norwegian", "cs": "Czech",
	"el": "Greek", "he": "Hebrew", "th": "Thai", "vi": "Vietnamese",
	"id": "Indonesian", "uk": "Ukrainian", "ro": "Romanian", "hu": "Hungarian",
}

// LanguageName resolves a language code to its full name, falling back to
// the code itself for unknown entries.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

// MergeInputText joins the primary text of each upstream output with blank
// lines, dropping empty entries. Outputs with no usable text contribute
// nothing, so a corrupt upstream shape degrades to empty instead of failing.
func MergeInputText(inputs []promptflow.NodeOutput) string {
	parts := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if t := in.PrimaryText(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}

// ExtractPersonas collects persona records from adapter inputs, keeping only
// those that carry a description. A missing name defaults to "Character".
func ExtractPersonas(adapterInputs []promptflow.NodeOutput) []provider.Persona {
	personas := make([]provider.Persona, 0, len(adapterInputs))
	for _, in := range adapterInputs {
		if in.PersonaDescription == "" {
			continue
		}
		name := in.PersonaName
		if name == "" {
			name = "Character"
		}
		personas = append(personas, provider.Persona{
			Name:        name,
			Description: in.PersonaDescription,
		})
	}
	return personas
}

// injectPersonasIfPresent merges personas from adapter inputs into text via
// the collaborator. With no personas connected, the text passes through
// unchanged and no call is made. Injection always runs last, after the
// node's own transformation.
func injectPersonasIfPresent(ctx promptflow.Context, text string, in promptflow.ExecInput) (string, error) {
	personas := ExtractPersonas(in.AdapterInputs)
	if len(personas) == 0 {
		return text, nil
	}
	client := ctx.Provider()
	if client == nil {
		return "", errNoProvider
	}
	return client.InjectPersonas(ctx, provider.Request{
		Personas:   personas,
		PromptText: text,
		ProviderID: in.ProviderID,
		Model:      in.Model,
		MaxTokens:  in.NodeData.Int("maxTokens", 0),
	})
}
