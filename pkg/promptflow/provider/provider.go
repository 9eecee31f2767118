// Package provider defines the narrow request/response contract between
// executors and the external AI endpoint family (enhance, translate,
// describe-image, ...). The endpoints themselves are opaque services; this
// package only models the call shape and its success/error branch.
package provider

import "context"

// Persona is the identity payload for persona injection and replacement.
type Persona struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Request is the common payload accepted by every endpoint in the family.
// Endpoints read the subset of fields they care about.
type Request struct {
	Text       string    `json:"text,omitempty"`
	Image      string    `json:"image,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	Style      string    `json:"style,omitempty"`
	Language   string    `json:"language,omitempty"`
	Tags       string    `json:"tags,omitempty"`
	Personas   []Persona `json:"personas,omitempty"`
	PromptText string    `json:"prompt_text,omitempty"`
	ProviderID string    `json:"provider_id"`
	Model      string    `json:"model,omitempty"`
	MaxTokens  int       `json:"max_tokens,omitempty"`
}

// Client is the collaborator invoked by the built-in executors. Each method
// maps to one endpoint and returns the endpoint's single result field.
// Implementations own any per-call timeout; the engine imposes none.
type Client interface {
	// Enhance rewrites Text into a richer prompt, guided by Notes.
	Enhance(ctx context.Context, req Request) (string, error)

	// Translate renders Text into Language (a full language name).
	Translate(ctx context.Context, req Request) (string, error)

	// DescribeImage produces a textual description of Image.
	DescribeImage(ctx context.Context, req Request) (string, error)

	// FixGrammar corrects grammar and typos in Text, optionally in Style.
	FixGrammar(ctx context.Context, req Request) (string, error)

	// GenerateStory expands Text (an idea) into a creative prompt.
	GenerateStory(ctx context.Context, req Request) (string, error)

	// Compress shortens Text while preserving meaning.
	Compress(ctx context.Context, req Request) (string, error)

	// InjectPersonas merges Personas into PromptText.
	InjectPersonas(ctx context.Context, req Request) (string, error)

	// ReplacePersonas rewrites Text so its subjects become Personas,
	// returning a replace prompt for image generation.
	ReplacePersonas(ctx context.Context, req Request) (string, error)

	// GenerateImage produces an image reference from Text.
	GenerateImage(ctx context.Context, req Request) (string, error)
}
