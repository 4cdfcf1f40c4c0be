package openai

import (
	"context"
	"fmt"

	"github.com/conjure-cli/conjure/pkg/modeladapter"
)

const responsesPath = "/v1/responses"

// ImageOptions configure the image_generation tool on the Responses
// endpoint. Zero values are omitted from the request so the API picks its
// own defaults.
type ImageOptions struct {
	Size        string // e.g. "1024x1024", "1536x1024", "auto".
	Quality     string // "low", "medium", "high", "auto".
	Format      string // "png", "jpeg", "webp".
	Background  string // "transparent", "opaque", "auto".
	Compression *int   // 0-100, jpeg/webp only; nil is omitted, 0 is sent.
}

// ImageResult is a single generated image.
type ImageResult struct {
	// ID identifies the generation call on the API side.
	ID string

	// B64Data is the base64-encoded image payload.
	B64Data string

	// RevisedPrompt is the prompt the model actually used, when the API
	// reports one.
	RevisedPrompt string
}

// GenerateImage renders an image from the prompt. Input images, given as
// URLs or data URLs, are passed alongside the prompt for edit-style
// generation.
func (a *Adapter) GenerateImage(ctx context.Context, prompt string, images []string, opts ImageOptions) (ImageResult, error) {
	req := imageRequest{
		Model: a.Name,
		Input: imageInput(prompt, images),
		Tools: []imageToolDef{{
			Type:              "image_generation",
			Size:              opts.Size,
			Quality:           opts.Quality,
			OutputFormat:      opts.Format,
			Background:        opts.Background,
			OutputCompression: opts.Compression,
		}},
	}

	var resp imageResponse
	if err := a.PostJSON(ctx, responsesPath, req, &resp); err != nil {
		return ImageResult{}, fmt.Errorf("openai: %w", err)
	}

	for _, out := range resp.Output {
		if out.Type == "image_generation_call" && out.Result != "" {
			return ImageResult{ID: out.ID, B64Data: out.Result, RevisedPrompt: out.RevisedPrompt}, nil
		}
	}

	return ImageResult{}, fmt.Errorf("openai: %w", &modeladapter.ResponseError{Detail: "no image in response"})
}

type imageRequest struct {
	Model string         `json:"model"`
	Input any            `json:"input"`
	Tools []imageToolDef `json:"tools"`
}

type imageToolDef struct {
	Type              string `json:"type"`
	Size              string `json:"size,omitempty"`
	Quality           string `json:"quality,omitempty"`
	OutputFormat      string `json:"output_format,omitempty"`
	Background        string `json:"background,omitempty"`
	OutputCompression *int  `json:"output_compression,omitempty"`
}

type imageInputMessage struct {
	Role    string           `json:"role"`
	Content []imageInputPart `json:"content"`
}

type imageInputPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type imageResponse struct {
	Output []imageOutput `json:"output"`
}

type imageOutput struct {
	Type          string `json:"type"`
	ID            string `json:"id"`
	Result        string `json:"result"`
	RevisedPrompt string `json:"revised_prompt"`
}

// imageInput builds the request input: a bare string for prompt-only calls,
// a single user message with text and image parts otherwise.
func imageInput(prompt string, images []string) any {
	if len(images) == 0 {
		return prompt
	}

	parts := make([]imageInputPart, 0, len(images)+1)
	parts = append(parts, imageInputPart{Type: "input_text", Text: prompt})
	for _, img := range images {
		parts = append(parts, imageInputPart{Type: "input_image", ImageURL: img})
	}

	return []imageInputMessage{{Role: "user", Content: parts}}
}
