package photosort

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ScorePrompt is the default instruction for LLM-based scoring. The model is
// asked for a bare decimal so the reply survives ParseScore.
const ScorePrompt = `You are a photo-library safety filter.
Rate how likely it is that this image contains nudity or sexually explicit
content. Reply with a single decimal number between 0.0 and 1.0 and nothing
else. 0.0 means clearly safe, 1.0 means clearly explicit.

Score:`

const (
	defaultVisionModel = "gpt-4o-mini"
	visionMaxBytes     = 20 << 20 // provider-side cap on embedded images
	visionReplyTokens  = 256
)

// VisionScorer rates images through an OpenAI-compatible vision model.
// Safe for concurrent use.
type VisionScorer struct {
	client *openai.Client
	model  string
	prompt string
}

// VisionOptions configures NewVisionScorer. Zero values mean "use defaults":
// empty Model = gpt-4o-mini, empty BaseURL = the public OpenAI endpoint,
// empty Prompt = ScorePrompt.
type VisionOptions struct {
	Model   string
	BaseURL string
	Prompt  string
}

// NewVisionScorer builds a scorer talking to an OpenAI-compatible endpoint.
func NewVisionScorer(apiKey string, opts VisionOptions) *VisionScorer {
	cfg := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	model := opts.Model
	if model == "" {
		model = defaultVisionModel
	}
	prompt := opts.Prompt
	if prompt == "" {
		prompt = ScorePrompt
	}

	return &VisionScorer{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		prompt: prompt,
	}
}

func (s *VisionScorer) String() string { return "vision:" + s.model }

// Score embeds the image as a data: URI in a chat completion request and
// parses the model's reply. File and API errors surface to the caller; the
// pipeline records them per file.
func (s *VisionScorer) Score(ctx context.Context, path string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	if len(data) > visionMaxBytes {
		return 0, fmt.Errorf("image %s too large for vision scoring (%d bytes)",
			filepath.Base(path), len(data))
	}

	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{
					Type: openai.ChatMessagePartTypeText,
					Text: s.prompt,
				},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    EncodeDataURL(data, mimeTypeFor(path)),
						Detail: openai.ImageURLDetailLow,
					},
				},
			},
		}},
	}
	// Reasoning models (o1/o3/o4/gpt-5*) take MaxCompletionTokens instead of MaxTokens.
	if isReasoningModel(s.model) {
		req.MaxCompletionTokens = visionReplyTokens
	} else {
		req.MaxTokens = visionReplyTokens
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("vision completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return 0, errors.New("vision completion: empty response")
	}

	return ParseScore(resp.Choices[0].Message.Content)
}

func isReasoningModel(model string) bool {
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}

var scoreRe = regexp.MustCompile(`\d*\.?\d+`)

// ParseScore extracts the first decimal number from an LLM reply and clamps
// it to [0, 1]. A reply with no number at all is an error.
func ParseScore(resp string) (float64, error) {
	m := scoreRe.FindString(resp)
	if m == "" {
		return 0, fmt.Errorf("no score in reply %q", resp)
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, fmt.Errorf("no score in reply %q", resp)
	}
	return clamp01(v), nil
}
