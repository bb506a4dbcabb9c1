package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/PabloGalante/finbot/internal/domain"
	"github.com/PabloGalante/finbot/internal/observability"
)

// Fixed fallback strings for the total-response contract.
const (
	connectivityAnswer = "I encountered an error connecting to my knowledge base. Please check your connection and try again."
	rephraseAnswer     = "I'm sorry, I couldn't process that. Could you try rephrasing?"
)

var connectivitySuggestions = []string{"Try asking again", "What can you help with?"}

// GeminiClient implements domain.Assistant against the Gemini API.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

type Options struct {
	// APIKey selects the Gemini API backend.
	APIKey string
	// GCPProject/GCPLocation select the Vertex AI backend instead.
	GCPProject  string
	GCPLocation string

	ModelName string
}

func NewGeminiClient(ctx context.Context, opts Options) (*GeminiClient, error) {
	cfg := &genai.ClientConfig{}
	switch {
	case opts.GCPProject != "":
		cfg.Project = opts.GCPProject
		cfg.Location = opts.GCPLocation
		cfg.Backend = genai.BackendVertexAI
	case opts.APIKey != "":
		cfg.APIKey = opts.APIKey
		cfg.Backend = genai.BackendGeminiAPI
	default:
		return nil, fmt.Errorf("either GEMINI_API_KEY or FINBOT_GCP_PROJECT must be set")
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	modelName := opts.ModelName
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	return &GeminiClient{client: client, modelName: modelName}, nil
}

// replySchema constrains the model to {"answer": string, "suggestions": [string]}.
func replySchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"answer": {
				Type:        genai.TypeString,
				Description: "The main financial literacy response",
			},
			"suggestions": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Follow-up questions",
			},
		},
		Required: []string{"answer", "suggestions"},
	}
}

// GenerateResponse implements domain.Assistant. Every failure resolves to
// a fallback Reply; the caller never sees an error from this path.
func (g *GeminiClient) GenerateResponse(ctx context.Context, history []*domain.Message, userMessage string) domain.Reply {
	log := observability.LoggerFromContext(ctx)

	var contents []*genai.Content
	for _, m := range history {
		role := genai.Role(genai.RoleUser)
		if m.Role == domain.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(userMessage, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    replySchema(),
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		log.Error("gemini call failed", "error", err)
		return connectivityReply()
	}

	return decodeReply(res.Text())
}

// decodeReply parses the structured payload, substituting the rephrase
// apology for a missing answer and an empty list for missing suggestions.
// A non-JSON payload degrades to the connectivity fallback.
func decodeReply(raw string) domain.Reply {
	var payload struct {
		Answer      string   `json:"answer"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		observability.Logger().Error("gemini returned unparseable payload", "error", err)
		return connectivityReply()
	}

	reply := domain.Reply{Answer: payload.Answer, Suggestions: payload.Suggestions}
	if reply.Answer == "" {
		reply.Answer = rephraseAnswer
	}
	if reply.Suggestions == nil {
		reply.Suggestions = []string{}
	}
	return reply
}

func connectivityReply() domain.Reply {
	return domain.Reply{
		Answer:      connectivityAnswer,
		Suggestions: append([]string(nil), connectivitySuggestions...),
	}
}
