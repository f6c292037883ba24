package assistant

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"citysafe/pkg/llm"
)

const systemPrompt = "You are a safety-focused assistant for the CitySafe app. " +
	"Provide information about safe and unsafe areas in Jamaica, safety tips, crime statistics, and emergency procedures. " +
	"When users ask about locations, provide safety assessments and local safety information. " +
	"For safety recommendations, emphasize staying in well-lit areas, avoiding walking alone at night, keeping valuables secure, " +
	"staying alert, trusting instincts, using official transportation, staying updated on local safety conditions, " +
	"and using emergency features in the app. Be concise, accurate, and helpful while maintaining a friendly tone."

// Messages shown instead of a crash when the assistant cannot answer.
const (
	msgNoAPIKey    = "Error: the assistant API key is not configured. Please set CITYSAFE_GEMINI_API_KEY."
	msgRateLimited = "Error: rate limit exceeded. Please try again later."
	msgBadAPIKey   = "Error: API key is invalid. Please check your assistant API key configuration."
	msgGeneric     = "Sorry, I'm having trouble responding right now. Please try again."
)

// Assistant is the safety chat. It keeps the running conversation and
// enriches prompts with the area knowledge base before calling the model. A
// missing API key degrades to a user-visible error string, never a crash.
type Assistant struct {
	mu      sync.Mutex
	model   llm.LLM
	history []llm.Message
	log     *logrus.Logger
}

// Config carries what the assistant needs from the app configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

func New(cfg Config, log *logrus.Logger) *Assistant {
	if log == nil {
		log = logrus.New()
	}
	a := &Assistant{log: log}
	if strings.TrimSpace(cfg.APIKey) == "" {
		log.Warn("assistant API key is not configured; chat is disabled")
		return a
	}
	a.model = llm.NewGeminiHandler(cfg.APIKey, cfg.BaseURL, cfg.Model, systemPrompt, log)
	return a
}

// Enabled reports whether the chat feature is usable.
func (a *Assistant) Enabled() bool { return a.model != nil }

// Ask sends one user message and returns the reply. All failures come back
// as readable strings so the chat screen never has to special-case errors.
func (a *Assistant) Ask(ctx context.Context, userMessage string) string {
	if a.model == nil {
		return msgNoAPIKey
	}

	prompt := userMessage
	if info, ok := findMentionedLocation(userMessage); ok {
		prompt += "\n\nSpecific information for " + info.Name + ": Safety level is " + string(info.Level) + ". " +
			info.Description + "\n\nSafety tips for this area: " + strings.Join(info.Tips, ", ") + "."
	}
	if mentionsSafety(userMessage) {
		prompt += "\n\nAs a safety-focused assistant, remember that personal safety is paramount. " +
			"Always stay alert, aware of your surroundings, and trust your instincts. " +
			"For emergencies, contact local authorities immediately."
	}

	a.mu.Lock()
	history := make([]llm.Message, len(a.history))
	copy(history, a.history)
	a.mu.Unlock()

	reply, err := a.model.Query(ctx, history, prompt)
	if err != nil {
		a.log.WithError(err).Error("assistant query failed")
		msg := err.Error()
		switch {
		case strings.Contains(msg, "API_KEY_INVALID") || strings.Contains(msg, "401"):
			return msgBadAPIKey
		case strings.Contains(msg, "429"):
			return msgRateLimited
		default:
			return msgGeneric
		}
	}

	a.mu.Lock()
	a.history = append(a.history,
		llm.Message{Role: llm.RoleUser, Content: userMessage},
		llm.Message{Role: llm.RoleAssistant, Content: reply},
	)
	a.mu.Unlock()
	return reply
}

// Reset clears the conversation history.
func (a *Assistant) Reset() {
	a.mu.Lock()
	a.history = nil
	a.mu.Unlock()
}
