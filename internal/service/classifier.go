package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"klutr-be/internal/constant"
	"klutr-be/internal/pkg/logger"
	"klutr-be/pkg/llm"
	"klutr-be/pkg/utils"
)

// Classification is the outcome of classifying one note's content.
type Classification struct {
	Type string
	Tags []string
}

// Classifier assigns a type label and tags to raw note content.
type Classifier interface {
	Classify(ctx context.Context, content string) (*Classification, error)
}

const (
	classifyMaxTags       = 5
	classifyMaxTagLength  = 50
	classifyContentWindow = 2000
)

// safeClassification is the result no classifier could improve on.
func safeClassification() *Classification {
	return &Classification{Type: constant.NoteTypeUnclassified, Tags: nil}
}

// --- LLM-backed classifier ---

type llmClassifier struct {
	provider llm.LLMProvider
	model    string
	logger   logger.ILogger
}

func NewLLMClassifier(provider llm.LLMProvider, model string, l logger.ILogger) Classifier {
	return &llmClassifier{
		provider: provider,
		model:    model,
		logger:   l,
	}
}

type classifyResult struct {
	Type string   `json:"type"`
	Tags []string `json:"tags"`
}

func (c *llmClassifier) Classify(ctx context.Context, content string) (*Classification, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return safeClassification(), nil
	}

	prompt := fmt.Sprintf(`Classify this note into exactly one type: idea, task, contact, link, image, voice, or misc.
Also suggest up to %d short lowercase tags.

Note:
%s

Respond with JSON only: {"type": "...", "tags": ["...", "..."]}`,
		classifyMaxTags, utils.Truncate(content, classifyContentWindow))

	raw, err := c.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: constant.ClassifySystemPrompt},
		{Role: "user", Content: prompt},
	}, llm.WithModel(c.model), llm.WithTemperature(0.2))
	if err != nil {
		return nil, err
	}

	var parsed classifyResult
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("classifier: malformed model output: %w", err)
	}

	noteType := strings.ToLower(strings.TrimSpace(parsed.Type))
	if !constant.IsKnownNoteType(noteType) {
		c.logger.Warn("Classifier", "model returned unknown type, coercing to misc", map[string]interface{}{
			"type": noteType,
		})
		noteType = constant.NoteTypeMisc
	}

	return &Classification{
		Type: noteType,
		Tags: sanitizeTags(parsed.Tags),
	}, nil
}

// sanitizeTags lowercases, trims, drops oversized or empty tags and caps the
// list length.
func sanitizeTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || len(tag) >= classifyMaxTagLength {
			continue
		}
		out = append(out, tag)
		if len(out) == classifyMaxTags {
			break
		}
	}
	return out
}

// stripCodeFences removes a markdown code fence wrapper the model may add
// around its JSON reply.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// --- Fallback chain ---

type chainClassifier struct {
	classifiers []Classifier
	logger      logger.ILogger
}

// NewChainClassifier tries each classifier in order and returns the first
// successful result. When every link fails the safe default wins; note
// capture must never fail because classification did.
func NewChainClassifier(l logger.ILogger, classifiers ...Classifier) Classifier {
	return &chainClassifier{
		classifiers: classifiers,
		logger:      l,
	}
}

func (c *chainClassifier) Classify(ctx context.Context, content string) (*Classification, error) {
	for i, classifier := range c.classifiers {
		result, err := classifier.Classify(ctx, content)
		if err == nil && result != nil {
			return result, nil
		}
		if err != nil {
			c.logger.Warn("Classifier", "classifier failed, trying next", map[string]interface{}{
				"position": i,
				"error":    err.Error(),
			})
		}
	}
	return safeClassification(), nil
}
