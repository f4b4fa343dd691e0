package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"klutr-be/internal/constant"
	"klutr-be/internal/dto"
	"klutr-be/internal/entity"
	"klutr-be/internal/pkg/logger"
	"klutr-be/internal/repository/specification"
	"klutr-be/internal/repository/unitofwork"
	"klutr-be/pkg/llm"
	"klutr-be/pkg/usage"
	"klutr-be/pkg/utils"

	"github.com/google/uuid"
)

type IInsightService interface {
	// GenerateWeeklyInsight summarizes the user's notes for the week
	// containing at. Returns nil (no write) when the week holds no notes.
	GenerateWeeklyInsight(ctx context.Context, userId uuid.UUID, at time.Time) (*dto.WeeklyInsightResponse, error)
}

type insightService struct {
	uowFactory    unitofwork.RepositoryFactory
	llmProvider   llm.LLMProvider
	llmModel      string
	usageRecorder usage.Recorder
	logger        logger.ILogger
}

func NewInsightService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	llmModel string,
	usageRecorder usage.Recorder,
	l logger.ILogger,
) IInsightService {
	return &insightService{
		uowFactory:    uowFactory,
		llmProvider:   llmProvider,
		llmModel:      llmModel,
		usageRecorder: usageRecorder,
		logger:        l,
	}
}

// WeekStart returns the Monday 00:00 UTC anchor of the week containing t.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week that started the previous Monday
	}
	monday := t.AddDate(0, 0, -(weekday - 1))
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}

type insightResult struct {
	Summary   string `json:"summary"`
	Sentiment string `json:"sentiment"`
}

func (s *insightService) GenerateWeeklyInsight(ctx context.Context, userId uuid.UUID, at time.Time) (*dto.WeeklyInsightResponse, error) {
	weekStart := WeekStart(at)
	weekEnd := weekStart.AddDate(0, 0, constant.InsightWeekDays)

	uow := s.uowFactory.NewUnitOfWork(ctx)

	total, err := uow.NoteRepository().Count(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.NotArchived{},
		specification.CreatedBetween{From: weekStart, To: weekEnd},
	)
	if err != nil {
		return nil, err
	}

	// Excerpt the most recent notes; note_count reflects the whole week.
	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.NotArchived{},
		specification.CreatedBetween{From: weekStart, To: weekEnd},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: constant.InsightMaxNotes},
	)
	if err != nil {
		return nil, err
	}

	if len(notes) == 0 {
		s.logger.Info("Insights", "nothing to summarize", map[string]interface{}{
			"user_id":    userId,
			"week_start": weekStart,
		})
		return nil, nil
	}

	summary, sentiment := s.narrate(ctx, userId, notes, int(total))

	now := time.Now()
	insight := &entity.WeeklyInsight{
		Id:        uuid.New(),
		UserId:    userId,
		WeekStart: weekStart,
		Summary:   summary,
		Sentiment: sentiment,
		NoteCount: int(total),
		CreatedAt: now,
		UpdatedAt: &now,
	}

	if err := uow.WeeklyInsightRepository().Upsert(ctx, insight); err != nil {
		return nil, err
	}

	return &dto.WeeklyInsightResponse{
		Id:        insight.Id,
		WeekStart: insight.WeekStart,
		Summary:   insight.Summary,
		Sentiment: insight.Sentiment,
		NoteCount: insight.NoteCount,
	}, nil
}

// narrate asks the model for {summary, sentiment} JSON. Malformed output or
// provider failure lands on the templated fallback with neutral sentiment.
func (s *insightService) narrate(ctx context.Context, userId uuid.UUID, notes []*entity.Note, total int) (string, string) {
	fallbackSummary := fmt.Sprintf("You captured %d notes this week.", total)

	var excerpts []string
	for _, note := range notes {
		excerpts = append(excerpts, "- "+utils.Truncate(note.Content, constant.ExcerptMaxChars))
	}

	prompt := fmt.Sprintf(`Here are the notes someone captured this week:

%s

Reflect on recurring themes and what they suggest about this week.
Respond with JSON only: {"summary": "2-3 sentences", "sentiment": "one of: positive, negative, mixed, neutral, determined, anxious, excited, reflective"}`,
		strings.Join(excerpts, "\n"))

	var raw string
	err := utils.Retry(ctx, utils.RetryOptions{MaxAttempts: 2, Delay: time.Second}, func() error {
		out, err := s.llmProvider.Chat(ctx, []llm.Message{
			{Role: "system", Content: constant.InsightSystemPrompt},
			{Role: "user", Content: prompt},
		}, llm.WithModel(s.llmModel), llm.WithTemperature(0.7), llm.WithMaxTokens(300))
		if err != nil {
			return err
		}
		raw = out
		return nil
	})
	if err != nil {
		s.logger.Warn("Insights", "generation failed, using fallback", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		return fallbackSummary, constant.SentimentNeutral
	}

	s.usageRecorder.Record(constant.FeatureWeeklyInsight, userId, len(prompt))

	var parsed insightResult
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &parsed); err != nil || strings.TrimSpace(parsed.Summary) == "" {
		s.logger.Warn("Insights", "malformed model output, using fallback", map[string]interface{}{
			"user_id": userId,
		})
		return fallbackSummary, constant.SentimentNeutral
	}

	return strings.TrimSpace(parsed.Summary), constant.NormalizeSentiment(strings.ToLower(strings.TrimSpace(parsed.Sentiment)))
}
