package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"klutr-be/internal/constant"
	"klutr-be/internal/entity"
	"klutr-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want time.Time
	}{
		{
			name: "wednesday anchors to monday",
			at:   time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC),
			want: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "monday anchors to itself",
			at:   time.Date(2026, 8, 24, 0, 0, 1, 0, time.UTC),
			want: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "sunday belongs to the previous monday",
			at:   time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC),
			want: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekStart(tt.at))
		})
	}
}

func weekNote(userId uuid.UUID, createdAt time.Time) *entity.Note {
	return &entity.Note{
		Id:        uuid.New(),
		UserId:    userId,
		Content:   "thought of the day",
		CreatedAt: createdAt,
	}
}

func TestGenerateWeeklyInsight_EmptyWeekWritesNothing(t *testing.T) {
	factory := newFakeFactory()
	userId := uuid.New()

	svc := NewInsightService(factory, &fakeLLM{response: "unused"}, "test-model", noopUsage{}, logger.NopLogger{})

	res, err := svc.GenerateWeeklyInsight(context.Background(), userId, time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, 0, factory.uow.insightRepo.upserts)
}

func TestGenerateWeeklyInsight_HappyPath(t *testing.T) {
	factory := newFakeFactory()
	userId := uuid.New()
	at := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	factory.uow.noteRepo.notes = []*entity.Note{
		weekNote(userId, at),
		weekNote(userId, at.Add(time.Hour)),
		weekNote(userId, at.AddDate(0, 0, -30)), // outside the week
	}

	model := &fakeLLM{response: `{"summary": "A focused week of planning.", "sentiment": "determined"}`}
	svc := NewInsightService(factory, model, "test-model", noopUsage{}, logger.NopLogger{})

	res, err := svc.GenerateWeeklyInsight(context.Background(), userId, at)

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), res.WeekStart)
	assert.Equal(t, "A focused week of planning.", res.Summary)
	assert.Equal(t, constant.SentimentDetermined, res.Sentiment)
	assert.Equal(t, 2, res.NoteCount)
}

func TestGenerateWeeklyInsight_UnknownSentimentCoercedToNeutral(t *testing.T) {
	factory := newFakeFactory()
	userId := uuid.New()
	at := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	factory.uow.noteRepo.notes = []*entity.Note{weekNote(userId, at)}

	model := &fakeLLM{response: `{"summary": "Week.", "sentiment": "euphoric"}`}
	svc := NewInsightService(factory, model, "test-model", noopUsage{}, logger.NopLogger{})

	res, err := svc.GenerateWeeklyInsight(context.Background(), userId, at)

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, constant.SentimentNeutral, res.Sentiment)
}

func TestGenerateWeeklyInsight_MalformedOutputFallsBack(t *testing.T) {
	factory := newFakeFactory()
	userId := uuid.New()
	at := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	factory.uow.noteRepo.notes = []*entity.Note{
		weekNote(userId, at),
		weekNote(userId, at.Add(time.Hour)),
		weekNote(userId, at.Add(2*time.Hour)),
	}

	model := &fakeLLM{response: "I had trouble with that request."}
	svc := NewInsightService(factory, model, "test-model", noopUsage{}, logger.NopLogger{})

	res, err := svc.GenerateWeeklyInsight(context.Background(), userId, at)

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "You captured 3 notes this week.", res.Summary)
	assert.Equal(t, constant.SentimentNeutral, res.Sentiment)
}

func TestGenerateWeeklyInsight_CodeFencedJSONAccepted(t *testing.T) {
	factory := newFakeFactory()
	userId := uuid.New()
	at := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	factory.uow.noteRepo.notes = []*entity.Note{weekNote(userId, at)}

	model := &fakeLLM{response: "```json\n{\"summary\": \"Fenced.\", \"sentiment\": \"reflective\"}\n```"}
	svc := NewInsightService(factory, model, "test-model", noopUsage{}, logger.NopLogger{})

	res, err := svc.GenerateWeeklyInsight(context.Background(), userId, at)

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "Fenced.", res.Summary)
	assert.Equal(t, constant.SentimentReflective, res.Sentiment)
}

func TestGenerateWeeklyInsight_BusyWeekCountsAllNotesButExcerptsNewest(t *testing.T) {
	factory := newFakeFactory()
	userId := uuid.New()
	at := time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 60; i++ {
		note := weekNote(userId, at.Add(time.Duration(i)*time.Minute))
		note.Content = fmt.Sprintf("note number %d", i)
		factory.uow.noteRepo.notes = append(factory.uow.noteRepo.notes, note)
	}

	model := &fakeLLM{response: `{"summary": "Quite a week.", "sentiment": "positive"}`}
	svc := NewInsightService(factory, model, "test-model", noopUsage{}, logger.NopLogger{})

	res, err := svc.GenerateWeeklyInsight(context.Background(), userId, at)

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 60, res.NoteCount)

	// The excerpt window holds the 50 most recent notes only.
	assert.Equal(t, 50, strings.Count(model.lastPrompt, "- note number"))
	assert.Contains(t, model.lastPrompt, "note number 59")
	assert.NotContains(t, model.lastPrompt, "note number 9\n")
}

func TestGenerateWeeklyInsight_RerunUpsertsSameWeek(t *testing.T) {
	factory := newFakeFactory()
	userId := uuid.New()
	at := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	factory.uow.noteRepo.notes = []*entity.Note{weekNote(userId, at)}

	model := &fakeLLM{responses: []string{
		`{"summary": "First run.", "sentiment": "neutral"}`,
		`{"summary": "Second run.", "sentiment": "positive"}`,
	}}
	svc := NewInsightService(factory, model, "test-model", noopUsage{}, logger.NopLogger{})

	_, err := svc.GenerateWeeklyInsight(context.Background(), userId, at)
	require.NoError(t, err)

	_, err = svc.GenerateWeeklyInsight(context.Background(), userId, at)
	require.NoError(t, err)

	require.Len(t, factory.uow.insightRepo.insights, 1)
	assert.Equal(t, "Second run.", factory.uow.insightRepo.insights[0].Summary)
}
