package service

import (
	"context"
	"testing"
	"time"

	"klutr-be/internal/constant"
	"klutr-be/internal/entity"
	"klutr-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrich_SetsEmbeddingTypeAndTags(t *testing.T) {
	factory := newFakeFactory()
	note := &entity.Note{Id: uuid.New(), UserId: uuid.New(), Content: "call the plumber", CreatedAt: time.Now()}
	factory.uow.noteRepo.notes = []*entity.Note{note}

	enricher := NewNoteEnricher(
		&fakeEmbeddingProvider{fallback: []float32{0.1, 0.2, 0.3}},
		&fakeClassifier{result: &Classification{Type: constant.NoteTypeTask, Tags: []string{"home"}}},
		noopUsage{},
		logger.NopLogger{},
	)

	err := enricher.Enrich(context.Background(), factory.uow, note)

	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, note.Embedding)
	assert.Equal(t, constant.NoteTypeTask, note.Type)
	assert.Equal(t, []string{"home"}, note.Tags)
	assert.Equal(t, 1, factory.uow.noteRepo.enrichmentUpdates)
}

func TestEnrich_EmptyContentIsANoop(t *testing.T) {
	factory := newFakeFactory()
	note := &entity.Note{Id: uuid.New(), UserId: uuid.New(), Content: "  \n ", CreatedAt: time.Now()}

	provider := &fakeEmbeddingProvider{fallback: []float32{1}}
	enricher := NewNoteEnricher(provider, &fakeClassifier{result: safeClassification()}, noopUsage{}, logger.NopLogger{})

	err := enricher.Enrich(context.Background(), factory.uow, note)

	require.NoError(t, err)
	assert.Equal(t, 0, provider.calls)
	assert.False(t, note.HasEmbedding())
	assert.Equal(t, 0, factory.uow.noteRepo.enrichmentUpdates)
}

func TestEnrich_ProviderFailurePropagates(t *testing.T) {
	factory := newFakeFactory()
	note := &entity.Note{Id: uuid.New(), UserId: uuid.New(), Content: "content", CreatedAt: time.Now()}

	enricher := NewNoteEnricher(
		&fakeEmbeddingProvider{err: errProviderDown},
		&fakeClassifier{result: safeClassification()},
		noopUsage{},
		logger.NopLogger{},
	)

	err := enricher.Enrich(context.Background(), factory.uow, note)

	assert.Error(t, err)
	assert.Equal(t, 0, factory.uow.noteRepo.enrichmentUpdates)
}

func TestEnrich_BrokenClassifierFallsBackToSafeDefault(t *testing.T) {
	factory := newFakeFactory()
	note := &entity.Note{Id: uuid.New(), UserId: uuid.New(), Content: "content", CreatedAt: time.Now()}
	factory.uow.noteRepo.notes = []*entity.Note{note}

	enricher := NewNoteEnricher(
		&fakeEmbeddingProvider{fallback: []float32{1, 0}},
		&fakeClassifier{err: errProviderDown},
		noopUsage{},
		logger.NopLogger{},
	)

	err := enricher.Enrich(context.Background(), factory.uow, note)

	require.NoError(t, err)
	assert.Equal(t, constant.NoteTypeUnclassified, note.Type)
	assert.True(t, note.HasEmbedding())
}
