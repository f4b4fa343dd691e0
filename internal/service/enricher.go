package service

import (
	"context"
	"strings"
	"time"

	"klutr-be/internal/constant"
	"klutr-be/internal/entity"
	"klutr-be/internal/pkg/logger"
	"klutr-be/internal/repository/unitofwork"
	"klutr-be/pkg/embedding"
	"klutr-be/pkg/usage"
)

// NoteEnricher runs the embed+classify step for a single note. Shared by the
// async consumer and the nightly backlog sweep so both paths stay identical.
type NoteEnricher struct {
	embeddingProvider embedding.EmbeddingProvider
	classifier        Classifier
	usageRecorder     usage.Recorder
	logger            logger.ILogger
}

func NewNoteEnricher(
	embeddingProvider embedding.EmbeddingProvider,
	classifier Classifier,
	usageRecorder usage.Recorder,
	l logger.ILogger,
) *NoteEnricher {
	return &NoteEnricher{
		embeddingProvider: embeddingProvider,
		classifier:        classifier,
		usageRecorder:     usageRecorder,
		logger:            l,
	}
}

// Enrich embeds and classifies the note, then persists the result. Empty
// content is skipped without error; the note simply keeps a NULL embedding.
// The update is idempotent, re-running overwrites with equivalent values.
func (e *NoteEnricher) Enrich(ctx context.Context, uow unitofwork.UnitOfWork, note *entity.Note) error {
	content := strings.TrimSpace(note.Content)
	if content == "" {
		e.logger.Debug("Enricher", "skipping empty note", map[string]interface{}{
			"note_id": note.Id,
		})
		return nil
	}

	res, err := e.embeddingProvider.Generate(content, constant.TaskTypeDocument)
	if err != nil {
		return err
	}
	e.usageRecorder.Record(constant.FeatureNoteEmbedding, note.UserId, len(content))

	// Classification is best-effort; the chain already falls back to the
	// safe default, an error here means the chain itself was misconfigured.
	classification, err := e.classifier.Classify(ctx, content)
	if err != nil {
		classification = safeClassification()
	}
	e.usageRecorder.Record(constant.FeatureClassification, note.UserId, len(content))

	now := time.Now()
	note.Embedding = res.Embedding.Values
	note.Type = classification.Type
	note.Tags = classification.Tags
	note.UpdatedAt = &now

	return uow.NoteRepository().UpdateEnrichment(ctx, note)
}
