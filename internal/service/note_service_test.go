package service

import (
	"context"
	"testing"

	"klutr-be/internal/constant"
	"klutr-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapture_StoresAndEnqueues(t *testing.T) {
	factory := newFakeFactory()
	pub := &fakePublisher{}
	svc := NewNoteService(factory, pub, logger.NopLogger{})
	userId := uuid.New()

	note, err := svc.Capture(context.Background(), userId, "remember the milk")

	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Equal(t, constant.NoteTypeUnclassified, note.Type)
	assert.False(t, note.HasEmbedding())

	require.Len(t, factory.uow.noteRepo.notes, 1)
	assert.Equal(t, []uuid.UUID{note.Id}, pub.notes)
}

func TestCapture_EmptyContentStoredNotEnqueued(t *testing.T) {
	factory := newFakeFactory()
	pub := &fakePublisher{}
	svc := NewNoteService(factory, pub, logger.NopLogger{})

	note, err := svc.Capture(context.Background(), uuid.New(), "   ")

	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Len(t, factory.uow.noteRepo.notes, 1)
	assert.Empty(t, pub.notes)
}

func TestCapture_PublishFailureDoesNotLoseNote(t *testing.T) {
	factory := newFakeFactory()
	pub := &fakePublisher{err: errProviderDown}
	svc := NewNoteService(factory, pub, logger.NopLogger{})

	note, err := svc.Capture(context.Background(), uuid.New(), "important thought")

	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Len(t, factory.uow.noteRepo.notes, 1)
}

func TestArchive_HidesFromOrganizer(t *testing.T) {
	factory := newFakeFactory()
	pub := &fakePublisher{}
	svc := NewNoteService(factory, pub, logger.NopLogger{})
	userId := uuid.New()

	note, err := svc.Capture(context.Background(), userId, "to be archived")
	require.NoError(t, err)

	require.NoError(t, svc.Archive(context.Background(), userId, note.Id))

	assert.True(t, factory.uow.noteRepo.notes[0].Archived)
}

func TestArchive_OtherUsersNoteUntouched(t *testing.T) {
	factory := newFakeFactory()
	pub := &fakePublisher{}
	svc := NewNoteService(factory, pub, logger.NopLogger{})

	note, err := svc.Capture(context.Background(), uuid.New(), "mine")
	require.NoError(t, err)

	require.NoError(t, svc.Archive(context.Background(), uuid.New(), note.Id))

	assert.False(t, factory.uow.noteRepo.notes[0].Archived)
}
