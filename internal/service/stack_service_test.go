package service

import (
	"context"
	"testing"
	"time"

	"klutr-be/internal/entity"
	"klutr-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clusteredNote(userId uuid.UUID, cluster string, createdAt time.Time) *entity.Note {
	c := cluster
	return &entity.Note{
		Id:        uuid.New(),
		UserId:    userId,
		Content:   "note in " + cluster,
		Cluster:   &c,
		CreatedAt: createdAt,
	}
}

func TestBuildSmartStacks_RequiresTwoMembers(t *testing.T) {
	factory := newFakeFactory()
	userId := uuid.New()
	now := time.Now()

	factory.uow.noteRepo.notes = []*entity.Note{
		clusteredNote(userId, "Ideas", now),
		clusteredNote(userId, "Ideas", now.Add(time.Minute)),
		clusteredNote(userId, "Tasks", now), // singleton, no stack
	}

	svc := NewStackService(factory, &fakeLLM{response: "A set of ideas."}, "test-model", noopUsage{}, logger.NopLogger{})

	built, err := svc.BuildSmartStacks(context.Background(), userId)

	require.NoError(t, err)
	assert.Equal(t, 1, built)
	require.Len(t, factory.uow.stackRepo.stacks, 1)
	assert.Equal(t, "Ideas", factory.uow.stackRepo.stacks[0].Cluster)
	assert.Equal(t, 2, factory.uow.stackRepo.stacks[0].NoteCount)
	assert.Equal(t, "A set of ideas.", factory.uow.stackRepo.stacks[0].Summary)
}

func TestBuildSmartStacks_FallbackSummaryOnModelFailure(t *testing.T) {
	factory := newFakeFactory()
	userId := uuid.New()
	now := time.Now()

	factory.uow.noteRepo.notes = []*entity.Note{
		clusteredNote(userId, "Links", now),
		clusteredNote(userId, "Links", now.Add(time.Minute)),
	}

	svc := NewStackService(factory, &fakeLLM{err: errProviderDown}, "test-model", noopUsage{}, logger.NopLogger{})

	built, err := svc.BuildSmartStacks(context.Background(), userId)

	require.NoError(t, err)
	assert.Equal(t, 1, built)
	assert.Equal(t, "Collection of Links notes.", factory.uow.stackRepo.stacks[0].Summary)
}

func TestBuildSmartStacks_RebuildUpsertsInPlace(t *testing.T) {
	factory := newFakeFactory()
	userId := uuid.New()
	now := time.Now()

	factory.uow.noteRepo.notes = []*entity.Note{
		clusteredNote(userId, "Ideas", now),
		clusteredNote(userId, "Ideas", now.Add(time.Minute)),
	}

	svc := NewStackService(factory, &fakeLLM{response: "Ideas summary."}, "test-model", noopUsage{}, logger.NopLogger{})

	_, err := svc.BuildSmartStacks(context.Background(), userId)
	require.NoError(t, err)

	// Second rebuild with one more note must not duplicate the stack.
	factory.uow.noteRepo.notes = append(factory.uow.noteRepo.notes,
		clusteredNote(userId, "Ideas", now.Add(2*time.Minute)))

	_, err = svc.BuildSmartStacks(context.Background(), userId)
	require.NoError(t, err)

	require.Len(t, factory.uow.stackRepo.stacks, 1)
	assert.Equal(t, 3, factory.uow.stackRepo.stacks[0].NoteCount)
}

func TestBuildSmartStacks_ShrunkenClusterGoesStale(t *testing.T) {
	factory := newFakeFactory()
	userId := uuid.New()
	now := time.Now()

	factory.uow.noteRepo.notes = []*entity.Note{
		clusteredNote(userId, "Ideas", now),
		clusteredNote(userId, "Ideas", now.Add(time.Minute)),
		clusteredNote(userId, "Tasks", now),
		clusteredNote(userId, "Tasks", now.Add(time.Minute)),
	}

	svc := NewStackService(factory, &fakeLLM{response: "Summary."}, "test-model", noopUsage{}, logger.NopLogger{})

	_, err := svc.BuildSmartStacks(context.Background(), userId)
	require.NoError(t, err)
	require.Len(t, factory.uow.stackRepo.stacks, 2)

	// Archive one task note: Tasks drops below the stack minimum.
	for _, n := range factory.uow.noteRepo.notes {
		if n.Cluster != nil && *n.Cluster == "Tasks" {
			n.Archived = true
			break
		}
	}

	built, err := svc.BuildSmartStacks(context.Background(), userId)
	require.NoError(t, err)
	assert.Equal(t, 1, built)

	for _, s := range factory.uow.stackRepo.stacks {
		switch s.Cluster {
		case "Ideas":
			assert.False(t, s.Stale)
		case "Tasks":
			assert.True(t, s.Stale)
		}
	}
}

func TestBuildSmartStacks_PinnedSurvivesRebuild(t *testing.T) {
	factory := newFakeFactory()
	userId := uuid.New()
	now := time.Now()

	factory.uow.noteRepo.notes = []*entity.Note{
		clusteredNote(userId, "Ideas", now),
		clusteredNote(userId, "Ideas", now.Add(time.Minute)),
	}
	factory.uow.stackRepo.stacks = []*entity.SmartStack{
		{Id: uuid.New(), UserId: userId, Name: "Ideas", Cluster: "Ideas", Pinned: true, CreatedAt: now},
	}

	svc := NewStackService(factory, &fakeLLM{response: "Summary."}, "test-model", noopUsage{}, logger.NopLogger{})

	_, err := svc.BuildSmartStacks(context.Background(), userId)
	require.NoError(t, err)

	require.Len(t, factory.uow.stackRepo.stacks, 1)
	assert.True(t, factory.uow.stackRepo.stacks[0].Pinned)
}

func TestBuildSmartStacks_NoClustersBuildsNothing(t *testing.T) {
	factory := newFakeFactory()
	userId := uuid.New()

	svc := NewStackService(factory, &fakeLLM{response: "unused"}, "test-model", noopUsage{}, logger.NopLogger{})

	built, err := svc.BuildSmartStacks(context.Background(), userId)

	require.NoError(t, err)
	assert.Equal(t, 0, built)
	assert.Empty(t, factory.uow.stackRepo.stacks)
}
