package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"klutr-be/internal/constant"
	"klutr-be/internal/entity"
	"klutr-be/internal/pkg/logger"
	"klutr-be/internal/repository/specification"
	"klutr-be/internal/repository/unitofwork"
	"klutr-be/pkg/llm"
	"klutr-be/pkg/usage"
	"klutr-be/pkg/utils"

	"github.com/google/uuid"
)

type IStackService interface {
	// BuildSmartStacks rebuilds the user's stacks from the current cluster
	// distribution. Returns the number of stacks upserted.
	BuildSmartStacks(ctx context.Context, userId uuid.UUID) (int, error)
}

type stackService struct {
	uowFactory    unitofwork.RepositoryFactory
	llmProvider   llm.LLMProvider
	llmModel      string
	usageRecorder usage.Recorder
	logger        logger.ILogger
}

func NewStackService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	llmModel string,
	usageRecorder usage.Recorder,
	l logger.ILogger,
) IStackService {
	return &stackService{
		uowFactory:    uowFactory,
		llmProvider:   llmProvider,
		llmModel:      llmModel,
		usageRecorder: usageRecorder,
		logger:        l,
	}
}

func (s *stackService) BuildSmartStacks(ctx context.Context, userId uuid.UUID) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	counts, err := uow.NoteRepository().CountByCluster(ctx, userId)
	if err != nil {
		return 0, err
	}

	built := 0
	var keep []string

	for _, cc := range counts {
		if cc.Count < constant.StackMinClusterSize {
			continue
		}

		notes, err := uow.NoteRepository().FindAll(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.ByCluster{Cluster: cc.Cluster},
			specification.NotArchived{},
			specification.OrderBy{Field: "created_at", Desc: true},
			specification.Pagination{Limit: constant.StackSampleNotes},
		)
		if err != nil {
			return built, err
		}

		summary := s.summarize(ctx, userId, cc.Cluster, notes)

		now := time.Now()
		stack := &entity.SmartStack{
			Id:        uuid.New(),
			UserId:    userId,
			Name:      cc.Cluster,
			Cluster:   cc.Cluster,
			NoteCount: cc.Count,
			Summary:   summary,
			Stale:     false,
			CreatedAt: now,
			UpdatedAt: &now,
		}

		if err := uow.SmartStackRepository().Upsert(ctx, stack); err != nil {
			return built, err
		}

		built++
		keep = append(keep, cc.Cluster)
	}

	staled, err := uow.SmartStackRepository().MarkStaleExcept(ctx, userId, keep)
	if err != nil {
		return built, err
	}

	s.logger.Info("Stacks", "rebuild complete", map[string]interface{}{
		"user_id": userId,
		"built":   built,
		"staled":  staled,
	})

	return built, nil
}

// summarize asks the model for a 1-2 sentence summary of representative
// notes. Any failure lands on the templated fallback; a stack is never lost
// to a flaky model.
func (s *stackService) summarize(ctx context.Context, userId uuid.UUID, cluster string, notes []*entity.Note) string {
	fallback := fmt.Sprintf("Collection of %s notes.", cluster)
	if len(notes) == 0 {
		return fallback
	}

	var excerpts []string
	for i, note := range notes {
		excerpts = append(excerpts, fmt.Sprintf("%d. %s", i+1, utils.Truncate(note.Content, constant.ExcerptMaxChars)))
	}

	prompt := fmt.Sprintf(`These notes belong to a collection called "%s":

%s

Write a 1-2 sentence summary of what this collection is about.`,
		cluster, strings.Join(excerpts, "\n"))

	var summary string
	err := utils.Retry(ctx, utils.RetryOptions{MaxAttempts: 2, Delay: time.Second}, func() error {
		out, err := s.llmProvider.Chat(ctx, []llm.Message{
			{Role: "system", Content: constant.StackSummarySystemPrompt},
			{Role: "user", Content: prompt},
		}, llm.WithModel(s.llmModel), llm.WithTemperature(0.5), llm.WithMaxTokens(150))
		if err != nil {
			return err
		}
		summary = strings.TrimSpace(out)
		return nil
	})
	if err != nil || summary == "" {
		s.logger.Warn("Stacks", "summary generation failed, using fallback", map[string]interface{}{
			"user_id": userId,
			"cluster": cluster,
		})
		return fallback
	}

	s.usageRecorder.Record(constant.FeatureStackSummary, userId, len(prompt))
	return summary
}
