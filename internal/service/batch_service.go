package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"klutr-be/internal/constant"
	"klutr-be/internal/dto"
	"klutr-be/internal/entity"
	"klutr-be/internal/pkg/logger"
	"klutr-be/internal/pkg/mailer"
	"klutr-be/internal/repository/unitofwork"
	"klutr-be/pkg/events"
	pkgNats "klutr-be/pkg/nats"

	"github.com/redis/go-redis/v9"
)

// Job kinds a scheduled ping may trigger.
const (
	JobNightlyCluster = "nightly-cluster"
	JobNightlyStacks  = "nightly-stacks"
	JobWeeklyInsights = "weekly-insights"
)

// ErrRunInProgress means another ping already holds the run lock for this
// job kind.
var ErrRunInProgress = errors.New("batch: run already in progress")

// ErrUnknownJobKind rejects trigger requests outside the closed job set.
var ErrUnknownJobKind = errors.New("batch: unknown job kind")

const runLockTTL = 30 * time.Minute

type IBatchService interface {
	// Run executes one batch sweep over all users. The user list is
	// snapshotted at start; one user's failure never stops the loop.
	Run(ctx context.Context, jobKind string, at time.Time) (*dto.BatchReport, error)
}

type batchService struct {
	uowFactory        unitofwork.RepositoryFactory
	clusteringService IClusteringService
	stackService      IStackService
	insightService    IInsightService
	redisClient       *redis.Client // nil disables the run lock
	eventPublisher    *pkgNats.Publisher
	emailService      mailer.IEmailService
	opsEmail          string
	userTimeout       time.Duration
	embedBacklogLimit int
	logger            logger.ILogger
}

func NewBatchService(
	uowFactory unitofwork.RepositoryFactory,
	clusteringService IClusteringService,
	stackService IStackService,
	insightService IInsightService,
	redisClient *redis.Client,
	eventPublisher *pkgNats.Publisher,
	emailService mailer.IEmailService,
	opsEmail string,
	userTimeout time.Duration,
	embedBacklogLimit int,
	l logger.ILogger,
) IBatchService {
	return &batchService{
		uowFactory:        uowFactory,
		clusteringService: clusteringService,
		stackService:      stackService,
		insightService:    insightService,
		redisClient:       redisClient,
		eventPublisher:    eventPublisher,
		emailService:      emailService,
		opsEmail:          opsEmail,
		userTimeout:       userTimeout,
		embedBacklogLimit: embedBacklogLimit,
		logger:            l,
	}
}

func (b *batchService) Run(ctx context.Context, jobKind string, at time.Time) (*dto.BatchReport, error) {
	switch jobKind {
	case JobNightlyCluster, JobNightlyStacks, JobWeeklyInsights:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownJobKind, jobKind)
	}

	acquired, err := b.acquireLock(ctx, jobKind)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrRunInProgress
	}
	defer b.releaseLock(ctx, jobKind)

	report := &dto.BatchReport{
		JobKind:   jobKind,
		StartedAt: time.Now(),
	}

	uow := b.uowFactory.NewUnitOfWork(ctx)
	users, err := uow.UserRepository().FindAll(ctx)
	if err != nil {
		report.Aborted = true
		report.FinishedAt = time.Now()
		return report, fmt.Errorf("batch: failed to snapshot users: %w", err)
	}
	report.UsersTotal = len(users)

	b.logger.Info("Batch", "run started", map[string]interface{}{
		"job_kind": jobKind,
		"users":    len(users),
	})

	for _, user := range users {
		items, err := b.processUser(ctx, jobKind, user, at)
		if err != nil {
			report.UsersFailed++
			if len(report.Errors) < constant.BatchReportMaxErrors {
				report.Errors = append(report.Errors, dto.BatchUserError{
					UserId: user.Id,
					Email:  user.Email,
					Reason: err.Error(),
				})
			}
			b.logger.Error("Batch", "user failed", map[string]interface{}{
				"job_kind": jobKind,
				"user_id":  user.Id,
				"error":    err.Error(),
			})
			continue
		}
		report.UsersProcessed++
		report.ItemsProduced += items
	}

	report.FinishedAt = time.Now()

	b.logger.Info("Batch", "run finished", map[string]interface{}{
		"job_kind":        jobKind,
		"users_total":     report.UsersTotal,
		"users_processed": report.UsersProcessed,
		"users_failed":    report.UsersFailed,
		"items_produced":  report.ItemsProduced,
		"duration":        report.FinishedAt.Sub(report.StartedAt).String(),
	})

	b.publishCompletion(ctx, report)
	b.mailReport(report)

	return report, nil
}

// processUser runs one job kind for one user under the per-user timeout.
func (b *batchService) processUser(ctx context.Context, jobKind string, user *entity.User, at time.Time) (int, error) {
	userCtx := ctx
	if b.userTimeout > 0 {
		var cancel context.CancelFunc
		userCtx, cancel = context.WithTimeout(ctx, b.userTimeout)
		defer cancel()
	}

	switch jobKind {
	case JobNightlyCluster:
		if _, err := b.clusteringService.EmbedBacklog(userCtx, user.Id, b.embedBacklogLimit); err != nil {
			return 0, err
		}
		clusterReport, err := b.clusteringService.ClusterUserNotes(userCtx, user.Id)
		if err != nil {
			return 0, err
		}
		return clusterReport.NotesAssigned, nil

	case JobNightlyStacks:
		return b.stackService.BuildSmartStacks(userCtx, user.Id)

	case JobWeeklyInsights:
		insight, err := b.insightService.GenerateWeeklyInsight(userCtx, user.Id, at)
		if err != nil {
			return 0, err
		}
		if insight == nil {
			return 0, nil
		}
		return 1, nil
	}

	return 0, fmt.Errorf("%w: %s", ErrUnknownJobKind, jobKind)
}

func (b *batchService) acquireLock(ctx context.Context, jobKind string) (bool, error) {
	if b.redisClient == nil {
		return true, nil
	}
	ok, err := b.redisClient.SetNX(ctx, runLockKey(jobKind), time.Now().Format(time.RFC3339), runLockTTL).Result()
	if err != nil {
		// A broken lock store should not silence the nightly jobs.
		b.logger.Warn("Batch", "run lock unavailable, proceeding", map[string]interface{}{
			"error": err.Error(),
		})
		return true, nil
	}
	return ok, nil
}

func (b *batchService) releaseLock(ctx context.Context, jobKind string) {
	if b.redisClient == nil {
		return
	}
	if err := b.redisClient.Del(ctx, runLockKey(jobKind)).Err(); err != nil {
		b.logger.Warn("Batch", "failed to release run lock", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func runLockKey(jobKind string) string {
	return "jobs:lock:" + jobKind
}

func (b *batchService) publishCompletion(ctx context.Context, report *dto.BatchReport) {
	if b.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type: "BATCH_RUN_COMPLETED",
		Data: map[string]interface{}{
			"job_kind":        report.JobKind,
			"users_total":     report.UsersTotal,
			"users_processed": report.UsersProcessed,
			"users_failed":    report.UsersFailed,
			"items_produced":  report.ItemsProduced,
		},
		OccurredAt: time.Now(),
	}
	if err := b.eventPublisher.Publish(ctx, evt); err != nil {
		b.logger.Warn("Batch", "failed to publish completion event", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (b *batchService) mailReport(report *dto.BatchReport) {
	if b.emailService == nil || b.opsEmail == "" {
		return
	}
	if err := b.emailService.SendBatchReport(b.opsEmail, report); err != nil {
		b.logger.Warn("Batch", "failed to mail batch report", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
