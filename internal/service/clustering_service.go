package service

import (
	"context"
	"math"
	"time"

	"klutr-be/internal/constant"
	"klutr-be/internal/dto"
	"klutr-be/internal/entity"
	"klutr-be/internal/pkg/logger"
	"klutr-be/internal/repository/specification"
	"klutr-be/internal/repository/unitofwork"
	"klutr-be/pkg/vectormath"

	"github.com/google/uuid"
)

type IClusteringService interface {
	// ClusterUserNotes runs one full clustering pass over every embedded,
	// non-archived note of the user.
	ClusterUserNotes(ctx context.Context, userId uuid.UUID) (*dto.ClusterReport, error)
	// EmbedBacklog enriches up to limit notes of the user that still lack an
	// embedding. Per-note failures are logged and skipped; the sweep
	// continues. Returns the number of notes enriched.
	EmbedBacklog(ctx context.Context, userId uuid.UUID, limit int) (int, error)
}

// centroid is the ephemeral mean vector of one typed group, recomputed from
// scratch on every pass.
type centroid struct {
	Name   string
	Vector []float32
}

type clusteringService struct {
	uowFactory       unitofwork.RepositoryFactory
	enricher         *NoteEnricher
	clusterThreshold float64
	logger           logger.ILogger
}

func NewClusteringService(
	uowFactory unitofwork.RepositoryFactory,
	enricher *NoteEnricher,
	clusterThreshold float64,
	l logger.ILogger,
) IClusteringService {
	return &clusteringService{
		uowFactory:       uowFactory,
		enricher:         enricher,
		clusterThreshold: clusterThreshold,
		logger:           l,
	}
}

func (c *clusteringService) EmbedBacklog(ctx context.Context, userId uuid.UUID, limit int) (int, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.MissingEmbedding{},
		specification.NotArchived{},
		specification.OrderBy{Field: "created_at", Desc: false},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return 0, err
	}

	enriched := 0
	for _, note := range notes {
		if err := ctx.Err(); err != nil {
			return enriched, err
		}
		if err := c.enricher.Enrich(ctx, uow, note); err != nil {
			c.logger.Warn("Clustering", "backlog enrichment failed, continuing", map[string]interface{}{
				"note_id": note.Id,
				"error":   err.Error(),
			})
			continue
		}
		if note.HasEmbedding() {
			enriched++
		}
	}

	return enriched, nil
}

func (c *clusteringService) ClusterUserNotes(ctx context.Context, userId uuid.UUID) (*dto.ClusterReport, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.HasEmbedding{},
		specification.NotArchived{},
	)
	if err != nil {
		return nil, err
	}

	report := &dto.ClusterReport{
		UserId:        userId,
		NotesSeen:     len(notes),
		ClusterCounts: make(map[string]int),
	}

	if len(notes) == 0 {
		report.NothingToDo = true
		c.logger.Info("Clustering", "nothing to cluster", map[string]interface{}{
			"user_id": userId,
		})
		return report, nil
	}

	centroids := computeCentroids(notes)
	report.Centroids = len(centroids)

	now := time.Now()

	// Full recompute: every note is re-assigned and re-persisted each pass,
	// refreshing cluster_updated_at even when the assignment is unchanged.
	for _, note := range notes {
		name, confidence := assignCluster(note.Embedding, centroids, c.clusterThreshold)

		report.ClusterCounts[name]++
		report.Assignments = append(report.Assignments, dto.NoteAssignment{
			NoteId:     note.Id,
			Cluster:    name,
			Confidence: confidence,
		})

		cluster := name
		note.Cluster = &cluster
		note.ClusterConfidence = confidence
		note.ClusterUpdatedAt = &now
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	for _, note := range notes {
		if err := uow.NoteRepository().UpdateClusterAssignment(ctx, note); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	report.NotesAssigned = len(notes)

	c.logger.Info("Clustering", "pass complete", map[string]interface{}{
		"user_id":        userId,
		"notes_seen":     report.NotesSeen,
		"notes_assigned": report.NotesAssigned,
		"centroids":      report.Centroids,
	})

	return report, nil
}

// computeCentroids groups embedded notes by their display cluster and averages
// each group. Sentinel-typed and untyped notes never pull a centroid.
func computeCentroids(notes []*entity.Note) []centroid {
	groups := make(map[string][][]float32)
	var order []string

	for _, note := range notes {
		if note.Type == "" || constant.SentinelTypes[note.Type] {
			continue
		}
		name := constant.ClusterDisplayName(note.Type)
		if _, seen := groups[name]; !seen {
			order = append(order, name)
		}
		groups[name] = append(groups[name], note.Embedding)
	}

	centroids := make([]centroid, 0, len(order))
	for _, name := range order {
		vector := vectormath.Centroid(groups[name])
		if vector == nil {
			continue
		}
		centroids = append(centroids, centroid{Name: name, Vector: vector})
	}

	return centroids
}

// assignCluster picks the nearest centroid within the threshold, or falls
// back to the Misc bucket with its fixed confidence.
func assignCluster(embedding []float32, centroids []centroid, threshold float64) (string, float64) {
	bestDistance := math.MaxFloat64
	bestName := ""

	for _, cen := range centroids {
		if d := vectormath.CosineDistance(embedding, cen.Vector); d < bestDistance {
			bestDistance = d
			bestName = cen.Name
		}
	}

	if bestName == "" || bestDistance >= threshold {
		return constant.MiscCluster, constant.MiscClusterConfidence
	}

	return bestName, 1 - bestDistance
}
