package mapper

import (
	"encoding/json"
	"time"

	"klutr-be/internal/entity"
	"klutr-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	var deletedAt *time.Time
	if n.DeletedAt.Valid {
		t := n.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !n.UpdatedAt.IsZero() {
		t := n.UpdatedAt
		updatedAt = &t
	}

	var embedding []float32
	if n.Embedding != nil {
		embedding = n.Embedding.Slice()
	}

	var tags []string
	if len(n.Tags) > 0 {
		// Corrupt tag payloads degrade to no tags rather than failing the read.
		_ = json.Unmarshal(n.Tags, &tags)
	}

	return &entity.Note{
		Id:                n.Id,
		UserId:            n.UserId,
		Content:           n.Content,
		Type:              n.Type,
		Tags:              tags,
		Embedding:         embedding,
		Cluster:           n.Cluster,
		ClusterConfidence: n.ClusterConfidence,
		ClusterUpdatedAt:  n.ClusterUpdatedAt,
		Archived:          n.Archived,
		CreatedAt:         n.CreatedAt,
		UpdatedAt:         updatedAt,
		DeletedAt:         deletedAt,
		IsDeleted:         n.DeletedAt.Valid,
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if n.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *n.DeletedAt, Valid: true}
	} else if n.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if n.UpdatedAt != nil {
		updatedAt = *n.UpdatedAt
	}

	var embedding *pgvector.Vector
	if len(n.Embedding) > 0 {
		v := pgvector.NewVector(n.Embedding)
		embedding = &v
	}

	var tags datatypes.JSON
	if len(n.Tags) > 0 {
		if raw, err := json.Marshal(n.Tags); err == nil {
			tags = raw
		}
	}

	return &model.Note{
		Id:                n.Id,
		UserId:            n.UserId,
		Content:           n.Content,
		Type:              n.Type,
		Tags:              tags,
		Embedding:         embedding,
		Cluster:           n.Cluster,
		ClusterConfidence: n.ClusterConfidence,
		ClusterUpdatedAt:  n.ClusterUpdatedAt,
		Archived:          n.Archived,
		CreatedAt:         n.CreatedAt,
		UpdatedAt:         updatedAt,
		DeletedAt:         deletedAt,
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.Note {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}

func (m *NoteMapper) ToModels(notes []*entity.Note) []*model.Note {
	models := make([]*model.Note, len(notes))
	for i, n := range notes {
		models[i] = m.ToModel(n)
	}
	return models
}
