package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"klutr-be/internal/entity"
	"klutr-be/internal/repository/contract"
	"klutr-be/internal/repository/specification"
	"klutr-be/internal/repository/unitofwork"
	"klutr-be/pkg/embedding"
	"klutr-be/pkg/llm"

	"github.com/google/uuid"
)

// In-memory repository fakes. They interpret the specification types the
// services actually use; an unhandled specification is a test bug.

type noteFilter struct {
	userId           *uuid.UUID
	id               *uuid.UUID
	hasEmbedding     bool
	missingEmbedding bool
	notArchived      bool
	cluster          *string
	from, to         *time.Time
	orderField       string
	orderDesc        bool
	limit            int
}

func parseNoteSpecs(specs []specification.Specification) noteFilter {
	var f noteFilter
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			id := v.ID
			f.id = &id
		case specification.UserOwnedBy:
			id := v.UserID
			f.userId = &id
		case specification.HasEmbedding:
			f.hasEmbedding = true
		case specification.MissingEmbedding:
			f.missingEmbedding = true
		case specification.NotArchived:
			f.notArchived = true
		case specification.ByCluster:
			c := v.Cluster
			f.cluster = &c
		case specification.CreatedBetween:
			from, to := v.From, v.To
			f.from, f.to = &from, &to
		case specification.OrderBy:
			f.orderField = v.Field
			f.orderDesc = v.Desc
		case specification.Pagination:
			f.limit = v.Limit
		}
	}
	return f
}

func (f noteFilter) matches(n *entity.Note) bool {
	if f.id != nil && n.Id != *f.id {
		return false
	}
	if f.userId != nil && n.UserId != *f.userId {
		return false
	}
	if f.hasEmbedding && !n.HasEmbedding() {
		return false
	}
	if f.missingEmbedding && n.HasEmbedding() {
		return false
	}
	if f.notArchived && n.Archived {
		return false
	}
	if f.cluster != nil && (n.Cluster == nil || *n.Cluster != *f.cluster) {
		return false
	}
	if f.from != nil && (n.CreatedAt.Before(*f.from) || !n.CreatedAt.Before(*f.to)) {
		return false
	}
	return true
}

type fakeNoteRepo struct {
	notes   []*entity.Note
	findErr error

	clusterUpdates    int
	enrichmentUpdates int
}

func (r *fakeNoteRepo) Create(ctx context.Context, note *entity.Note) error {
	r.notes = append(r.notes, note)
	return nil
}

func (r *fakeNoteRepo) Update(ctx context.Context, note *entity.Note) error {
	for i, n := range r.notes {
		if n.Id == note.Id {
			r.notes[i] = note
			return nil
		}
	}
	return nil
}

func (r *fakeNoteRepo) UpdateClusterAssignment(ctx context.Context, note *entity.Note) error {
	r.clusterUpdates++
	for _, n := range r.notes {
		if n.Id == note.Id {
			n.Cluster = note.Cluster
			n.ClusterConfidence = note.ClusterConfidence
			n.ClusterUpdatedAt = note.ClusterUpdatedAt
			return nil
		}
	}
	return nil
}

func (r *fakeNoteRepo) UpdateEnrichment(ctx context.Context, note *entity.Note) error {
	r.enrichmentUpdates++
	for _, n := range r.notes {
		if n.Id == note.Id {
			n.Embedding = note.Embedding
			n.Type = note.Type
			n.Tags = note.Tags
			return nil
		}
	}
	return nil
}

func (r *fakeNoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, n := range r.notes {
		if n.Id == id {
			r.notes = append(r.notes[:i], r.notes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeNoteRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	f := parseNoteSpecs(specs)
	for _, n := range r.notes {
		if f.matches(n) {
			return n, nil
		}
	}
	return nil, nil
}

func (r *fakeNoteRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	f := parseNoteSpecs(specs)

	var out []*entity.Note
	for _, n := range r.notes {
		if f.matches(n) {
			out = append(out, n)
		}
	}

	if f.orderField == "created_at" {
		sort.SliceStable(out, func(i, j int) bool {
			if f.orderDesc {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	}
	if f.limit > 0 && len(out) > f.limit {
		out = out[:f.limit]
	}

	return out, nil
}

func (r *fakeNoteRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	notes, err := r.FindAll(ctx, specs...)
	return int64(len(notes)), err
}

func (r *fakeNoteRepo) CountByCluster(ctx context.Context, userId uuid.UUID) ([]contract.ClusterCount, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	counts := make(map[string]int)
	for _, n := range r.notes {
		if n.UserId != userId || n.Archived || n.Cluster == nil {
			continue
		}
		counts[*n.Cluster]++
	}

	var out []contract.ClusterCount
	for cluster, count := range counts {
		out = append(out, contract.ClusterCount{Cluster: cluster, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Cluster < out[j].Cluster
	})
	return out, nil
}

type fakeStackRepo struct {
	stacks  []*entity.SmartStack
	upserts int
}

func (r *fakeStackRepo) Upsert(ctx context.Context, stack *entity.SmartStack) error {
	r.upserts++
	for _, s := range r.stacks {
		if s.UserId == stack.UserId && s.Cluster == stack.Cluster {
			s.NoteCount = stack.NoteCount
			s.Summary = stack.Summary
			s.Stale = stack.Stale
			s.UpdatedAt = stack.UpdatedAt
			return nil
		}
	}
	clone := *stack
	r.stacks = append(r.stacks, &clone)
	return nil
}

func (r *fakeStackRepo) MarkStaleExcept(ctx context.Context, userId uuid.UUID, keep []string) (int64, error) {
	keepSet := make(map[string]bool, len(keep))
	for _, k := range keep {
		keepSet[k] = true
	}
	var flagged int64
	for _, s := range r.stacks {
		if s.UserId == userId && !keepSet[s.Cluster] && !s.Stale {
			s.Stale = true
			flagged++
		}
	}
	return flagged, nil
}

func (r *fakeStackRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SmartStack, error) {
	if len(r.stacks) == 0 {
		return nil, nil
	}
	return r.stacks[0], nil
}

func (r *fakeStackRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SmartStack, error) {
	return r.stacks, nil
}

func (r *fakeStackRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.stacks)), nil
}

type fakeThreadRepo struct {
	threads []*entity.Thread
}

func (r *fakeThreadRepo) Create(ctx context.Context, thread *entity.Thread) error {
	r.threads = append(r.threads, thread)
	return nil
}

func (r *fakeThreadRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Thread, error) {
	for _, s := range specs {
		if byId, ok := s.(specification.ByID); ok {
			for _, t := range r.threads {
				if t.Id == byId.ID {
					return t, nil
				}
			}
		}
	}
	return nil, nil
}

func (r *fakeThreadRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Thread, error) {
	return r.threads, nil
}

type fakeMessageRepo struct {
	messages  []*entity.Message
	recentErr error
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	r.messages = append(r.messages, message)
	return nil
}

func (r *fakeMessageRepo) UpdateEmbedding(ctx context.Context, message *entity.Message) error {
	for _, m := range r.messages {
		if m.Id == message.Id {
			m.Embedding = message.Embedding
			return nil
		}
	}
	return nil
}

func (r *fakeMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error) {
	for _, s := range specs {
		if byId, ok := s.(specification.ByID); ok {
			for _, m := range r.messages {
				if m.Id == byId.ID {
					return m, nil
				}
			}
		}
	}
	return nil, nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	return r.messages, nil
}

func (r *fakeMessageRepo) FindRecentEmbedded(ctx context.Context, userId uuid.UUID, limit int) ([]*entity.Message, error) {
	if r.recentErr != nil {
		return nil, r.recentErr
	}
	var out []*entity.Message
	for _, m := range r.messages {
		if m.UserId == userId && m.HasEmbedding() {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeUserRepo struct {
	users   []*entity.User
	findErr error
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	if len(r.users) == 0 {
		return nil, nil
	}
	return r.users[0], nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.users, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.users)), nil
}

type fakeInsightRepo struct {
	insights []*entity.WeeklyInsight
	upserts  int
}

func (r *fakeInsightRepo) Upsert(ctx context.Context, insight *entity.WeeklyInsight) error {
	r.upserts++
	for _, existing := range r.insights {
		if existing.UserId == insight.UserId && existing.WeekStart.Equal(insight.WeekStart) {
			existing.Summary = insight.Summary
			existing.Sentiment = insight.Sentiment
			existing.NoteCount = insight.NoteCount
			existing.UpdatedAt = insight.UpdatedAt
			return nil
		}
	}
	clone := *insight
	r.insights = append(r.insights, &clone)
	return nil
}

func (r *fakeInsightRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WeeklyInsight, error) {
	if len(r.insights) == 0 {
		return nil, nil
	}
	return r.insights[0], nil
}

func (r *fakeInsightRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.WeeklyInsight, error) {
	return r.insights, nil
}

func (r *fakeInsightRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.insights)), nil
}

// fakeUow hands every accessor the same in-memory repos. Transactions are
// no-ops.
type fakeUow struct {
	noteRepo    *fakeNoteRepo
	stackRepo   *fakeStackRepo
	threadRepo  *fakeThreadRepo
	messageRepo *fakeMessageRepo
	userRepo    *fakeUserRepo
	insightRepo *fakeInsightRepo
}

func newFakeUow() *fakeUow {
	return &fakeUow{
		noteRepo:    &fakeNoteRepo{},
		stackRepo:   &fakeStackRepo{},
		threadRepo:  &fakeThreadRepo{},
		messageRepo: &fakeMessageRepo{},
		userRepo:    &fakeUserRepo{},
		insightRepo: &fakeInsightRepo{},
	}
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository { return u.userRepo }
func (u *fakeUow) NoteRepository() contract.NoteRepository { return u.noteRepo }
func (u *fakeUow) SmartStackRepository() contract.SmartStackRepository {
	return u.stackRepo
}
func (u *fakeUow) ThreadRepository() contract.ThreadRepository   { return u.threadRepo }
func (u *fakeUow) MessageRepository() contract.MessageRepository { return u.messageRepo }
func (u *fakeUow) WeeklyInsightRepository() contract.WeeklyInsightRepository {
	return u.insightRepo
}

type fakeFactory struct {
	uow *fakeUow
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{uow: newFakeUow()}
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

// --- Provider fakes ---

var errProviderDown = errors.New("provider down")

type fakeEmbeddingProvider struct {
	vectors  map[string][]float32 // keyed by text; missing keys get fallback
	fallback []float32
	err      error
	calls    int
}

func (p *fakeEmbeddingProvider) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	vec, ok := p.vectors[text]
	if !ok {
		vec = p.fallback
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: vec},
	}, nil
}

type fakeLLM struct {
	response   string
	responses  []string // consumed first when set
	err        error
	calls      int
	lastPrompt string
}

func (p *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.calls++
	if len(history) > 0 {
		p.lastPrompt = history[len(history)-1].Content
	}
	if p.err != nil {
		return "", p.err
	}
	if len(p.responses) > 0 {
		out := p.responses[0]
		p.responses = p.responses[1:]
		return out, nil
	}
	return p.response, nil
}

func (p *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

type fakePublisher struct {
	notes    []uuid.UUID
	messages []uuid.UUID
	err      error
}

func (p *fakePublisher) PublishEmbedNote(ctx context.Context, noteId uuid.UUID) error {
	if p.err != nil {
		return p.err
	}
	p.notes = append(p.notes, noteId)
	return nil
}

func (p *fakePublisher) PublishEmbedMessage(ctx context.Context, messageId uuid.UUID) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, messageId)
	return nil
}

type fakeClassifier struct {
	result *Classification
	err    error
}

func (c *fakeClassifier) Classify(ctx context.Context, content string) (*Classification, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}
