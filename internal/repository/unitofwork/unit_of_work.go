package unitofwork

import (
	"context"

	"klutr-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	NoteRepository() contract.NoteRepository
	SmartStackRepository() contract.SmartStackRepository
	ThreadRepository() contract.ThreadRepository
	MessageRepository() contract.MessageRepository
	WeeklyInsightRepository() contract.WeeklyInsightRepository
}
