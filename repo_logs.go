package auth

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewAuthLogsRepository(db *bun.DB) repository.Repository[*AuthLog] {
	handlers := repository.ModelHandlers[*AuthLog]{
		NewRecord: func() *AuthLog {
			return &AuthLog{}
		},
		GetID: func(record *AuthLog) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *AuthLog, id uuid.UUID) {
			record.ID = id
		},
		GetIdentifier: func() string {
			return "log_type"
		},
	}
	return repository.NewRepository(db, handlers)
}
