package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"mention_tracker/internal/domain"
)

type Source interface {
	ID() string
	Name() string
	FetchMentions(ctx context.Context, keyword string) ([]domain.Mention, error)
}

type Sink interface {
	Replace(ctx context.Context, mentions []domain.Mention) error
}

type Publisher interface {
	Publish(ctx context.Context, keyword string, mentions []domain.Mention) error
	Close() error
}
