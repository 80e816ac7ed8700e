package store

import (
	"context"

	"github.com/kazanTW/pa-telegram-bot/internal/domain"
)

// Repo is the durable home of the whole assistant state. Load never
// fails on a missing or corrupt backing resource; it self-heals to the
// baseline instead. Update runs a load-mutate-save sequence inside a
// single critical section, so interleaved commands cannot lose writes.
type Repo interface {
	Load(ctx context.Context) (domain.State, error)
	Update(ctx context.Context, fn func(*domain.State) error) error
}
