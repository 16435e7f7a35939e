package flag

import (
	"context"

	domainflag "github.com/komi0929/myprompt/internal/domain/flag"
)

type Repository interface {
	List(ctx context.Context) ([]domainflag.Flag, error)
	Get(ctx context.Context, name string) (domainflag.Flag, error)
	Upsert(ctx context.Context, f domainflag.Flag) error
}
