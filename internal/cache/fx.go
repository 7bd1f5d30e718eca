package cache

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("cache",
	fx.Provide(New),
	fx.Invoke(func(lc fx.Lifecycle, s *Store) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return s.Close()
			},
		})
	}),
)
