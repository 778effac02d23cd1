package bootstrap

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("bootstrap",
	fx.Provide(NewSchemaGate),
)

// EnforceSchemaGate fails application startup when the schema is not active.
func EnforceSchemaGate(lc fx.Lifecycle, gate SchemaGate) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return gate.MustBeActive(ctx)
		},
	})
}
