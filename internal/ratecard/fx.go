package ratecard

import "go.uber.org/fx"

var Module = fx.Module("ratecard",
	fx.Provide(New),
)
