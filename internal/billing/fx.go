package billing

import (
	"github.com/wardbooklabs/wardbook/internal/billing/repository"
	"github.com/wardbooklabs/wardbook/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
