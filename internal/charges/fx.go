package charges

import (
	"github.com/wardbooklabs/wardbook/internal/charges/repository"
	"github.com/wardbooklabs/wardbook/internal/charges/service"
	"go.uber.org/fx"
)

var Module = fx.Module("charges",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
