package payment

import (
	"github.com/wardbooklabs/wardbook/internal/payment/repository"
	"github.com/wardbooklabs/wardbook/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
