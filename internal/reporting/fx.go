package reporting

import (
	"github.com/wardbooklabs/wardbook/internal/reporting/repository"
	"github.com/wardbooklabs/wardbook/internal/reporting/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reporting",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
