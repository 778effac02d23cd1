package encounter

import (
	"github.com/wardbooklabs/wardbook/internal/encounter/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("encounter",
	fx.Provide(repository.Provide),
)
