package grant

import (
	"github.com/courtside/rosterd/internal/grant/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("grant.repository",
	fx.Provide(repository.Provide),
)
