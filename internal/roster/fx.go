package roster

import (
	"github.com/courtside/rosterd/internal/roster/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("roster.repository",
	fx.Provide(repository.Provide),
)
