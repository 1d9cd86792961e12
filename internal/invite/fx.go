package invite

import (
	"github.com/courtside/rosterd/internal/invite/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("invite.repository",
	fx.Provide(repository.Provide),
)
