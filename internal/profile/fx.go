package profile

import (
	"github.com/courtside/rosterd/internal/profile/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("profile.repository",
	fx.Provide(repository.Provide),
)
