package identity

import (
	"github.com/courtside/rosterd/internal/identity/provider"
	"go.uber.org/fx"
)

var Module = fx.Module("identity.provider",
	fx.Provide(provider.New),
)
