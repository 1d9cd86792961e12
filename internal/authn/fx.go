package authn

import "go.uber.org/fx"

var Module = fx.Module("authn",
	fx.Provide(New),
)
