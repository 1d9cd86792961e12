package provisioning

import (
	"github.com/courtside/rosterd/internal/provisioning/service"
	"github.com/courtside/rosterd/internal/saga"
	"go.uber.org/fx"
)

var Module = fx.Module("provisioning",
	fx.Provide(
		saga.New,
		service.New,
	),
)
