package taxgroup

import (
	"github.com/dinebilllabs/dinebill/internal/taxgroup/repository"
	"github.com/dinebilllabs/dinebill/internal/taxgroup/service"
	"go.uber.org/fx"
)

var Module = fx.Module("taxgroup.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
