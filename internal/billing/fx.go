package billing

import (
	"github.com/dinebilllabs/dinebill/internal/billing/repository"
	"github.com/dinebilllabs/dinebill/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
