package product

import (
	"github.com/dinebilllabs/dinebill/internal/product/repository"
	"github.com/dinebilllabs/dinebill/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.New),
)
