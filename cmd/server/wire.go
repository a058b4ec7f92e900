//go:build wireinject

package main

import (
	"github.com/google/wire"
	"gorm.io/gorm"
	"leadgen.ai/leadgen-api/app/domain"
	"leadgen.ai/leadgen-api/app/infrastructure"
	"leadgen.ai/leadgen-api/app/infrastructure/database"
	"leadgen.ai/leadgen-api/app/infrastructure/database/repository"
	"leadgen.ai/leadgen-api/app/interfaces/http"
	"leadgen.ai/leadgen-api/app/interfaces/http/routes"
)

func CreateApplication() (*Application, error) {
	wire.Build(
		database.NewDB,
		repository.RepositoryProvider,
		infrastructure.InfrastructureProvider,
		domain.ServiceProvider,
		routes.RouteProvider,
		http.NewHttpServer,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}

func ProvideDatabase() *gorm.DB {
	return database.DB
}

func CreateDataInitializer() (*DataInitializer, error) {
	wire.Build(
		ProvideDatabase,
		repository.RepositoryProvider,
		infrastructure.InfrastructureProvider,
		domain.ServiceProvider,
		wire.Struct(new(DataInitializer), "*"),
	)
	return nil, nil
}
