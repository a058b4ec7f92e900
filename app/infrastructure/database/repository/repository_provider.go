package repository

import (
	"github.com/google/wire"
	"leadgen.ai/leadgen-api/app/infrastructure/database/repository/datasetrepo"
	"leadgen.ai/leadgen-api/app/infrastructure/database/repository/leadrepo"
	"leadgen.ai/leadgen-api/app/infrastructure/database/repository/projectrepo"
	"leadgen.ai/leadgen-api/app/infrastructure/database/repository/searchrepo"
	"leadgen.ai/leadgen-api/app/infrastructure/database/repository/transaction"
)

var RepositoryProvider = wire.NewSet(
	projectrepo.NewProjectGormRepository,
	leadrepo.NewLeadGormRepository,
	leadrepo.NewEnrichmentResultGormRepository,
	searchrepo.NewSearchGormRepository,
	datasetrepo.NewDatasetGormRepository,
	transaction.NewDatabase,
)
