package main

import (
	"context"
	nethttp "net/http"
	_ "net/http/pprof"

	_ "github.com/grafana/pyroscope-go/godeltaprof/http/pprof"

	"github.com/mileusna/crontab"
	"leadgen.ai/leadgen-api/app/domain/cron"
	"leadgen.ai/leadgen-api/app/infrastructure/database"
	apphttp "leadgen.ai/leadgen-api/app/interfaces/http"
	"leadgen.ai/leadgen-api/app/utils/logger"
	"leadgen.ai/leadgen-api/config/environment_variables"
)

type Application struct {
	HttpServer  *apphttp.HttpServer
	CronService *cron.CronService
}

func (application *Application) Start() {
	cronTab := crontab.New()
	background := context.Background()
	application.CronService.Start(background, cronTab)

	if err := application.HttpServer.Run(); err != nil {
		panic(err)
	}
}

func init() {
	logger.GetLogger()
	environment_variables.EnvironmentVariables.LoadFromEnv()
	logger.SetLevel(environment_variables.EnvironmentVariables.LOG_LEVEL)
}

// @title Leadgen API
// @version 1.0
// @description Lead discovery, enrichment and dataset merging for prospecting projects.
// @BasePath /
func main() {
	background := context.Background()

	// pprof and godeltaprof handlers live on the default mux
	go func() {
		if err := nethttp.ListenAndServe("0.0.0.0:6060", nil); err != nil {
			logger.GetLogger().Errorf("pprof server failed: %v", err)
		}
	}()

	application, err := CreateApplication()
	if err != nil {
		panic(err)
	}
	err = database.Migration()
	if err != nil {
		panic(err)
	}
	dataInitializer, err := CreateDataInitializer()
	if err != nil {
		panic(err)
	}
	err = dataInitializer.Install(background)
	if err != nil {
		panic(err)
	}
	application.Start()
}
