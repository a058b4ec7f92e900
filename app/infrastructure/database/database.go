package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
	"leadgen.ai/leadgen-api/app/utils/logger"
	"leadgen.ai/leadgen-api/config/environment_variables"
)

var SchemaRegistry []interface{}

func RegisterSchemaForAutoMigrate(models ...interface{}) {
	SchemaRegistry = append(SchemaRegistry, models...)
}

var DB *gorm.DB

func gormConfig() *gorm.Config {
	return &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	}
}

func NewDB() (*gorm.DB, error) {
	env := environment_variables.EnvironmentVariables
	if err := ensureDatabase(env.PostgresDSN(env.POSTGRESQL_INITIAL_DATABASE), env.POSTGRESQL_DATABASE); err != nil {
		logger.GetLogger().
			WithField("error_code", "0d6c2f4e-5a1b-4a43-9d59-1b7c8e2e4f10").
			Fatalf("unable to prepare database %s: %v", env.POSTGRESQL_DATABASE, err)
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(env.PostgresDSN(env.POSTGRESQL_DATABASE)), gormConfig())
	if err != nil {
		logger.GetLogger().
			WithField("error_code", "5c16fb53-d98c-4fc6-8bb4-9abd3c0b9e88").
			Fatalf("unable to connect to database: %v", err)
		return nil, err
	}
	if env.DB_POSTGRESQL_READ1_DSN != "" {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.Open(env.DB_POSTGRESQL_READ1_DSN)},
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			logger.GetLogger().
				WithField("error_code", "9fab4b2e-1d70-4a4e-928a-5e81c7ee06de").
				Fatalf("unable to connect to setup replica: %v", err)
			return nil, err
		}
	}
	DB = db
	return DB, nil
}

// ensureDatabase connects to the initial database and creates the target
// database when it does not exist yet.
func ensureDatabase(initialDSN string, name string) error {
	admin, err := gorm.Open(postgres.Open(initialDSN), gormConfig())
	if err != nil {
		return err
	}
	sqlDB, err := admin.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	var count int64
	if err := admin.Raw("SELECT COUNT(*) FROM pg_database WHERE datname = ?", name).Scan(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	logger.GetLogger().Infof("creating database %s", name)
	// CREATE DATABASE does not accept bind parameters.
	return admin.Exec(fmt.Sprintf("CREATE DATABASE %s", quoteIdentifier(name))).Error
}

func quoteIdentifier(name string) string {
	out := make([]rune, 0, len(name)+2)
	out = append(out, '"')
	for _, r := range name {
		if r == '"' {
			out = append(out, '"')
		}
		out = append(out, r)
	}
	return string(append(out, '"'))
}

func Migration() error {
	migrator := NewDBMigrator(DB)
	return migrator.Migrate()
}
