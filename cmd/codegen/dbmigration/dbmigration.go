package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"

	"leadgen.ai/leadgen-api/app/infrastructure/database"
	_ "leadgen.ai/leadgen-api/app/infrastructure/database/dbschema"
	"leadgen.ai/leadgen-api/app/utils/logger"
	"leadgen.ai/leadgen-api/config/environment_variables"
)

// Produces an atlas HCL snapshot of the registered schemas and, given two
// snapshots, the SQL needed to move between them.
//
//	brew install ariga/tap/atlas
//	postgres=# CREATE ROLE migration WITH LOGIN PASSWORD 'migration' SUPERUSER;
//	postgres=# CREATE DATABASE migration WITH OWNER = migration;
//
// Point POSTGRESQL_* at the migration database before running.

const tmpDir = "tmp"

func resetSchema() {
	db, err := database.NewDB()
	if err != nil {
		logger.GetLogger().Fatalf("failed to connect: %v", err)
	}
	if err := db.Exec("DROP SCHEMA IF EXISTS public CASCADE;").Error; err != nil {
		logger.GetLogger().Fatalf("failed to drop schema: %v", err)
	}
	if err := db.Exec("CREATE SCHEMA public;").Error; err != nil {
		logger.GetLogger().Fatalf("failed to create schema: %v", err)
	}
}

func migrationDSN() string {
	env := environment_variables.EnvironmentVariables
	return env.PostgresDSN(env.POSTGRESQL_DATABASE)
}

func atlas(command string) {
	cmd := exec.Command("sh", "-c", command)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		logger.GetLogger().Fatalf("atlas failed: %v", err)
	}
}

func generateHcl(snapshot string) {
	resetSchema()
	if err := database.Migration(); err != nil {
		logger.GetLogger().Fatalf("failed to migrate schema: %v", err)
	}
	atlas(fmt.Sprintf(`atlas schema inspect -u %q > %s/%s.hcl`, migrationDSN(), tmpDir, snapshot))
}

func generateDiffSql(from, to string) {
	resetSchema()
	atlas(fmt.Sprintf(`atlas schema diff --dev-url %q --from file://%s/%s.hcl --to file://%s/%s.hcl > %s/diff.sql`,
		migrationDSN(), tmpDir, from, tmpDir, to, tmpDir))
}

func main() {
	snapshot := flag.String("snapshot", "", "write the current schema to tmp/<name>.hcl")
	from := flag.String("from", "", "snapshot to diff from")
	to := flag.String("to", "", "snapshot to diff to")
	flag.Parse()

	environment_variables.EnvironmentVariables.LoadFromEnv()
	if err := os.MkdirAll(tmpDir, 0755); err != nil {
		logger.GetLogger().Fatal(err)
	}
	switch {
	case *snapshot != "":
		generateHcl(*snapshot)
	case *from != "" && *to != "":
		generateDiffSql(*from, *to)
	default:
		flag.Usage()
		os.Exit(2)
	}
}
