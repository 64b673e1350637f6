package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/cmlabs-hris/payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/golang-migrate/migrate/v4"
)

func main() {
	var (
		action  = flag.String("action", "up", "migration action: up, down, version, force")
		steps   = flag.Int("steps", 0, "number of steps for up/down (0 = all)")
		version = flag.Int("version", -1, "version to force (only with -action force)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := runMigration(*action, *steps, *version, cfg.DatabaseURL()); err != nil {
		log.Fatalf("migration %s failed: %v", *action, err)
	}

	log.Printf("migration %s completed", *action)
}

func runMigration(action string, steps, version int, dsn string) error {
	m, err := database.NewMigrator(dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	switch action {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "version":
		v, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				log.Printf("no migration applied")
				return nil
			}
			return err
		}
		log.Printf("version=%d dirty=%t", v, dirty)
		return nil
	case "force":
		if version < 0 {
			return fmt.Errorf("-version is required for force")
		}
		return m.Force(version)
	default:
		return fmt.Errorf("unsupported action %q", action)
	}
}
