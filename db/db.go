package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/padraicbc/orientapi/config"
	"github.com/padraicbc/orientapi/models"
)

// Setup opens a PostgreSQL connection using the provided config.
func Setup(cfg *config.Config) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
	db := bun.NewDB(sqldb, pgdialect.New())

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(context.Background()); err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	return db
}

// CreateTables creates all tables in dependency order.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.Participant)(nil),
		(*models.Checkpoint)(nil),
		(*models.Race)(nil),
		(*models.CourseEntry)(nil),
		(*models.RosterEntry)(nil),
		(*models.CrossingEvent)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	// Ownership cascades and per-race position uniqueness live in PostgreSQL
	// constraints; sqlite test databases get by on the composite primary keys.
	if db.Dialect().Name() != dialect.PG {
		return nil
	}

	constraints := []string{
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'race_checkpoints_position_unique') THEN ALTER TABLE race_checkpoints ADD CONSTRAINT race_checkpoints_position_unique UNIQUE (race_id, position); END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'race_checkpoints_race_fk') THEN ALTER TABLE race_checkpoints ADD CONSTRAINT race_checkpoints_race_fk FOREIGN KEY (race_id) REFERENCES races (id) ON DELETE CASCADE; END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'race_checkpoints_checkpoint_fk') THEN ALTER TABLE race_checkpoints ADD CONSTRAINT race_checkpoints_checkpoint_fk FOREIGN KEY (checkpoint_id) REFERENCES checkpoints (id) ON DELETE CASCADE; END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'race_participants_race_fk') THEN ALTER TABLE race_participants ADD CONSTRAINT race_participants_race_fk FOREIGN KEY (race_id) REFERENCES races (id) ON DELETE CASCADE; END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'race_participants_participant_fk') THEN ALTER TABLE race_participants ADD CONSTRAINT race_participants_participant_fk FOREIGN KEY (participant_id) REFERENCES participants (id) ON DELETE CASCADE; END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'crossing_events_participant_fk') THEN ALTER TABLE crossing_events ADD CONSTRAINT crossing_events_participant_fk FOREIGN KEY (participant_id) REFERENCES participants (id) ON DELETE CASCADE; END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'crossing_events_checkpoint_fk') THEN ALTER TABLE crossing_events ADD CONSTRAINT crossing_events_checkpoint_fk FOREIGN KEY (checkpoint_id) REFERENCES checkpoints (id) ON DELETE CASCADE; END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'crossing_events_race_fk') THEN ALTER TABLE crossing_events ADD CONSTRAINT crossing_events_race_fk FOREIGN KEY (race_id) REFERENCES races (id) ON DELETE CASCADE; END IF; END $$`,
	}
	for _, stmt := range constraints {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Printf("constraint: %v", err)
		}
	}

	return nil
}
