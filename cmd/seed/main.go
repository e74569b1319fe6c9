// cmd/seed/main.go
// Seeds a development database with a small demo dataset: three races (two
// active), three checkpoints, two tagged participants and their courses.
//
// Usage:
//
//	go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/padraicbc/orientapi/config"
	bundb "github.com/padraicbc/orientapi/db"
	"github.com/padraicbc/orientapi/engine"
	"github.com/padraicbc/orientapi/models"
)

func main() {
	cfg := config.Load()
	db := bundb.Setup(cfg)
	defer db.Close()

	ctx := context.Background()
	if err := bundb.CreateTables(ctx, db); err != nil {
		log.Fatal("create tables:", err)
	}

	races := []*models.Race{
		{Name: "race1", ScheduledAt: time.Now(), Location: "location1", IsActive: true},
		{Name: "race2", ScheduledAt: time.Now(), Location: "location2", IsActive: true},
		{Name: "race3", ScheduledAt: time.Now(), Location: "location3", IsActive: false},
	}
	for _, r := range races {
		if _, err := db.NewInsert().Model(r).Exec(ctx); err != nil {
			log.Fatal("insert race:", err)
		}
	}

	checkpoints := []*models.Checkpoint{
		{ExternalID: "cp-0001", Label: "start"},
		{ExternalID: "cp-0002", Label: "forest junction"},
		{ExternalID: "cp-0003", Label: "finish"},
	}
	for _, cp := range checkpoints {
		if _, err := db.NewInsert().Model(cp).Exec(ctx); err != nil {
			log.Fatal("insert checkpoint:", err)
		}
	}

	participants := []*models.Participant{
		{TagID: 1, FirstName: "runner1first", LastName: "runner1sur"},
		{TagID: 2, FirstName: "runner2first", LastName: "runner2sur"},
	}
	for _, p := range participants {
		if _, err := db.NewInsert().Model(p).Exec(ctx); err != nil {
			log.Fatal("insert participant:", err)
		}
	}

	eng := engine.New(db)

	// race1 runs the full course, race2 and race3 share the start checkpoint.
	if err := eng.ReplaceCourse(ctx, races[0].ID, []int64{checkpoints[0].ID, checkpoints[1].ID, checkpoints[2].ID}); err != nil {
		log.Fatal("course race1:", err)
	}
	if err := eng.ReplaceCourse(ctx, races[1].ID, []int64{checkpoints[0].ID}); err != nil {
		log.Fatal("course race2:", err)
	}
	if err := eng.ReplaceCourse(ctx, races[2].ID, []int64{checkpoints[0].ID}); err != nil {
		log.Fatal("course race3:", err)
	}

	for _, r := range races {
		for _, p := range participants {
			if err := eng.AddParticipant(ctx, r.ID, p.ID); err != nil {
				log.Fatal("roster:", err)
			}
		}
	}

	fmt.Println("seeded demo dataset")
}
