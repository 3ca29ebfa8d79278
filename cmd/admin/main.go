package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"noticeboard/backend/internal/config"
	"noticeboard/backend/internal/logger"
	"noticeboard/backend/internal/models"
	"noticeboard/backend/internal/storage"
	"noticeboard/backend/internal/triage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const usage = `Usage: admin <command> [args]
  list                        show submissions in triage order
  status <id> <new|reviewed|resolved>
  advance <id>                apply the next review step
  promote <profile_id>        grant admin rights
  demote <profile_id>         revoke admin rights
  seed [posts]                fill the board with sample data`

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("failed to read config: %v", err)
	}
	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil, zl) // Redis не потрібен: зміни розсилають тригери Postgres
	triageSvc := triage.NewService(storageSvc, zl)
	ctx := context.Background()

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "list":
		if err := listSubmissions(ctx, triageSvc); err != nil {
			log.Fatalf("Error listing submissions: %v", err)
		}
	case "status":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin status <id> <new|reviewed|resolved>")
			os.Exit(1)
		}
		id, err := triageSvc.Resolve(ctx, triage.Console, os.Args[2])
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		sub, err := triageSvc.UpdateStatus(ctx, triage.Console, id, models.Status(strings.ToLower(os.Args[3])))
		if err != nil {
			log.Fatalf("Error updating submission: %v", err)
		}
		fmt.Printf("Submission %s is now %s.\n", triage.ShortID(sub.ID), triage.StatusLabel(sub.Status))
	case "advance":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin advance <id>")
			os.Exit(1)
		}
		id, err := triageSvc.Resolve(ctx, triage.Console, os.Args[2])
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		sub, err := triageSvc.AdvanceStatus(ctx, triage.Console, id)
		if err != nil {
			log.Fatalf("Error advancing submission: %v", err)
		}
		fmt.Printf("Submission %s is now %s.\n", triage.ShortID(sub.ID), triage.StatusLabel(sub.Status))
	case "promote", "demote":
		if len(os.Args) != 3 {
			fmt.Printf("Usage: admin %s <profile_id>\n", command)
			os.Exit(1)
		}
		if err := storageSvc.SetAdmin(ctx, os.Args[2], command == "promote"); err != nil {
			log.Fatalf("Error updating profile: %v", err)
		}
		fmt.Printf("Profile %s updated.\n", os.Args[2])
	case "seed":
		n := 6
		if len(os.Args) > 2 {
			n, err = strconv.Atoi(os.Args[2])
			if err != nil || n < 1 {
				fmt.Println("Invalid post count. Please provide a positive integer.")
				os.Exit(1)
			}
		}
		if err := seed(ctx, storageSvc, n); err != nil {
			log.Fatalf("seed: %v", err)
		}
		fmt.Printf("Seeded %d posts.\n", n)
	default:
		fmt.Println("Unknown command")
		fmt.Println(usage)
		os.Exit(1)
	}
}

func listSubmissions(ctx context.Context, svc *triage.Service) error {
	subs, err := svc.List(ctx, triage.Console)
	if err != nil {
		return err
	}
	view := triage.Render(subs)
	fmt.Printf("%d total: %d new, %d reviewed, %d resolved\n",
		view.Summary.Total, view.Summary.New, view.Summary.Reviewed, view.Summary.Resolved)
	for _, it := range view.Items {
		fmt.Printf("#%s  %-15s %-14s %-10s %s\n", it.ShortID, it.Urgency, it.Category, it.Status, it.Created.Format("2006-01-02 15:04"))
		fmt.Printf("    %s\n", strings.ReplaceAll(it.Content, "\n", "\n    "))
	}
	return nil
}
