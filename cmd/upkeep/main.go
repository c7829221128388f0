package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmorgan/upkeep/internal/catalog"
	"github.com/jmorgan/upkeep/internal/database"
	"github.com/jmorgan/upkeep/internal/email"
	"github.com/jmorgan/upkeep/internal/logging"
	"github.com/jmorgan/upkeep/internal/schedule"
	"github.com/jmorgan/upkeep/internal/sms"
	"github.com/jmorgan/upkeep/internal/store"
	"github.com/jmorgan/upkeep/internal/warranty"
)

const usage = `usage: upkeep <command> [flags]

commands:
  assign -household N    generate the maintenance schedule for a household
  scan                   run the warranty expiration scanner once
  import -file PATH      import catalog tasks from a CSV file
`

func main() {
	logging.Setup(os.Getenv("UPKEEP_LOG_LEVEL"), os.Getenv("UPKEEP_LOG_FORMAT"))

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	dbPath := os.Getenv("UPKEEP_DB_PATH")
	if dbPath == "" {
		dbPath = "upkeep.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "assign":
		fs := flag.NewFlagSet("assign", flag.ExitOnError)
		householdID := fs.Int64("household", 0, "household id")
		fs.Parse(os.Args[2:])
		if *householdID == 0 {
			log.Fatal("assign: -household is required")
		}
		runAssign(db, *householdID)
	case "scan":
		runScan(db)
	case "import":
		fs := flag.NewFlagSet("import", flag.ExitOnError)
		file := fs.String("file", "", "CSV file path")
		fs.Parse(os.Args[2:])
		if *file == "" {
			log.Fatal("import: -file is required")
		}
		runImport(db, *file)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func runAssign(db *sql.DB, householdID int64) {
	generator := schedule.NewGenerator(
		store.NewCatalogStore(db),
		store.NewProfileStore(db),
		store.NewHouseholdStore(db),
		store.NewAssignmentStore(db),
		store.NewReminderStore(db),
	)

	assignments, err := generator.Generate(householdID, time.Now())
	if err != nil {
		log.Fatalf("generate assignments: %v", err)
	}

	fmt.Printf("%d assignments for household %d\n", len(assignments), householdID)
	for _, a := range assignments {
		fmt.Printf("  %s  task=%d  priority=%s\n", a.DueDate.Format("2006-01-02"), a.TaskID, a.Priority)
	}
}

func runScan(db *sql.DB) {
	mailer := email.NewClient(os.Getenv("POSTMARK_SERVER_TOKEN"), os.Getenv("POSTMARK_FROM_EMAIL"))
	texter := sms.NewClient(os.Getenv("TWILIO_ACCOUNT_SID"), os.Getenv("TWILIO_AUTH_TOKEN"), os.Getenv("TWILIO_FROM_NUMBER"))

	warranties := store.NewWarrantyStore(db)
	scanner := warranty.NewScanner(warranties, warranty.NewDispatcher(warranties, mailer, texter))

	report, err := scanner.Scan(context.Background())
	if err != nil {
		log.Fatalf("warranty scan: %v", err)
	}

	fmt.Printf("run %s: processed=%d emails=%d sms=%d errors=%d skipped=%d\n",
		report.RunID, report.Processed, report.EmailsSent, report.SMSSent, report.Errors, report.Skipped)
}

func runImport(db *sql.DB, path string) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("open catalog file: %v", err)
	}
	defer f.Close()

	tasks, err := catalog.ReadCSV(f)
	if err != nil {
		log.Fatalf("parse catalog file: %v", err)
	}

	catalogStore := store.NewCatalogStore(db)
	for _, t := range tasks {
		if _, err := catalogStore.Create(t); err != nil {
			log.Fatalf("import task %s: %v", t.Code, err)
		}
	}

	fmt.Printf("imported %d catalog tasks\n", len(tasks))
}
