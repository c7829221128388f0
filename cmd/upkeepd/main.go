package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/jmorgan/upkeep/internal/backup"
	"github.com/jmorgan/upkeep/internal/database"
	"github.com/jmorgan/upkeep/internal/email"
	"github.com/jmorgan/upkeep/internal/logging"
	"github.com/jmorgan/upkeep/internal/sms"
	"github.com/jmorgan/upkeep/internal/store"
	"github.com/jmorgan/upkeep/internal/warranty"
)

func main() {
	logger := logging.Setup(os.Getenv("UPKEEP_LOG_LEVEL"), os.Getenv("UPKEEP_LOG_FORMAT"))

	dbPath := os.Getenv("UPKEEP_DB_PATH")
	if dbPath == "" {
		dbPath = "upkeep.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	mailer := email.NewClient(os.Getenv("POSTMARK_SERVER_TOKEN"), os.Getenv("POSTMARK_FROM_EMAIL"))
	texter := sms.NewClient(os.Getenv("TWILIO_ACCOUNT_SID"), os.Getenv("TWILIO_AUTH_TOKEN"), os.Getenv("TWILIO_FROM_NUMBER"))

	warranties := store.NewWarrantyStore(db)
	dispatcher := warranty.NewDispatcher(warranties, mailer, texter)
	scanner := warranty.NewScanner(warranties, dispatcher)
	scheduler := warranty.NewScheduler(scanner, envInt("UPKEEP_SCAN_HOUR", 8))

	backupMgr := backup.NewManager(backup.Config{
		S3: backup.S3Config{
			Endpoint:  os.Getenv("UPKEEP_S3_ENDPOINT"),
			Bucket:    os.Getenv("UPKEEP_S3_BUCKET"),
			Region:    os.Getenv("UPKEEP_S3_REGION"),
			AccessKey: os.Getenv("UPKEEP_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("UPKEEP_S3_SECRET_KEY"),
		},
		DBPath:        dbPath,
		Passphrase:    os.Getenv("UPKEEP_BACKUP_PASSPHRASE"),
		ScheduleHour:  envInt("UPKEEP_BACKUP_HOUR", 3),
		RetentionDays: envInt("UPKEEP_BACKUP_RETENTION_DAYS", 30),
	}, db, store.NewBackupStore(db))

	ctx := context.Background()
	scheduler.Start(ctx)
	backupMgr.Start(ctx)

	logger.Info("upkeepd running", "db_path", dbPath)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	scheduler.Stop()
	backupMgr.Stop()
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return n
}
