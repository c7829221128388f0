package model

import "time"

type BackupStatus string

const (
	BackupStatusPending   BackupStatus = "pending"
	BackupStatusUploading BackupStatus = "uploading"
	BackupStatusCompleted BackupStatus = "completed"
	BackupStatusFailed    BackupStatus = "failed"
)

type BackupRecord struct {
	ID          int64        `json:"id"`
	Filename    string       `json:"filename"`
	S3Key       string       `json:"s3_key"`
	Status      BackupStatus `json:"status"`
	SizeBytes   int64        `json:"size_bytes"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}
