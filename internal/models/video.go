package models

import "time"

// Video represents a stored video asset and its metadata record.
// FilePath is relative to the storage base path; the backing file must
// exist for the lifetime of the record.
type Video struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	FilePath  string    `json:"filePath" db:"file_path"`
	Size      int64     `json:"size" db:"size"`
	Duration  float64   `json:"duration" db:"duration"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
