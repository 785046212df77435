package models

import "time"

// File is an uploaded receipt. One file may be linked to several orders.
type File struct {
	ID        int64     `json:"id"`
	FileID    string    `json:"file_id"`
	Path      string    `json:"path"`
	Filename  string    `json:"filename"`
	FileType  string    `json:"file_type"`
	FileSize  int64     `json:"file_size"`
	CreatedAt time.Time `json:"created_at"`
}
