package model

import "time"

// Asset is a content-addressed cover file plus its metadata row.
// Digest is unique: byte-identical uploads resolve to the same Asset.
type Asset struct {
	ID          int64     `json:"id"`
	Digest      string    `json:"digest"`
	ContentType string    `json:"content_type"`
	StoredName  string    `json:"stored_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Upload is an already-buffered cover upload as handed over by the transport layer.
type Upload struct {
	Content     []byte
	ContentType string
	Filename    string
}
