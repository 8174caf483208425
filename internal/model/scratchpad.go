package model

import "time"

// Scratchpad holds the free-form notes blob. A single row (id 1) backs
// the whole scratchpad; Content is an opaque string owned by the client.
type Scratchpad struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Content      string    `gorm:"type:TEXT" json:"content"`
	LastModified time.Time `json:"lastModified"`
}
