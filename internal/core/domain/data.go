package domain

import "time"

const DefaultDataVersion = "1.0"

// DataMetadata holds attribution for a DataRecord.
type DataMetadata struct {
	Author  string `json:"author"`
	Version string `json:"version"`
}

// DataRecord is a catalogue entry in the data collection.
type DataRecord struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Category     string       `json:"category"`
	Price        float64      `json:"price"`
	IsActive     bool         `json:"isActive"`
	Tags         []string     `json:"tags"`
	CreatedDate  time.Time    `json:"createdDate"`
	LastModified time.Time    `json:"lastModified"`
	Metadata     DataMetadata `json:"metadata"`
}
