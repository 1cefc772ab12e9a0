package domain

import "time"

// Snapshot is the store's bulk export format: every table in full plus the
// export timestamp. Import accepts exactly this shape; unknown top-level
// keys are ignored and missing ones are treated as empty.
type Snapshot struct {
	Agents     []Agent           `json:"agents"`
	Projects   []Project         `json:"projects"`
	Chats      []Chat            `json:"chats"`
	Messages   []Message         `json:"messages"`
	Analytics  []AnalyticsRecord `json:"analytics"`
	Settings   []Setting         `json:"settings"`
	ExportedAt time.Time         `json:"exportedAt"`
}
