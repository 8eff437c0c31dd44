package audit

import "time"

// Entry records one executed shell line.
type Entry struct {
	Seq      uint64    `json:"seq"`
	Time     time.Time `json:"ts"`
	PrevHash string    `json:"prev_hash"`
	Line     string    `json:"line"`            // raw input line
	Commands []string  `json:"commands"`        // command name of each stage
	Source   string    `json:"source"`          // "shell", "oneshot" or "mcp"
	Error    string    `json:"error,omitempty"` // error message if the line failed
	Changed  bool      `json:"changed"`         // the store was modified
	Duration float64   `json:"duration_ms"`     // execution time in milliseconds
	Hash     string    `json:"hash"`            // SHA-256 of this entry (with hash field empty)
}

// Record carries the per-line facts the logger needs.
type Record struct {
	Line     string
	Commands []string
	Source   string
	Err      error
	Changed  bool
	Duration time.Duration
}
