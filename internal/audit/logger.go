package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const genesisInput = "reason-genesis"

// head is the tip of the hash chain.
type head struct {
	seq  uint64
	hash string
}

func genesis() head {
	return head{hash: sum([]byte(genesisInput))}
}

// Logger appends hash-chained entries to a JSONL file. It is safe for
// concurrent use within one process.
type Logger struct {
	mu   sync.Mutex
	path string
	tip  head
}

// NewLogger prepares the log at path, creating its directory. If the log
// already has entries, new ones continue its chain.
func NewLogger(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	tip := genesis()
	if len(lines) > 0 {
		var last Entry
		if err := json.Unmarshal(lines[len(lines)-1], &last); err != nil {
			return nil, fmt.Errorf("audit log %s: last entry: %w", path, err)
		}
		tip = head{seq: last.Seq, hash: last.Hash}
	}
	return &Logger{path: path, tip: tip}, nil
}

// Path returns the audit log file path.
func (l *Logger) Path() string {
	return l.path
}

// Log appends an entry for r.
func (l *Logger) Log(r Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := r.entry(l.tip, time.Now().UTC())
	e.Hash = e.digest()

	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}
	if err := appendLine(l.path, line); err != nil {
		return err
	}
	l.tip = head{seq: e.Seq, hash: e.Hash}
	return nil
}

func (r Record) entry(prev head, now time.Time) Entry {
	e := Entry{
		Seq:      prev.seq + 1,
		Time:     now,
		PrevHash: prev.hash,
		Line:     r.Line,
		Commands: r.Commands,
		Source:   r.Source,
		Changed:  r.Changed,
		Duration: float64(r.Duration.Microseconds()) / 1000,
	}
	if e.Commands == nil {
		e.Commands = []string{}
	}
	if r.Err != nil {
		e.Error = r.Err.Error()
	}
	return e
}

// digest hashes the entry with its Hash field cleared.
func (e Entry) digest() string {
	e.Hash = ""
	data, _ := json.Marshal(e)
	return sum(data)
}

func sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

func appendLine(path string, line []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("write audit entry: %w", err)
	}
	return f.Close()
}

// splitLines splits data on newlines, dropping empty lines.
func splitLines(data []byte) [][]byte {
	var lines [][]byte
	for len(data) > 0 {
		i := 0
		for i < len(data) && data[i] != '\n' {
			i++
		}
		if i > 0 {
			lines = append(lines, data[:i])
		}
		if i == len(data) {
			break
		}
		data = data[i+1:]
	}
	return lines
}
