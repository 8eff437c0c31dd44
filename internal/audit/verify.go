package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ChainError describes the first entry that breaks the hash chain.
type ChainError struct {
	Line   int // 1-based line number in the log
	Reason string
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Verify reads the audit log and checks the hash chain integrity. It returns
// the number of entries checked. A missing or empty log is valid. The first
// violation is reported as a *ChainError.
func Verify(path string) (int, error) {
	lines, err := readLines(path)
	if err != nil {
		return 0, err
	}

	expectedPrev := genesis().hash
	var prevSeq uint64

	for i, line := range lines {
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			return i, &ChainError{Line: i + 1, Reason: "invalid JSON: " + err.Error()}
		}

		if entry.Seq != prevSeq+1 {
			return i, &ChainError{Line: i + 1, Reason: fmt.Sprintf("sequence gap: expected %d, got %d", prevSeq+1, entry.Seq)}
		}

		if entry.PrevHash != expectedPrev {
			return i, &ChainError{Line: i + 1, Reason: fmt.Sprintf("prev_hash mismatch: expected %s, got %s", short(expectedPrev), short(entry.PrevHash))}
		}

		if computed := entry.digest(); entry.Hash != computed {
			return i, &ChainError{Line: i + 1, Reason: fmt.Sprintf("hash mismatch: expected %s, got %s", short(computed), short(entry.Hash))}
		}

		expectedPrev = entry.Hash
		prevSeq = entry.Seq
	}

	return len(lines), nil
}

// Tail returns the last n entries from the audit log, oldest first.
// Lines that fail to parse are skipped.
func Tail(path string, n int) ([]Entry, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	if n < 0 || n > len(lines) {
		n = len(lines)
	}

	entries := make([]Entry, 0, n)
	for _, line := range lines[len(lines)-n:] {
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func readLines(path string) ([][]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read audit log: %w", err)
	}
	return splitLines(data), nil
}

func short(hash string) string {
	if len(hash) <= 16 {
		return hash
	}
	return hash[:16] + "..."
}
