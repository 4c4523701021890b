package ui

import (
	"sync"
	"time"
)

// LogBuffer is a bounded, timestamped log for the panel's status area.
type LogBuffer struct {
	lines    []string
	maxLines int
	mu       sync.RWMutex
}

// NewLogBuffer creates a log buffer holding at most maxLines lines.
func NewLogBuffer(maxLines int) *LogBuffer {
	return &LogBuffer{
		lines:    make([]string, 0, maxLines),
		maxLines: maxLines,
	}
}

// Append adds a timestamped line, dropping the oldest line when full.
func (lb *LogBuffer) Append(line string) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	stamped := "[" + time.Now().Format("15:04:05") + "] " + line
	if len(lb.lines) >= lb.maxLines {
		copy(lb.lines, lb.lines[1:])
		lb.lines = lb.lines[:len(lb.lines)-1]
	}
	lb.lines = append(lb.lines, stamped)
}

// GetAll returns a copy of all lines.
func (lb *LogBuffer) GetAll() []string {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	out := make([]string, len(lb.lines))
	copy(out, lb.lines)
	return out
}

// Len returns the number of lines.
func (lb *LogBuffer) Len() int {
	lb.mu.RLock()
	defer lb.mu.RUnlock()
	return len(lb.lines)
}
