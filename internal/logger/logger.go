// Package logger writes the JSONL audit trail of validations and scans.
// Secrets never reach the file: commands and error text pass through a
// Redactor, and findings serialize only their redacted form.
package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/gzhole/termshield/internal/analyzer"
	"github.com/gzhole/termshield/internal/secrets"
)

// defaultMaxLogBytes is the size at which the log is rotated to <path>.1.
const defaultMaxLogBytes = 10 << 20

const (
	KindValidate = "validate"
	KindScan     = "scan"
)

type AuditEvent struct {
	ID        string                   `json:"id"`
	Timestamp string                   `json:"timestamp"`
	Kind      string                   `json:"kind"`
	Command   string                   `json:"command,omitempty"`
	Source    string                   `json:"source,omitempty"`
	RiskLevel string                   `json:"risk_level,omitempty"`
	Blocked   bool                     `json:"blocked,omitempty"`
	Matches   []string                 `json:"matches,omitempty"`
	Warnings  []string                 `json:"warnings,omitempty"`
	Errors    []string                 `json:"errors,omitempty"`
	Findings  []secrets.DetectedSecret `json:"findings,omitempty"`
	Error     string                   `json:"error,omitempty"`
}

// ValidationEvent records one classifier verdict.
func ValidationEvent(command string, result analyzer.Result) AuditEvent {
	ids := make([]string, len(result.Matches))
	for i, m := range result.Matches {
		ids[i] = m.ID
	}
	return AuditEvent{
		Kind:      KindValidate,
		Command:   command,
		RiskLevel: result.RiskLevel.String(),
		Blocked:   result.Blocked(),
		Matches:   ids,
		Warnings:  result.Warnings,
		Errors:    result.Errors,
	}
}

// ScanEvent records the findings of one scan of text from source
// ("stdin", "clipboard", a file name).
func ScanEvent(source string, findings []secrets.DetectedSecret) AuditEvent {
	return AuditEvent{
		Kind:     KindScan,
		Source:   source,
		Findings: findings,
	}
}

// Redactor masks secrets in free text.
type Redactor interface {
	RedactText(text string) (string, []secrets.DetectedSecret)
}

type AuditLogger struct {
	path     string
	file     *os.File
	size     int64
	maxBytes int64
	redactor Redactor
	mu       sync.Mutex
}

// New opens (or creates, mode 0600) the log at path. r may be nil, in
// which case text is written as given.
func New(path string, r Redactor) (*AuditLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	l := &AuditLogger{path: path, maxBytes: defaultMaxLogBytes, redactor: r}
	if err := l.open(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *AuditLogger) open() error {
	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("opening audit log: %w", err)
	}
	l.file = file
	l.size = info.Size()
	return nil
}

// Log appends event as one JSON line, filling in ID and Timestamp.
func (l *AuditLogger) Log(event AuditEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if event.ID == "" {
		event.ID = ulid.Make().String()
	}
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}
	event.Command = l.redact(event.Command)
	event.Error = l.redact(event.Error)

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if l.size > 0 && l.size+int64(len(data)) > l.maxBytes {
		if err := l.rotate(); err != nil {
			return err
		}
	}

	n, err := l.file.Write(data)
	l.size += int64(n)
	return err
}

func (l *AuditLogger) redact(text string) string {
	if text == "" || l.redactor == nil {
		return text
	}
	out, _ := l.redactor.RedactText(text)
	return out
}

func (l *AuditLogger) rotate() error {
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("rotating audit log: %w", err)
	}
	if err := os.Rename(l.path, l.path+".1"); err != nil {
		return fmt.Errorf("rotating audit log: %w", err)
	}
	return l.open()
}

func (l *AuditLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}
