package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/NetNinja-stack/android-tools/pkg/models"
)

// TimestampFormat is the layout of the block header timestamp
const TimestampFormat = "2006-01-02 15:04:05"

// TextLog appends comment blocks to a single shared text file.
// It never truncates or rewrites what is already there.
type TextLog struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// NewTextLog creates the parent directory of path if needed
func NewTextLog(path string) (*TextLog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	return &TextLog{
		path: path,
		now:  time.Now,
	}, nil
}

// Path returns the file the log appends to
func (l *TextLog) Path() string {
	return l.path
}

// Append writes one block for link in a single write
func (l *TextLog) Append(link string, comments []models.Comment) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	block := FormatBlock(l.now(), link, comments)

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}

	if _, err := f.WriteString(block); err != nil {
		f.Close()
		return fmt.Errorf("failed to append comments: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	return nil
}

// FormatBlock renders the block written for one link:
//
//	=== Comments from 2024-01-02 15:04:05 ===
//	TikTok link: <link>
//	Comments found: <n>
//
//	— (@handle): text
//
// Newlines inside comment text are flattened to spaces.
func FormatBlock(at time.Time, link string, comments []models.Comment) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== Comments from %s ===\n", at.Format(TimestampFormat))
	fmt.Fprintf(&b, "TikTok link: %s\n", link)
	fmt.Fprintf(&b, "Comments found: %d\n\n", len(comments))

	for _, c := range comments {
		fmt.Fprintf(&b, "— (@%s): %s\n", c.Handle(), flatten(c.Text))
	}
	b.WriteString("\n")

	return b.String()
}

func flatten(text string) string {
	text = strings.ReplaceAll(text, "\r\n", " ")
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(text)
}
