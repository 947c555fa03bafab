package ui

import (
	"fmt"
	"strings"
	"time"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
)

// StatusTracker keeps track of progress through the links of one run
type StatusTracker struct {
	TotalLinks     int
	ProcessedLinks int
	Comments       int
	StartTime      time.Time
}

// NewStatusTracker creates a new status tracker for totalLinks links
func NewStatusTracker(totalLinks int) *StatusTracker {
	return &StatusTracker{
		TotalLinks: totalLinks,
		StartTime:  time.Now(),
	}
}

// LinkDone records one processed link and the comments it produced
func (st *StatusTracker) LinkDone(comments int) {
	st.ProcessedLinks++
	st.Comments += comments
}

// GetLinkProgress returns a formatted progress bar over all links
func (st *StatusTracker) GetLinkProgress() string {
	const width = 20
	filled := 0
	if st.TotalLinks > 0 {
		filled = st.ProcessedLinks * width / st.TotalLinks
	}
	if filled > width {
		filled = width
	}

	bar := strings.Repeat(ProgressBar, filled) +
		strings.Repeat(ProgressEmpty, width-filled)

	return fmt.Sprintf("[%s] %d/%d", bar, st.ProcessedLinks, st.TotalLinks)
}

// GetElapsedTime returns the elapsed time since tracking started
func (st *StatusTracker) GetElapsedTime() time.Duration {
	return time.Since(st.StartTime)
}

// GetCommentRate returns the average number of comments collected per minute
func (st *StatusTracker) GetCommentRate() float64 {
	elapsed := st.GetElapsedTime().Minutes()
	if elapsed == 0 {
		return 0
	}
	return float64(st.Comments) / elapsed
}

// PrintProgress prints the current progress status
func (st *StatusTracker) PrintProgress() {
	write(false, "%s %s | Comments: %d\n",
		Green("[PROGRESS]"),
		st.GetLinkProgress(),
		st.Comments)
}
