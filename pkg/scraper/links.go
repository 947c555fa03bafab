package scraper

import (
	"bufio"
	"os"
	"strings"

	apperrors "github.com/NetNinja-stack/android-tools/pkg/errors"
)

// ReadLinks returns the trimmed, non-blank lines of path in file order
func ReadLinks(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.New(apperrors.ErrorTypeInput,
				"links file "+path+" not found; create it with one TikTok URL per line")
		}
		return nil, apperrors.Wrap(apperrors.ErrorTypeInput, err, "failed to open links file")
	}
	defer f.Close()

	var links []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			links = append(links, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrorTypeInput, err, "failed to read links file")
	}

	if len(links) == 0 {
		return nil, apperrors.New(apperrors.ErrorTypeInput, "links file "+path+" is empty")
	}
	return links, nil
}
