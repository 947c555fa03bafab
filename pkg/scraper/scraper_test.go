package scraper

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/NetNinja-stack/android-tools/internal/tiktoktest"
	"github.com/NetNinja-stack/android-tools/pkg/auth"
	apperrors "github.com/NetNinja-stack/android-tools/pkg/errors"
	"github.com/NetNinja-stack/android-tools/pkg/logger"
	"github.com/NetNinja-stack/android-tools/pkg/models"
	"github.com/NetNinja-stack/android-tools/pkg/storage"
	"github.com/NetNinja-stack/android-tools/pkg/tiktok"
	"github.com/NetNinja-stack/android-tools/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	linkA = "https://www.tiktok.com/@alice/video/7301234567890123456"
	linkB = "https://www.tiktok.com/@bob/video/7309999999999999999"
)

type fetchResponse struct {
	result *tiktok.Result
	err    error
}

// fakeFetcher returns canned results keyed by video id
type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string]fetchResponse
	calls     []string
	referers  []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{responses: make(map[string]fetchResponse)}
}

func (f *fakeFetcher) set(videoID string, result *tiktok.Result, err error) {
	f.responses[videoID] = fetchResponse{result: result, err: err}
}

func (f *fakeFetcher) FetchComments(ctx context.Context, videoID, referer string) (*tiktok.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, videoID)
	f.referers = append(f.referers, referer)

	resp, ok := f.responses[videoID]
	if !ok {
		return &tiktok.Result{VideoID: videoID, Stop: tiktok.StopEmptyPage}, nil
	}
	return resp.result, resp.err
}

type appended struct {
	link     string
	comments []models.Comment
}

// fakeSink records every Append call
type fakeSink struct {
	blocks []appended
	err    error
}

func (s *fakeSink) Append(link string, comments []models.Comment) error {
	if s.err != nil {
		return s.err
	}
	s.blocks = append(s.blocks, appended{link: link, comments: comments})
	return nil
}

func silenceUI(t *testing.T) {
	t.Helper()
	ui.SetOutput(io.Discard)
	t.Cleanup(func() { ui.SetOutput(nil) })
}

func resultWith(videoID string, n int, stop tiktok.StopReason) *tiktok.Result {
	res := &tiktok.Result{VideoID: videoID, Stop: stop}
	for i := 0; i < n; i++ {
		res.Comments = append(res.Comments, models.Comment{ID: videoID + string(rune('a'+i)), Text: "hi"})
	}
	res.TopLevel = n
	return res
}

func TestReadLinks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "links.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n  "+linkA+"  \n\n\t\n"+linkB+"\r\n"), 0644))

	links, err := ReadLinks(path)
	require.NoError(t, err)
	assert.Equal(t, []string{linkA, linkB}, links)
}

func TestReadLinksMissingOrEmpty(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadLinks(filepath.Join(dir, "nope.txt"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInput))
	assert.True(t, apperrors.IsFatal(err))

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("\n   \n\t\n"), 0644))
	_, err = ReadLinks(empty)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInput))
	assert.Contains(t, err.Error(), "empty")
}

func TestRunWritesOneBlockPerFetchedLink(t *testing.T) {
	silenceUI(t)
	fetcher := newFakeFetcher()
	fetcher.set("7301234567890123456", resultWith("7301234567890123456", 3, tiktok.StopEndOfPages), nil)
	fetcher.set("7309999999999999999", resultWith("7309999999999999999", 1, tiktok.StopMaxComments), nil)
	sink := &fakeSink{}

	summary, err := New(fetcher, sink, 0, logger.NewNopLogger()).Run(context.Background(), []string{linkA, linkB})
	require.NoError(t, err)

	assert.Equal(t, Summary{Total: 2, Written: 2, Comments: 4}, summary)
	require.Len(t, sink.blocks, 2)
	assert.Equal(t, linkA, sink.blocks[0].link)
	assert.Len(t, sink.blocks[0].comments, 3)
	assert.Equal(t, linkB, sink.blocks[1].link)
	assert.Equal(t, []string{linkA, linkB}, fetcher.referers)
}

func TestRunSkipsLinksWithoutVideoID(t *testing.T) {
	silenceUI(t)
	fetcher := newFakeFetcher()
	sink := &fakeSink{}
	log := logger.NewTestLogger()

	links := []string{"https://www.tiktok.com/@alice", "not a link", linkA}
	summary, err := New(fetcher, sink, 0, log).Run(context.Background(), links)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 1, summary.Written)
	assert.Equal(t, []string{"7301234567890123456"}, fetcher.calls)
	require.Len(t, sink.blocks, 1)
	assert.Equal(t, linkA, sink.blocks[0].link)
	assert.True(t, log.HasMessage("Link has no video id"))
}

func TestRunNetworkErrorSkipsWrite(t *testing.T) {
	silenceUI(t)
	fetcher := newFakeFetcher()
	fetcher.set("7301234567890123456", resultWith("7301234567890123456", 2, ""),
		apperrors.Wrap(apperrors.ErrorTypeNetwork, errors.New("connection reset"), "request failed"))
	fetcher.set("7309999999999999999", resultWith("7309999999999999999", 1, tiktok.StopEndOfPages), nil)
	sink := &fakeSink{}

	summary, err := New(fetcher, sink, 0, logger.NewNopLogger()).Run(context.Background(), []string{linkA, linkB})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Written)
	require.Len(t, sink.blocks, 1)
	assert.Equal(t, linkB, sink.blocks[0].link)
}

func TestRunForbiddenStillWrites(t *testing.T) {
	silenceUI(t)
	fetcher := newFakeFetcher()
	fetcher.set("7301234567890123456", resultWith("7301234567890123456", 0, tiktok.StopForbidden), nil)
	sink := &fakeSink{}

	summary, err := New(fetcher, sink, 0, logger.NewNopLogger()).Run(context.Background(), []string{linkA})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Forbidden)
	assert.Equal(t, 1, summary.Written)
	require.Len(t, sink.blocks, 1)
	assert.Empty(t, sink.blocks[0].comments)
}

func TestRunWriteFailureContinues(t *testing.T) {
	silenceUI(t)
	fetcher := newFakeFetcher()
	sink := &fakeSink{err: errors.New("disk full")}
	log := logger.NewTestLogger()

	summary, err := New(fetcher, sink, 0, log).Run(context.Background(), []string{linkA, linkB})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Failed)
	assert.Zero(t, summary.Written)
	assert.Len(t, fetcher.calls, 2)
	assert.True(t, log.HasError())
}

func TestRunPausesBetweenFetchedLinks(t *testing.T) {
	silenceUI(t)
	fetcher := newFakeFetcher()
	sink := &fakeSink{}
	pause := 40 * time.Millisecond

	start := time.Now()
	_, err := New(fetcher, sink, pause, logger.NewNopLogger()).Run(context.Background(), []string{linkA, "bad", linkB})
	require.NoError(t, err)
	elapsed := time.Since(start)

	// one pause after linkA; none after the invalid link or the last link
	assert.GreaterOrEqual(t, elapsed, pause)
	assert.Less(t, elapsed, 3*pause)
}

func TestRunStopsOnCancellation(t *testing.T) {
	silenceUI(t)
	fetcher := newFakeFetcher()
	sink := &fakeSink{}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	summary, err := New(fetcher, sink, time.Minute, logger.NewNopLogger()).Run(ctx, []string{linkA, linkB})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, summary.Written)
	assert.Len(t, sink.blocks, 1)
}

func TestRunAgainstMockAPI(t *testing.T) {
	silenceUI(t)
	srv := tiktoktest.NewServer()
	defer srv.Close()

	first := tiktoktest.Comments("a", 3)
	first[1].ReplyTotal = 2
	srv.SetComments("7301234567890123456", first, tiktoktest.Comments("b", 2))
	srv.SetReplies(first[1].ID, tiktoktest.Comments("r", 2))
	srv.SetCommentFault("7309999999999999999", 1, tiktoktest.Fault{Status: 403})

	creds := &auth.Credentials{Cookies: map[string]string{"sessionid": "abc"}, UserAgent: "TestAgent/1.0"}
	session, err := tiktok.NewSession(creds, 5*time.Second, logger.NewNopLogger(), tiktok.WithBaseURL(srv.URL()))
	require.NoError(t, err)
	fetcher := tiktok.NewFetcher(session, tiktok.FetchOptions{MaxComments: 100, PageSize: 20}, logger.NewNopLogger())

	out := filepath.Join(t.TempDir(), "database.txt")
	textLog, err := storage.NewTextLog(out)
	require.NoError(t, err)

	summary, err := New(fetcher, textLog, 0, logger.NewNopLogger()).Run(context.Background(), []string{linkA, linkB})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Written)
	assert.Equal(t, 1, summary.Forbidden)
	assert.Equal(t, 7, summary.Comments)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	content := string(data)
	assert.Equal(t, 2, strings.Count(content, "=== Comments from "))
	assert.Contains(t, content, "TikTok link: "+linkA+"\nComments found: 7\n")
	assert.Contains(t, content, "TikTok link: "+linkB+"\nComments found: 0\n")
	assert.Contains(t, content, "(@user_r1): comment r1\n")
}
