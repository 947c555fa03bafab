package main

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/NetNinja-stack/android-tools/pkg/auth"
	"github.com/NetNinja-stack/android-tools/pkg/config"
	"github.com/NetNinja-stack/android-tools/pkg/logger"
	"github.com/NetNinja-stack/android-tools/pkg/ratelimit"
	"github.com/NetNinja-stack/android-tools/pkg/scraper"
	"github.com/NetNinja-stack/android-tools/pkg/storage"
	"github.com/NetNinja-stack/android-tools/pkg/tiktok"
	"github.com/NetNinja-stack/android-tools/pkg/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Scrape command flags
	outputFile          string
	maxComments         int
	batchSize           int
	maxPages            int
	requestsPerMinute   int
	pageDelay           time.Duration
	itemPause           time.Duration
	requestTimeout      time.Duration
	credentialsDir      string
	keyringProfile      string
	includeRepliesInMax bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape [links-file]",
	Short: "Append the comments of every linked video to the output file",
	Long: `Read TikTok video links from a file (links.txt by default) and append the
comments and replies of each video to the output file (database.txt by default).

Links are processed one at a time. A link without a video id is skipped, a
network failure skips the link, and stale cookies (403) are reported while
the run carries on with the next link. The output file is only ever appended to.`,
	Example: `  # Use links.txt and database.txt in the current directory
  tkcomments scrape

  # Custom input and output
  tkcomments scrape my_links.txt --output ./out/comments.txt

  # Stop after 500 comments per video, replies included
  tkcomments scrape --max-comments 500 --include-replies-in-max

  # Slow down between pages and videos
  tkcomments scrape --page-delay 1.5s --item-pause 3s`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	addScrapeFlags(scrapeCmd.Flags())
	// Also add these flags to root command so scraping works without the subcommand
	addScrapeFlags(rootCmd.Flags())
}

func addScrapeFlags(flags *pflag.FlagSet) {
	defaults := config.DefaultConfig()

	flags.StringVarP(&outputFile, "output", "o", "", "file the comment blocks are appended to (default "+defaults.Output.File+")")
	flags.IntVar(&maxComments, "max-comments", defaults.Fetch.MaxComments, "stop a video after this many comments")
	flags.IntVar(&batchSize, "batch-size", defaults.Fetch.BatchSize, "comments requested per page (1-"+strconv.Itoa(config.MaxBatchSize)+")")
	flags.IntVar(&maxPages, "max-pages", defaults.Fetch.MaxPages, "stop a pagination loop after this many pages")
	flags.IntVar(&requestsPerMinute, "requests-per-min", defaults.RateLimit.RequestsPerMinute, "request ceiling per minute, 0 disables it")
	flags.DurationVar(&pageDelay, "page-delay", defaults.Fetch.PageDelay, "pause between pages")
	flags.DurationVar(&itemPause, "item-pause", defaults.Fetch.ItemPause, "pause between links")
	flags.DurationVar(&requestTimeout, "timeout", defaults.Fetch.RequestTimeout, "timeout of a single request")
	flags.StringVar(&credentialsDir, "credentials-dir", "", "directory holding cookies.json, cookies.txt, curl.txt and ua.txt")
	flags.StringVar(&keyringProfile, "profile", "", "keychain profile used by 'tkcomments auth set'")
	flags.BoolVar(&includeRepliesInMax, "include-replies-in-max", false, "count replies towards --max-comments")
}

// changedFlags collects only the flags the user actually set, so that
// environment and file values are not overridden by flag defaults
func changedFlags(cmd *cobra.Command, args []string) map[string]interface{} {
	flags := make(map[string]interface{})
	fs := cmd.Flags()

	if len(args) > 0 {
		flags["links-file"] = args[0]
	}
	if fs.Changed("output") {
		flags["output"] = outputFile
	}
	if fs.Changed("max-comments") {
		flags["max-comments"] = maxComments
	}
	if fs.Changed("batch-size") {
		flags["batch-size"] = batchSize
	}
	if fs.Changed("max-pages") {
		flags["max-pages"] = maxPages
	}
	if fs.Changed("requests-per-min") {
		flags["requests-per-minute"] = requestsPerMinute
	}
	if fs.Changed("page-delay") {
		flags["page-delay"] = pageDelay
	}
	if fs.Changed("item-pause") {
		flags["item-pause"] = itemPause
	}
	if fs.Changed("timeout") {
		flags["timeout"] = requestTimeout
	}
	if fs.Changed("credentials-dir") {
		flags["credentials-dir"] = credentialsDir
	}
	if fs.Changed("profile") {
		flags["keyring-profile"] = keyringProfile
	}
	if fs.Changed("include-replies-in-max") {
		flags["include-replies-in-max"] = includeRepliesInMax
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}

	return flags
}

func runScrape(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, changedFlags(cmd, args))
	if err != nil {
		exitWithError("Failed to load configuration", err)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		exitWithError("Failed to initialize logging", err)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("tkcomments starting")

	links, err := scraper.ReadLinks(cfg.Input.LinksFile)
	if err != nil {
		log.WithError(err).Error("Cannot read links")
		exitWithError("Cannot read links", err)
	}
	ui.PrintInfo("Links", strconv.Itoa(len(links)))
	ui.PrintInfo("Output", cfg.Output.File)

	creds, err := auth.DefaultResolver(cfg.Credentials.Dir, cfg.Credentials.KeyringProfile, log).Resolve()
	if err != nil {
		log.WithError(err).Error("No usable credentials")
		if errors.Is(err, auth.ErrCredentialsMissing) {
			auth.ShowQuickExtractGuide(os.Stderr)
		}
		exitWithError("No usable credentials", err)
	}
	ui.PrintInfo("Cookies", creds.CookieSource)
	if creds.DefaultUserAgent {
		ui.PrintWarning("Using the built-in User-Agent; put the browser's real one in ua.txt for fewer 403s")
	}

	session, err := tiktok.NewSession(creds, cfg.Fetch.RequestTimeout, log,
		tiktok.WithLimiter(ratelimit.NewRequestCeiling(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize)))
	if err != nil {
		exitWithError("Failed to create session", err)
	}
	fetcher := tiktok.NewFetcher(session, tiktok.OptionsFromConfig(cfg.Fetch), log)

	textLog, err := storage.NewTextLog(cfg.Output.File)
	if err != nil {
		exitWithError("Failed to prepare output file", err)
	}

	logger.LogComponentStart("scraper", map[string]interface{}{
		"links":        len(links),
		"output":       textLog.Path(),
		"max_comments": cfg.Fetch.MaxComments,
		"batch_size":   cfg.Fetch.BatchSize,
		"page_delay":   cfg.Fetch.PageDelay.String(),
		"item_pause":   cfg.Fetch.ItemPause.String(),
	})

	summary, err := scraper.New(fetcher, textLog, cfg.Fetch.ItemPause, log).Run(cmd.Context(), links)
	if err != nil {
		log.WithError(err).Warn("Run interrupted")
		exitWithError("Interrupted", err)
	}

	ui.PrintSuccess("\nDone")
	ui.PrintInfo("Links processed", strconv.Itoa(summary.Total))
	ui.PrintInfo("Blocks written", strconv.Itoa(summary.Written))
	ui.PrintInfo("Comments saved", strconv.Itoa(summary.Comments))
	if summary.Skipped > 0 {
		ui.PrintInfo("Skipped links", strconv.Itoa(summary.Skipped))
	}
	if summary.Failed > 0 {
		ui.PrintWarning("Failed links", summary.Failed)
	}
	if summary.Forbidden > 0 {
		ui.PrintWarning("Links answered with 403", summary.Forbidden)
	}
}
