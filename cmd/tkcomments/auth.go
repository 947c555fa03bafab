package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"syscall"

	"github.com/NetNinja-stack/android-tools/pkg/auth"
	"github.com/NetNinja-stack/android-tools/pkg/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authProfile string

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the TikTok session stored in the system keychain",
	Long: `Manage the TikTok cookies stored in the system keychain.

The keychain is the last place tkcomments looks for cookies; cookies.json,
cookies.txt, curl.txt and TKCOMMENTS_COOKIE all take precedence over it.

Never share your cookies or curl.txt!`,
}

// setCmd represents the auth set command
var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Store a cookie header in the system keychain",
	Long: `Store the Cookie header of a logged-in TikTok browser session.

You will be prompted for:
  - the Cookie header value (hidden as you type)
  - the browser's User-Agent (optional, press Enter to skip)

Run 'tkcomments auth guide' to see how to copy these from your browser.`,
	Example: `  # Store cookies for the default profile
  tkcomments auth set

  # Store cookies for a second account
  tkcomments auth set --profile work`,
	Args: cobra.NoArgs,
	Run:  runAuthSet,
}

// showCmd represents the auth show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored session with values masked",
	Args:  cobra.NoArgs,
	Run:   runAuthShow,
}

// clearCmd represents the auth clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored session",
	Args:  cobra.NoArgs,
	Run:   runAuthClear,
}

// guideCmd represents the auth guide command
var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Explain how to copy cookies from a browser",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		auth.ShowCookieExtractionGuide(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(setCmd)
	authCmd.AddCommand(showCmd)
	authCmd.AddCommand(clearCmd)
	authCmd.AddCommand(guideCmd)

	authCmd.PersistentFlags().StringVar(&authProfile, "profile", "default", "keychain profile name")
}

func runAuthSet(cmd *cobra.Command, args []string) {
	store := auth.NewKeyringStore(authProfile)
	reader := bufio.NewReader(os.Stdin)

	if existing, err := store.Load(); err == nil && existing != nil {
		fmt.Printf("\n⚠️  Profile '%s' already holds a session. Replace it? (y/N): ", store.Profile())
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	auth.ShowQuickExtractGuide(os.Stdout)
	fmt.Println("\n🔐 Paste the Cookie header value (it will be hidden as you type):")

	cookie, err := readPassword(reader)
	if err != nil {
		exitWithError("Failed to read cookies", err)
	}
	cookie = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(cookie), "Cookie:"))

	jar := auth.ParseCookieHeader(cookie)
	if len(jar) == 0 {
		exitWithError("That doesn't look like a Cookie header; expected name=value; name2=value2", nil)
	}
	if _, ok := jar["sessionid"]; !ok {
		ui.PrintWarning("No sessionid cookie found; TikTok may answer with 403")
	}

	fmt.Print("\nUser-Agent (optional, press Enter to skip): ")
	userAgent, _ := reader.ReadString('\n')

	session := &auth.StoredSession{
		Cookie:    auth.FormatCookieHeader(jar),
		UserAgent: strings.TrimSpace(userAgent),
	}
	if err := store.Save(session); err != nil {
		exitWithError("Failed to store session", err)
	}

	ui.PrintSuccess(fmt.Sprintf("\n✅ Stored %d cookies for profile '%s'", len(jar), store.Profile()))
}

func runAuthShow(cmd *cobra.Command, args []string) {
	store := auth.NewKeyringStore(authProfile)
	session, err := store.Load()
	if err != nil {
		if errors.Is(err, auth.ErrNoStoredSession) {
			ui.PrintWarning("No session stored for profile " + store.Profile())
			fmt.Println("\nRun 'tkcomments auth set' to store one.")
			return
		}
		exitWithError("Failed to read keychain", err)
	}

	masked := auth.SanitizeCookies(auth.ParseCookieHeader(session.Cookie))
	names := make([]string, 0, len(masked))
	for name := range masked {
		names = append(names, name)
	}
	sort.Strings(names)

	ui.PrintInfo("Profile", store.Profile())
	ui.PrintInfo("Saved", session.SavedAt.Format("2006-01-02 15:04:05"))
	for _, name := range names {
		ui.PrintInfo("  "+name, masked[name])
	}
	if session.UserAgent != "" {
		ui.PrintInfo("User-Agent", session.UserAgent)
	} else {
		ui.PrintInfo("User-Agent", "(not stored)")
	}
}

func runAuthClear(cmd *cobra.Command, args []string) {
	store := auth.NewKeyringStore(authProfile)
	if err := store.Delete(); err != nil {
		if errors.Is(err, auth.ErrNoStoredSession) {
			ui.PrintWarning("No session stored for profile " + store.Profile())
			return
		}
		exitWithError("Failed to clear session", err)
	}
	ui.PrintSuccess("✅ Removed session for profile " + store.Profile())
}

// readPassword reads a line from stdin without echoing when stdin is a terminal
func readPassword(reader *bufio.Reader) (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return string(password), nil
		}
	}

	// Fallback to regular input
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
