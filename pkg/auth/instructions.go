package auth

import (
	"fmt"
	"io"
	"strings"
)

// ShowCookieExtractionGuide writes step-by-step instructions for exporting a TikTok session
func ShowCookieExtractionGuide(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintln(w, "📚 TIKTOK COOKIE EXPORT GUIDE")
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "This tool replays TikTok's web comment API with your browser session.")
	fmt.Fprintln(w, "Export it once from a logged-in browser:")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "🌐 STEP 1: Open any video on https://www.tiktok.com while logged in")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "🔧 STEP 2: Open Developer Tools (F12) and go to the Network tab")
	fmt.Fprintln(w, "   - Filter by 'comment/list' and scroll the comments so a request appears")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "🍪 STEP 3: Save the session in ONE of these forms next to links.txt:")
	fmt.Fprintln(w, "   • curl.txt     right-click the request → Copy → Copy as cURL, paste it")
	fmt.Fprintln(w, "   • cookies.txt  the raw 'Cookie:' request header value")
	fmt.Fprintln(w, "   • cookies.json a cookie export: {\"name\": \"value\"} or [{\"name\": ..., \"value\": ...}]")
	fmt.Fprintln(w, "   • or run 'tkcomments auth set' to keep it in the system keychain")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "🧭 STEP 4: Save the same browser's User-Agent in ua.txt")
	fmt.Fprintln(w, "   (curl.txt already carries it)")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "💡 TIPS:")
	fmt.Fprintln(w, "   • 403 responses or zero comments usually mean the cookies went stale")
	fmt.Fprintln(w, "   • Always pair cookies with the User-Agent they were issued to")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "⚠️  SECURITY WARNING:")
	fmt.Fprintln(w, "   • These cookies give FULL access to your TikTok account")
	fmt.Fprintln(w, "   • NEVER share them with anyone")
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintln(w)
}

// ShowQuickExtractGuide writes a condensed version for experienced users
func ShowQuickExtractGuide(w io.Writer) {
	fmt.Fprintln(w, "\n🍪 Quick Guide: F12 → Network → filter 'comment/list' → Copy as cURL → save as curl.txt")
	fmt.Fprintln(w, "   Run 'tkcomments auth guide' for detailed instructions")
}
