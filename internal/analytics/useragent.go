package analytics

import "strings"

// Client is the device/browser/OS classification of a User-Agent header.
type Client struct {
	Device  string
	Browser string
	OS      string
}

// ClassifyUserAgent is a best-effort string-matching classifier over the
// User-Agent header. Unknown patterns fall back to "Other"/"Desktop". Not
// security-sensitive; the result feeds analytics aggregation only.
func ClassifyUserAgent(ua string) Client {
	lower := strings.ToLower(ua)

	return Client{
		Device:  classifyDevice(lower),
		Browser: classifyBrowser(lower),
		OS:      classifyOS(lower),
	}
}

func classifyDevice(ua string) string {
	switch {
	case strings.Contains(ua, "bot") || strings.Contains(ua, "spider") || strings.Contains(ua, "crawl"):
		return "Bot"
	case strings.Contains(ua, "ipad") || strings.Contains(ua, "tablet"):
		return "Tablet"
	case strings.Contains(ua, "mobile") || strings.Contains(ua, "iphone") || strings.Contains(ua, "android"):
		return "Mobile"
	default:
		return "Desktop"
	}
}

func classifyBrowser(ua string) string {
	// Order matters: Chrome UAs contain "safari", Edge UAs contain both.
	switch {
	case strings.Contains(ua, "edg/") || strings.Contains(ua, "edge"):
		return "Edge"
	case strings.Contains(ua, "opr/") || strings.Contains(ua, "opera"):
		return "Opera"
	case strings.Contains(ua, "firefox"):
		return "Firefox"
	case strings.Contains(ua, "chrome"):
		return "Chrome"
	case strings.Contains(ua, "safari"):
		return "Safari"
	default:
		return "Other"
	}
}

func classifyOS(ua string) string {
	switch {
	case strings.Contains(ua, "android"):
		return "Android"
	case strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad") || strings.Contains(ua, "ios"):
		return "iOS"
	case strings.Contains(ua, "windows"):
		return "Windows"
	case strings.Contains(ua, "mac os") || strings.Contains(ua, "macintosh"):
		return "macOS"
	case strings.Contains(ua, "linux"):
		return "Linux"
	default:
		return "Other"
	}
}
