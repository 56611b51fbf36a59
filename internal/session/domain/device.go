package domain

import "strings"

// ParseUserAgent classifies a raw User-Agent string into a DeviceInfo.
// Matching is best-effort substring inspection; anything unrecognized
// falls back to "unknown" browser/OS and a "desktop" device type.
func ParseUserAgent(ua string) DeviceInfo {
	info := DeviceInfo{Browser: "unknown", OS: "unknown", DeviceType: "desktop"}
	if ua == "" {
		return info
	}
	lower := strings.ToLower(ua)

	switch {
	case strings.Contains(lower, "edg/"), strings.Contains(lower, "edge"):
		info.Browser = "edge"
	case strings.Contains(lower, "opr/"), strings.Contains(lower, "opera"):
		info.Browser = "opera"
	case strings.Contains(lower, "firefox"):
		info.Browser = "firefox"
	case strings.Contains(lower, "chrome"):
		info.Browser = "chrome"
	case strings.Contains(lower, "safari"):
		info.Browser = "safari"
	case strings.Contains(lower, "curl"):
		info.Browser = "curl"
	}

	switch {
	case strings.Contains(lower, "android"):
		info.OS = "android"
	case strings.Contains(lower, "iphone"), strings.Contains(lower, "ipad"), strings.Contains(lower, "ios"):
		info.OS = "ios"
	case strings.Contains(lower, "windows"):
		info.OS = "windows"
	case strings.Contains(lower, "mac os"), strings.Contains(lower, "macintosh"):
		info.OS = "macos"
	case strings.Contains(lower, "linux"):
		info.OS = "linux"
	}

	switch {
	case strings.Contains(lower, "ipad"), strings.Contains(lower, "tablet"):
		info.DeviceType = "tablet"
	case strings.Contains(lower, "mobile"), strings.Contains(lower, "iphone"), strings.Contains(lower, "android"):
		info.DeviceType = "mobile"
	}
	return info
}
