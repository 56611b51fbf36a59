package domain

import (
	"testing"
	"time"
)

func TestParseUserAgent(t *testing.T) {
	cases := []struct {
		name string
		ua   string
		want DeviceInfo
	}{
		{
			name: "chrome on windows",
			ua:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			want: DeviceInfo{Browser: "chrome", OS: "windows", DeviceType: "desktop"},
		},
		{
			name: "edge is not chrome",
			ua:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
			want: DeviceInfo{Browser: "edge", OS: "windows", DeviceType: "desktop"},
		},
		{
			name: "safari on iphone",
			ua:   "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			want: DeviceInfo{Browser: "safari", OS: "ios", DeviceType: "mobile"},
		},
		{
			name: "firefox on linux",
			ua:   "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
			want: DeviceInfo{Browser: "firefox", OS: "linux", DeviceType: "desktop"},
		},
		{
			name: "chrome on android phone",
			ua:   "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
			want: DeviceInfo{Browser: "chrome", OS: "android", DeviceType: "mobile"},
		},
		{
			name: "ipad is a tablet",
			ua:   "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/604.1",
			want: DeviceInfo{Browser: "safari", OS: "ios", DeviceType: "tablet"},
		},
		{
			name: "curl",
			ua:   "curl/8.4.0",
			want: DeviceInfo{Browser: "curl", OS: "unknown", DeviceType: "desktop"},
		},
		{
			name: "empty",
			ua:   "",
			want: DeviceInfo{Browser: "unknown", OS: "unknown", DeviceType: "desktop"},
		},
		{
			name: "garbage",
			ua:   "xxxxxxxx",
			want: DeviceInfo{Browser: "unknown", OS: "unknown", DeviceType: "desktop"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseUserAgent(tc.ua)
			if got != tc.want {
				t.Errorf("ParseUserAgent(%q) = %+v, want %+v", tc.ua, got, tc.want)
			}
		})
	}
}

func TestSessionValid(t *testing.T) {
	now := time.Now().UTC()
	s := &Session{Status: StatusActive, ExpiresAt: now.Add(time.Minute)}
	if !s.Valid(now) {
		t.Error("active session before deadline should be valid")
	}
	if s.Valid(now.Add(2 * time.Minute)) {
		t.Error("session past deadline should not be valid")
	}
	s.Status = StatusRevoked
	if s.Valid(now) {
		t.Error("revoked session should not be valid")
	}
}
