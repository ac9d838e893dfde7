// Package useragent buckets raw User-Agent strings into coarse device and
// browser categories for click analytics.
package useragent

import "strings"

// Device categories.
const (
	DeviceDesktop = "Desktop"
	DeviceMobile  = "Mobile"
	DeviceTablet  = "Tablet"
	DeviceUnknown = "Unknown"
)

// Browser categories.
const (
	BrowserChrome  = "Chrome"
	BrowserFirefox = "Firefox"
	BrowserSafari  = "Safari"
	BrowserEdge    = "Edge"
	BrowserOpera   = "Opera"
	BrowserUnknown = "Unknown"
)

// Agent is the classification result for one User-Agent string.
type Agent struct {
	Device  string
	Browser string
}

type rule struct {
	name  string
	match func(ua string) bool
}

// Rules are evaluated in order and the first match wins. "ipad" appears in
// both device lists, so an iPad UA lands on Mobile.
var deviceRules = []rule{
	{DeviceMobile, containsAny("mobile", "android", "iphone", "ipad", "ipod", "blackberry", "iemobile", "opera mini")},
	{DeviceTablet, containsAny("tablet", "ipad", "playbook", "silk")},
}

var browserRules = []rule{
	{BrowserChrome, func(ua string) bool { return strings.Contains(ua, "chrome") && !strings.Contains(ua, "edg") }},
	{BrowserFirefox, containsAny("firefox")},
	{BrowserSafari, func(ua string) bool { return strings.Contains(ua, "safari") && !strings.Contains(ua, "chrome") }},
	{BrowserEdge, containsAny("edg")},
	{BrowserOpera, containsAny("opera", "opr")},
}

// Classify maps a raw User-Agent header to its device and browser category.
// An empty string yields Unknown for both.
func Classify(userAgent string) Agent {
	if userAgent == "" {
		return Agent{Device: DeviceUnknown, Browser: BrowserUnknown}
	}

	ua := strings.ToLower(userAgent)
	return Agent{
		Device:  firstMatch(deviceRules, ua, DeviceDesktop),
		Browser: firstMatch(browserRules, ua, BrowserUnknown),
	}
}

func firstMatch(rules []rule, ua, fallback string) string {
	for _, r := range rules {
		if r.match(ua) {
			return r.name
		}
	}
	return fallback
}

func containsAny(tokens ...string) func(string) bool {
	return func(ua string) bool {
		for _, t := range tokens {
			if strings.Contains(ua, t) {
				return true
			}
		}
		return false
	}
}
