package site

import "strings"

// DefaultFormat is the selector used when nothing else applies.
const DefaultFormat = "best"

// Rule maps a set of URL substrings to a format selector.
type Rule struct {
	Name string
	// Hosts are matched as plain substrings of the whole URL, not as parsed hostnames.
	Hosts []string
	// Select returns the selector for a matching URL given the user quality (may be empty).
	Select func(quality string) string
}

// Matches reports whether rawURL contains any of the rule's host substrings
func (r *Rule) Matches(rawURL string) bool {
	for _, host := range r.Hosts {
		if strings.Contains(rawURL, host) {
			return true
		}
	}
	return false
}

// rules are evaluated in order and every match re-assigns the selector,
// so a later rule wins over an earlier one.
var rules = []*Rule{
	youtubeRule,
	bilibiliRule,
}

// SelectFormat derives the yt-dlp format selector for a URL
func SelectFormat(rawURL, quality string) string {
	format := quality
	if format == "" {
		format = DefaultFormat
	}

	for _, r := range rules {
		if r.Matches(rawURL) {
			format = r.Select(quality)
		}
	}
	return format
}

// Match returns the rule that decides the selector for rawURL, or nil
func Match(rawURL string) *Rule {
	var matched *Rule
	for _, r := range rules {
		if r.Matches(rawURL) {
			matched = r
		}
	}
	return matched
}

// List returns all registered rules in evaluation order
func List() []*Rule {
	out := make([]*Rule, len(rules))
	copy(out, rules)
	return out
}
