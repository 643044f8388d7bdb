package site

// BilibiliFormat falls back to the best single file when separate streams
// are unavailable, which avoids picking member-only formats.
const BilibiliFormat = "bestvideo+bestaudio/best"

var bilibiliRule = &Rule{
	Name:  "bilibili",
	Hosts: []string{"bilibili.com", "b23.tv"},
	Select: func(quality string) string {
		if quality != "" {
			return quality
		}
		return BilibiliFormat
	},
}
