package site

// YouTubeFormat prefers MP4 video with M4A audio, then any MP4, then anything.
const YouTubeFormat = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"

// youtubeRule ignores a user-supplied quality and always uses YouTubeFormat.
var youtubeRule = &Rule{
	Name:  "youtube",
	Hosts: []string{"youtube.com", "youtu.be"},
	Select: func(string) string {
		return YouTubeFormat
	},
}
