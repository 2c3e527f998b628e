package generation

import (
	"fmt"
	"html"
	"math/rand"
	"strings"

	"github.com/superleo/marketingops/backend/internal/playable"
)

// MockImages and MockVideos are the stock artifacts returned by mock models.
var (
	MockImages = []string{
		"https://images.unsplash.com/photo-1620641788421-7a1c342ea42e?w=1024&q=80",
		"https://images.unsplash.com/photo-1550745165-9bc0b252726f?w=1024&q=80",
		"https://images.unsplash.com/photo-1579783902614-a3fb3927b6a5?w=1024&q=80",
		"https://images.unsplash.com/photo-1618005182384-a83a8bd57fbe?w=1024&q=80",
	}
	MockVideos = []string{
		"https://storage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4",
		"https://storage.googleapis.com/gtv-videos-bucket/sample/ElephantsDream.mp4",
		"https://storage.googleapis.com/gtv-videos-bucket/sample/ForBiggerBlazes.mp4",
	}
)

const placeholderPlayableHTML = "<html><body style='background:black;color:white;display:flex;justify-content:center;align-items:center;'><h1>Playable Ad Placeholder</h1></body></html>"

const emptyPlayableHTML = "<h1>Error generating playable ad</h1>"

// Placeholder is the deterministic stand-in used when generation of kind fails.
func Placeholder(kind Kind) string {
	switch kind {
	case KindVideo:
		return MockVideos[0]
	case KindImage:
		return MockImages[0]
	default:
		return playable.DataURL(placeholderPlayableHTML)
	}
}

func randomOf(list []string) string {
	return list[rand.Intn(len(list))]
}

// mockPlayableHTML is a tap counter used when no provider is configured.
func mockPlayableHTML(prompt string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><title>Playable Ad</title>")
	b.WriteString("<style>body{margin:0;height:100vh;display:flex;flex-direction:column;align-items:center;justify-content:center;")
	b.WriteString("background:linear-gradient(135deg,#f59e0b,#ec4899);font-family:sans-serif;color:#fff}")
	b.WriteString("button{font-size:2rem;padding:1rem 2rem;border:0;border-radius:1rem;background:#111;color:#fff}</style></head><body>")
	fmt.Fprintf(&b, "<h2>%s</h2>", html.EscapeString(prompt))
	b.WriteString("<button id='tap'>Tap!</button><p id='score'>0</p>")
	b.WriteString("<script>let s=0;document.getElementById('tap').onclick=()=>{document.getElementById('score').textContent=++s;};</script>")
	b.WriteString("</body></html>")
	return b.String()
}
