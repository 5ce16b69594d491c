package handlers

import "net/http"

// Track is an entry in the built-in ambient audio catalog. The catalog
// is static; clients stream the audio themselves.
type Track struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Duration string `json:"duration"`
	URL      string `json:"url"`
	Icon     string `json:"icon"`
}

var trackCatalog = []Track{
	{ID: 1, Title: "Peaceful Piano", Artist: "Focus Studio", Duration: "3:45", URL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3", Icon: "🎹"},
	{ID: 2, Title: "Rain on Window", Artist: "Nature Sounds", Duration: "5:20", URL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-2.mp3", Icon: "🌧️"},
	{ID: 3, Title: "Forest Ambience", Artist: "Deep Green", Duration: "4:15", URL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-3.mp3", Icon: "🌲"},
	{ID: 4, Title: "Lofi Study Beats", Artist: "Zen Beats", Duration: "2:50", URL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-4.mp3", Icon: "🎧"},
}

type TracksHandler struct{}

func NewTracksHandler() *TracksHandler {
	return &TracksHandler{}
}

func (h *TracksHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"tracks": trackCatalog})
}
