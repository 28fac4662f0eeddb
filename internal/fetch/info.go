package fetch

// Info is the subset of yt-dlp's JSON metadata the service uses.
type Info struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Uploader    string   `json:"uploader"`
	Ext         string   `json:"ext"`
	Duration    float64  `json:"duration"`
	WebpageURL  string   `json:"webpage_url"`
	Formats     []Format `json:"formats"`
}

// Format is a single entry from the extractor's format list.
type Format struct {
	FormatID   string  `json:"format_id"`
	Ext        string  `json:"ext"`
	Resolution string  `json:"resolution"`
	Height     int     `json:"height"`
	Width      int     `json:"width"`
	VCodec     string  `json:"vcodec"`
	ACodec     string  `json:"acodec"`
	Filesize   int64   `json:"filesize"`
	TBR        float64 `json:"tbr"`
}

// DisplayName picks the caller-facing filename base for a video: the
// description when present, then the title, then a generated fallback.
// Short-form posts often carry the useful text in the caption rather
// than the title.
func (i *Info) DisplayName() string {
	if i.Description != "" {
		return i.Description
	}
	if i.Title != "" {
		return i.Title
	}
	return "video_" + i.ID
}
