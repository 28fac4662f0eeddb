package dto

// FormatInfo is one entry of the /debug-formats response.
type FormatInfo struct {
	FormatID   string  `json:"format_id"`
	Ext        string  `json:"ext"`
	Resolution string  `json:"resolution"`
	VCodec     string  `json:"vcodec"`
	ACodec     string  `json:"acodec"`
	Filesize   int64   `json:"filesize"`
	TBR        float64 `json:"tbr"`
}

type FormatsResponse struct {
	Formats []FormatInfo `json:"formats"`
}
