package media

// UploadInput is a file received by the upload endpoint
type UploadInput struct {
	Folder   string
	Filename string
	Data     []byte
}

// UploadResult describes a stored file
type UploadResult struct {
	URL          string `json:"url"`
	Key          string `json:"key"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	ContentType  string `json:"contentType"`
	Size         int64  `json:"size"`
}
