package viewmodels

type UploadResult struct {
	URL          string `json:"url"`
	Recompressed bool   `json:"recompressed"`
}

type NormalizeRequest struct {
	URL string `json:"url"`
}

type NormalizePreview struct {
	Input      string `json:"input"`
	Normalized string `json:"normalized"`
	Changed    bool   `json:"changed"`
}

type LoginRequest struct {
	Password string `json:"password"`
}
