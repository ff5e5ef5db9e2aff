package cdn

type FetchedFile struct {
	Name        string
	Data        []byte
	ContentType string
	SizeBytes   int64
}

type UploadResult struct {
	Success   bool   `json:"success"`
	URL       string `json:"url"`
	FileName  string `json:"fileName"`
	SizeBytes int64  `json:"size"`
}

type FileStat struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

type StatsReport struct {
	Total     int        `json:"total"`
	TotalSize int64      `json:"totalSize"`
	Files     []FileStat `json:"files"`
}
