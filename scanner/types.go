package scanner

// FileInfo identifies one discovered input file.
type FileInfo struct {
	Path string `json:"path"` // relative to the target root, slash-separated
	Abs  string `json:"-"`
	Size int64  `json:"size"`
}
