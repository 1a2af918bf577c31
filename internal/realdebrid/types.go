package realdebrid

// StatusDownloaded is the only torrent status eligible for the library.
const StatusDownloaded = "downloaded"

// Torrent is one entry of the paginated torrent list.
type Torrent struct {
	ID       string   `json:"id"`
	Filename string   `json:"filename"`
	Status   string   `json:"status"`
	Bytes    int64    `json:"bytes"`
	Added    string   `json:"added"`
	Links    []string `json:"links"`
}

// Downloaded reports whether the torrent finished and can be streamed.
func (t Torrent) Downloaded() bool {
	return t.Status == StatusDownloaded
}

// TorrentInfo is the per-torrent detail payload.
type TorrentInfo struct {
	ID       string   `json:"id"`
	Filename string   `json:"filename"`
	Status   string   `json:"status"`
	Bytes    int64    `json:"bytes"`
	Files    []File   `json:"files"`
	Links    []string `json:"links"`
}

// File is a single file inside a torrent.
type File struct {
	ID       int    `json:"id"`
	Path     string `json:"path"`
	Bytes    int64  `json:"bytes"`
	Selected int    `json:"selected"` // 1 when chosen for download
}

// IsSelected reports whether the file was chosen for download.
func (f File) IsSelected() bool {
	return f.Selected == 1
}

// UnrestrictedLink is a hoster link resolved to a direct download URL.
type UnrestrictedLink struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Filesize int64  `json:"filesize"`
	Download string `json:"download"`
	MimeType string `json:"mimeType"`
}
