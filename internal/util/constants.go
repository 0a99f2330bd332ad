package util

const TimeFormat = "2006-01-02 15:04:05"

const (
	StorageBackend = "backend"
	StorageLocal   = "local"
	StorageMinio   = "minio"
	StorageOSS     = "oss"
)

// 控制台持久化的两个键
const (
	KeyAdminToken = "admin_token"
	KeyAdminUser  = "admin_user"
)

const MimeAudio = "audio/"

var (
	AllowedAudioExtensions = []string{".mp3", ".wav", ".ogg", ".m4a", ".aac", ".flac", ".webm"}
)
