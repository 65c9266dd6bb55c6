package constants

import (
	"path"
	"strings"
)

// MimeTypes maps file extensions to their corresponding MIME types
var MimeTypes = map[string]string{
	// Image formats
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".jfif": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".svg":  "image/svg+xml",

	// Video formats
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".webm": "video/webm",
	".3gp":  "video/3gpp",
	".mkv":  "video/x-matroska",

	// Document formats
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".html": "text/html",
	".json": "application/json",
	".zip":  "application/zip",
	".rtf":  "application/rtf",
	".vcf":  "text/vcard",

	// Audio formats
	".ogg":  "audio/ogg",
	".opus": "audio/ogg",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".aac":  "audio/aac",
	".m4a":  "audio/mp4",
	".amr":  "audio/amr",
}

// DefaultMimeType is the fallback MIME type for unknown file extensions
const DefaultMimeType = "application/octet-stream"

// MimeTypeFromPath infers a MIME type from the extension of a file path or
// URL path. It returns "" when the extension is missing or unknown.
func MimeTypeFromPath(p string) string {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(p, "\\", "/")))
	return MimeTypes[ext]
}

// MimeCategory returns the top-level type of a MIME type ("image" for
// "image/png").
func MimeCategory(mimetype string) string {
	category, _, _ := strings.Cut(mimetype, "/")
	return strings.ToLower(strings.TrimSpace(category))
}

// MimeTypeToExtension maps MIME types to their primary file extensions
var MimeTypeToExtension = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
	"video/webm":      ".webm",
	"audio/ogg":       ".ogg",
	"audio/mpeg":      ".mp3",
	"application/pdf": ".pdf",
}

// ExtensionFor returns the file extension for a MIME type, ignoring any
// parameters, or ".bin" when unknown.
func ExtensionFor(mimetype string) string {
	base, _, _ := strings.Cut(mimetype, ";")
	if ext, ok := MimeTypeToExtension[strings.TrimSpace(strings.ToLower(base))]; ok {
		return ext
	}
	return ".bin"
}

// MaxDownloadBytes returns the download cap for a media class. Unknown or
// empty types get the document cap.
func MaxDownloadBytes(mimetype string) int64 {
	const mb = 1024 * 1024
	switch MimeCategory(mimetype) {
	case "image":
		return MaxImageDownloadMB * mb
	case "audio":
		return MaxAudioDownloadMB * mb
	case "video":
		return MaxVideoDownloadMB * mb
	default:
		return MaxDocumentDownloadMB * mb
	}
}
