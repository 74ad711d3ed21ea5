package main

import (
	"path/filepath"
	"strings"
)

const defaultContentType = "text/plain"

var contentTypes = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".html": "text/html",
	".htm":  "text/html",
	".pdf":  "application/pdf",
	".ico":  "image/vnd.microsoft.icon",
	".css":  "text/css",
	".js":   "application/javascript",
	".json": "application/json",
	".svg":  "image/svg+xml",
	".txt":  "text/plain",
}

// ContentType maps an extension such as ".PNG" to its content type.
// Unknown and empty extensions get text/plain.
func ContentType(ext string) string {
	if ct, ok := contentTypes[strings.ToLower(ext)]; ok {
		return ct
	}
	return defaultContentType
}

func ContentTypeForPath(path string) string {
	return ContentType(filepath.Ext(path))
}
