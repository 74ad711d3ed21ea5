package main

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
)

// DirectoryListing renders an HTML index of dir. display is shown in the
// heading, normally the request-target. Links are relative so they resolve
// against a target that ends in "/". Entries come out sorted by name.
func DirectoryListing(dir, display string) ([]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("Failed to read directory: %w", err)
	}

	buf := new(bytes.Buffer)
	title := html.EscapeString(display)
	fmt.Fprintf(buf, "<html><head><title>Index of %s</title></head><body>\n", title)
	fmt.Fprintf(buf, "<h1>Index of %s</h1>\n<ul>\n", title)
	for _, e := range entries {
		name := html.EscapeString(e.Name())
		if e.IsDir() || isDirLink(dir, e) {
			fmt.Fprintf(buf, "<li><a href=\"%s/\">%s/</a></li>\n", name, name)
			continue
		}
		size := ""
		if info, err := e.Info(); err == nil && info.Mode().IsRegular() {
			size = " (" + humanize.Bytes(uint64(info.Size())) + ")"
		}
		fmt.Fprintf(buf, "<li><a href=\"%s\">%s</a>%s</li>\n", name, name, size)
	}
	buf.WriteString("</ul>\n</body></html>\n")
	return buf.Bytes(), nil
}

// symlinks to directories are listed like directories since Resolve follows them
func isDirLink(dir string, e os.DirEntry) bool {
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, e.Name()))
	return err == nil && info.IsDir()
}
