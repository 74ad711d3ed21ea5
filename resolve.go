package main

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

type Kind int

const (
	KindMissing Kind = iota
	KindFile
	KindDirectory
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	}
	return "missing"
}

// ResolvedTarget is the filesystem view of one request-target
type ResolvedTarget struct {
	Path string
	Kind Kind
	Info os.FileInfo // nil when Kind is KindMissing
}

// Resolve maps a request-target onto root. Targets that would leave root,
// either through ".." segments or by looking absolute after the leading
// slash is removed, resolve as missing. Symlinks are followed.
func Resolve(target, root string, decode bool) ResolvedTarget {
	rel := strings.TrimPrefix(target, "/")
	if decode {
		unescaped, err := url.PathUnescape(rel)
		if err != nil {
			return ResolvedTarget{Path: filepath.Join(root, rel), Kind: KindMissing}
		}
		rel = unescaped
	}
	if strings.IndexByte(rel, 0) >= 0 {
		return ResolvedTarget{Kind: KindMissing}
	}

	if rel == "" {
		return classify(root, false)
	}
	local := filepath.FromSlash(rel)
	if !filepath.IsLocal(local) {
		return ResolvedTarget{Kind: KindMissing}
	}
	return classify(filepath.Join(root, local), strings.HasSuffix(rel, "/"))
}

func classify(path string, wantDir bool) ResolvedTarget {
	info, err := os.Stat(path)
	if err != nil {
		return ResolvedTarget{Path: path, Kind: KindMissing}
	}
	switch {
	case info.IsDir():
		return ResolvedTarget{Path: path, Kind: KindDirectory, Info: info}
	case info.Mode().IsRegular() && !wantDir:
		return ResolvedTarget{Path: path, Kind: KindFile, Info: info}
	}
	// "file.txt/", devices, sockets and pipes
	return ResolvedTarget{Path: path, Kind: KindMissing}
}
