package utils

import (
	"path/filepath"
	"runtime"
	"strings"
)

// IsNetworkDrive detects if a path is on a network-mounted drive
func IsNetworkDrive(path string) bool {
	// Check Windows UNC paths first, before converting to absolute path
	if strings.HasPrefix(path, "//") || strings.HasPrefix(path, "\\\\") {
		return true
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	// Check common network mount prefixes on different platforms
	networkPrefixes := []string{
		"/mnt/",     // Linux NFS/SMB mounts
		"/media/",   // Linux removable/network media
		"/Volumes/", // macOS network volumes
	}

	for _, prefix := range networkPrefixes {
		if strings.HasPrefix(absPath, prefix) {
			return true
		}
	}

	for _, name := range strings.FieldsFunc(absPath, isPathSeparator) {
		if isNetworkMountName(name) {
			return true
		}
	}

	return false
}

var networkIndicators = []string{"nfs", "cifs", "smb", "webdav", "ftp", "sftp"}

// isNetworkMountName matches a path element that is named after a network
// protocol: "nfs", "smb-share" or "cifs_backup", but not "graftpaper"
func isNetworkMountName(name string) bool {
	name = strings.ToLower(name)
	for _, indicator := range networkIndicators {
		rest, ok := strings.CutPrefix(name, indicator)
		if !ok {
			continue
		}
		if rest == "" || strings.ContainsRune("-_. ", rune(rest[0])) {
			return true
		}
	}
	return false
}

func isPathSeparator(r rune) bool {
	return r == '/' || r == filepath.Separator
}

// HashWorkers picks the number of files hashed in parallel. An explicit
// request wins. Otherwise a single worker is used when any of the paths is on
// a network drive, and one worker per CPU for local drives.
func HashWorkers(requested int, paths []string) (workers int, network bool) {
	if requested > 0 {
		return requested, false
	}
	for _, p := range paths {
		if IsNetworkDrive(p) {
			return 1, true
		}
	}
	return runtime.NumCPU(), false
}
