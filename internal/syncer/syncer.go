// Package syncer moves binary assets between a local tree and the remote
// object store: download mirrors a key prefix into a local directory, upload
// classifies local files into the remote key layout.
package syncer

import "strings"

// TransferTask is one pending remote read or write. Source and Dest are a
// key/path pair depending on direction; Bytes is filled in once the payload
// size is known. Each task is consumed exactly once and never retried.
type TransferTask struct {
	Source string
	Dest   string
	Bytes  int64
}

// relativeKey strips the listing prefix from a remote key so the local mirror
// reproduces only the layout below the prefix.
func relativeKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	trimmed := strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	rel := strings.TrimPrefix(key, trimmed+"/")
	if rel == key {
		// Key was not under the prefix directory form; fall back to the raw key.
		return key
	}
	return rel
}

// isDirectoryMarker reports whether a key is a zero-byte directory
// placeholder rather than a data object.
func isDirectoryMarker(key string) bool {
	return strings.HasSuffix(key, "/")
}
