package storage

import "strings"

// PublicURL converts a stored filesystem path into an absolute public URL:
// the storage-root prefix is stripped, path separators are normalized to
// forward slashes, and the configured base URL plus the public /uploads
// prefix is prepended.
//
// Rows written by older deployments contain literal doubled backslashes as
// well as single ones; both are replaced. Keep that behavior, legacy rows
// depend on it.
func PublicURL(baseURL, storageRoot, storedPath string) string {
	p := storedPath
	if storageRoot != "" {
		p = strings.Replace(p, storageRoot, "", 1)
	}
	p = strings.ReplaceAll(p, `\\`, "/")
	p = strings.ReplaceAll(p, `\`, "/")

	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	return strings.TrimSuffix(baseURL, "/") + "/uploads" + p
}
