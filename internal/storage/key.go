package storage

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Key prefixes partition the bucket by purpose.
const (
	PrefixResumes     = "resumes"
	PrefixProfilePics = "profile_pics"
)

// Extension returns the lower-cased extension of filename without the dot,
// or "" when the name has none.
func Extension(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	idx := strings.LastIndex(base, ".")
	if idx < 0 || idx == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[idx+1:])
}

// AllowedExtension reports whether filename carries one of the allowed extensions.
// The comparison is case-insensitive and a name without an extension is rejected.
func AllowedExtension(filename string, allowed []string) bool {
	ext := Extension(filename)
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimPrefix(a, "."), ext) {
			return true
		}
	}
	return false
}

// NewKey generates a collision-free object key for a user's upload.
// The client-supplied name contributes only its extension.
func NewKey(prefix string, userID uint, filename string) string {
	key := fmt.Sprintf("%s/%d/%s", prefix, userID, uuid.NewString())
	if ext := Extension(filename); ext != "" {
		key += "." + ext
	}
	return key
}
