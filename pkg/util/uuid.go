package util

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// namespace scopes the name-based UUIDs derived from configurations
var namespace = uuid.MustParse("6f1a4c36-54b0-4d4e-9f1e-6b1e2a1c0d7e")

// HashUUID returns a name-based UUID of the JSON form of value, so equal
// configurations map to equal ids. Unmarshalable values yield "".
func HashUUID(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return uuid.NewMD5(namespace, raw).String()
}

// NewRunID returns a random id used to correlate the log lines of one run
func NewRunID() string {
	return uuid.NewString()
}

// OutputPath names the result of applying value to input: the input's
// directory and base name, the first block of HashUUID(value), and ext (the
// input's own extension when empty).
func OutputPath(input string, value any, ext string) string {
	if ext == "" {
		ext = filepath.Ext(input)
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	id, _, _ := strings.Cut(HashUUID(value), "-")
	return filepath.Join(filepath.Dir(input), base+"-glitch-"+id+ext)
}
