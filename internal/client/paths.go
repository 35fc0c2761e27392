package client

import (
	"crypto/rand"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// NewObjectToken returns a lexically sortable unique token for t.
func NewObjectToken(t time.Time) string {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// MediaPath is where an upload is stored: "<owner>/<token>.<ext>", or
// "<owner>/<token>" when the file name has no extension.
func MediaPath(ownerID, token, fileName string) string {
	return withExt(ownerID+"/"+token, fileName)
}

// AvatarPath is where a user's avatar is stored. Re-uploads overwrite it.
func AvatarPath(userID, fileName string) string {
	return withExt("avatars/"+userID, fileName)
}

func withExt(base, fileName string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(fileName), "."))
	if ext == "" {
		return base
	}
	return base + "." + ext
}

// LocalFile is a file the user picked, fully read into memory.
type LocalFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Empty reports whether no usable file was chosen.
func (f LocalFile) Empty() bool {
	return f.Name == "" || len(f.Data) == 0
}

// MediaType is the declared content type, sniffed from the data when absent.
func (f LocalFile) MediaType() string {
	if f.ContentType != "" {
		return f.ContentType
	}
	return http.DetectContentType(f.Data)
}
