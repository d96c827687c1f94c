package cache

import (
	"strconv"
	"strings"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/vuon9/workdiff/internal/common"
)

// KeyParts identifies one directed comparison for caching purposes. A
// modification-time change on either file implicitly invalidates old
// entries: the new mtime produces a new key and the stale entry ages out.
type KeyParts struct {
	BasePath              string
	BaseModTime           time.Time
	ComparePath           string
	CompareModTime        time.Time
	WhitespaceInsensitive bool
}

// Reversed returns the key for the opposite comparison direction.
func (p KeyParts) Reversed() KeyParts {
	return KeyParts{
		BasePath:              p.ComparePath,
		BaseModTime:           p.CompareModTime,
		ComparePath:           p.BasePath,
		CompareModTime:        p.BaseModTime,
		WhitespaceInsensitive: p.WhitespaceInsensitive,
	}
}

// canonical renders the key parts into a deterministic string. Paths are
// normalized first so two requests identifying the same files yield the same
// canonical form regardless of spelling.
func (p KeyParts) canonical() string {
	return strings.Join([]string{
		common.NormalizePath(p.BasePath),
		strconv.FormatInt(p.BaseModTime.UnixNano(), 10),
		common.NormalizePath(p.ComparePath),
		strconv.FormatInt(p.CompareModTime.UnixNano(), 10),
		strconv.FormatBool(p.WhitespaceInsensitive),
	}, "|")
}

// hash derives the fixed-size cache key from the canonical form.
func (p KeyParts) hash() uint64 {
	return xxh3.HashString(p.canonical())
}
