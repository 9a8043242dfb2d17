// Package version holds the build metadata reported by the version endpoint.
package version

// Set at link time, e.g. -ldflags "-X github.com/yuriy-kovalchuk/yk-ddns/internal/version.Version=v1.2.0".
var (
	Version     = "dev"
	Author      = "Yuriy Kovalchuk"
	AuthorEmail = "yuriy.kovalchuk@users.noreply.github.com"
)

// Info is the immutable build metadata of the running binary.
type Info struct {
	Version     string `json:"version"`
	Author      string `json:"author"`
	AuthorEmail string `json:"author-email"`
}

// Get returns the build metadata captured at process start.
func Get() Info {
	return Info{Version: Version, Author: Author, AuthorEmail: AuthorEmail}
}
