package browser

import (
	"fmt"
	"net/url"

	pkgbrowser "github.com/pkg/browser"
)

const viewerBase = "https://drive.google.com/file/d/"

// launch is swapped out in tests.
var launch = pkgbrowser.OpenURL

// FileURL is the canonical viewer URL of a Drive file.
func FileURL(id string) string {
	return viewerBase + url.PathEscape(id) + "/view"
}

func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open URL with scheme %q (only http/https allowed)", u.Scheme)
	}
	return launch(rawURL)
}
