package archive

import (
	"context"
	"regexp"
	"strings"
)

// Session is one remote review session: where it lives, how to reach
// it, and the file names that belong to it. Immutable after Crawl.
type Session struct {
	BaseURL  string
	Username string
	Password string
	Files    map[string]struct{}
}

// Has reports whether the enumeration found the given file name.
func (s *Session) Has(name string) bool {
	_, ok := s.Files[name]
	return ok
}

// FileURL returns the absolute URL of a file within the session.
func (s *Session) FileURL(name string) string {
	return strings.TrimSuffix(s.BaseURL, "/") + "/" + name
}

// Some archive front-ends omit the system text files from the listing
// markup even when they exist at their well-known paths.
var wellKnownFiles = []string{"system_prefix.txt", "system_suffix.txt"}

var linkTargetRe = regexp.MustCompile(`(?:href|src)=["']([^"']+)["']`)

// Crawl downloads the directory-listing page for one session and
// enumerates the file names belonging to it. Candidate names come from
// hyperlink targets and embedded media source attributes; entries that
// point outside the session directory are discarded. The well-known
// system text files are always included. Output order is irrelevant;
// consumers re-derive ordering from the zero-padded turn indices
// embedded in the names.
func (c *Client) Crawl(ctx context.Context, baseURL, username, password string) (*Session, error) {
	page, err := c.Fetch(ctx, baseURL, username, password)
	if err != nil {
		return nil, err
	}

	files := make(map[string]struct{})
	for _, m := range linkTargetRe.FindAllStringSubmatch(string(page), -1) {
		name := m[1]
		if !keepListingEntry(name) {
			continue
		}
		files[name] = struct{}{}
	}
	for _, name := range wellKnownFiles {
		files[name] = struct{}{}
	}

	return &Session{
		BaseURL:  baseURL,
		Username: username,
		Password: password,
		Files:    files,
	}, nil
}

// keepListingEntry filters raw link targets down to plain file names
// inside the session directory.
func keepListingEntry(name string) bool {
	switch {
	case name == "", name == "..":
		return false
	case strings.Contains(name, "/"), strings.Contains(name, "\\"):
		// Parent links, absolute paths, full URLs, subdirectory entries.
		// The session is a flat directory; anything with a separator
		// points outside it.
		return false
	case strings.HasPrefix(name, "#"), strings.HasPrefix(name, "?"):
		return false
	case !strings.Contains(name, "."):
		// Directories and bare anchors; session files always carry an extension.
		return false
	}
	return true
}
