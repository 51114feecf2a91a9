package gofwmod

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// IndexByID builds a map from each document's id to the document.
// When several documents share an id, the last one wins.
func IndexByID[T any](docs []T, id func(T) string) map[string]T {
	index := make(map[string]T, len(docs))
	for _, doc := range docs {
		index[id(doc)] = doc
	}
	return index
}

// DedupeBy returns one element per key. The surviving element for a key is
// the last one seen; results are ordered by each key's first appearance.
func DedupeBy[T any, K comparable](things []T, key func(T) K) []T {
	pos := make(map[K]int, len(things))
	out := make([]T, 0, len(things))
	for _, thing := range things {
		k := key(thing)
		if i, ok := pos[k]; ok {
			out[i] = thing
			continue
		}
		pos[k] = len(out)
		out = append(out, thing)
	}
	return out
}

// Dedupe is DedupeBy keyed on the values themselves.
func Dedupe[T comparable](things []T) []T {
	return DedupeBy(things, func(t T) T { return t })
}

// DirNameFromURL derives the directory name git would pick when cloning
// rawURL: the last path element with its extension removed. A trailing slash
// or a trailing dot-element such as "/.git" falls back to the element before
// it.
//
//	http://github.com/OpenAgInitiative/openag_am2315.git -> openag_am2315
//	http://foo.xyz:8000/openag_am2315/.git              -> openag_am2315
//	http://foo.xyz/bar/                                 -> bar
//	git@github.com:org/repo.git                         -> repo
func DirNameFromURL(rawURL string) (string, error) {
	urlPath, err := urlPath(rawURL)
	if err != nil {
		return "", err
	}
	dir, base := path.Split(urlPath)
	if base == "" || strings.HasPrefix(base, ".") {
		_, base = path.Split(strings.TrimSuffix(dir, "/"))
	}
	return trimExt(base), nil
}

func urlPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err == nil {
		return u.Path, nil
	}
	// scp-like syntax: [user@]host:path
	if at := strings.Index(rawURL, ":"); at > 0 && !strings.Contains(rawURL[:at], "/") {
		return "/" + rawURL[at+1:], nil
	}
	return "", fmt.Errorf("parse url %q: %w", rawURL, err)
}

// trimExt removes the last extension from name. Leading dots do not start an
// extension, so ".profile" is returned unchanged.
func trimExt(name string) string {
	i := strings.LastIndex(name, ".")
	if i <= 0 || strings.Trim(name[:i], ".") == "" {
		return name
	}
	return name[:i]
}
