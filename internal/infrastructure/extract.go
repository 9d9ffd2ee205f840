package infrastructure

import (
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// Extractor pulls a media URL out of an upstream JSON document.
// It reports false when its shape is not present; it never fails.
type Extractor func(doc gjson.Result) (string, bool)

// mediaKeys are tried in order when a path resolves to an object. HD before SD.
var mediaKeys = []string{"hd", "sd", "url"}

// Field returns an extractor for a gjson path. Whatever sits at the path is
// reduced with pickMedia, so a string, an array of strings, or an array of
// {hd, sd} objects all work.
func Field(path string) Extractor {
	return func(doc gjson.Result) (string, bool) {
		v := pickMedia(doc.Get(path))
		return v, v != ""
	}
}

// Fields builds an ordered extractor chain from paths
func Fields(paths ...string) []Extractor {
	chain := make([]Extractor, 0, len(paths))
	for _, p := range paths {
		chain = append(chain, Field(p))
	}
	return chain
}

// ExtractFirst runs the chain in order and returns the first non-empty value
func ExtractFirst(doc gjson.Result, chain []Extractor) (string, bool) {
	for _, extract := range chain {
		if v, ok := extract(doc); ok {
			return v, true
		}
	}
	return "", false
}

// pickMedia reduces a loosely shaped JSON value to a single URL string.
// Strings that are not absolute http(s) URLs, such as upstream error
// messages, count as absent.
func pickMedia(r gjson.Result) string {
	switch {
	case r.Type == gjson.String:
		s := strings.TrimSpace(r.Str)
		if !isMediaURL(s) {
			return ""
		}
		return s
	case r.IsArray():
		items := r.Array()
		if len(items) == 0 {
			return ""
		}
		return pickMedia(items[0])
	case r.IsObject():
		for _, key := range mediaKeys {
			if v := pickMedia(r.Get(key)); v != "" {
				return v
			}
		}
	}
	return ""
}

func isMediaURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
