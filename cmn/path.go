package cmn

import "strings"

// JoinURL joins url fragments with exactly one slash between them. Empty fragments are ignored, the leading slash
// of the first fragment and the trailing slash of the last one are kept.
//
// JoinURL("/app/", "/cdn", "js") == "/app/cdn/js"
func JoinURL(parts ...string) string {
	result := ""
	started := false
	for _, part := range parts {
		if part == "" {
			continue
		}
		if !started {
			result = part
			started = true
			continue
		}
		left := strings.TrimRight(result, "/")
		right := strings.TrimLeft(part, "/")
		if right == "" {
			// "/" fragment
			result = left + "/"
			continue
		}
		result = left + "/" + right
	}
	return result
}

// ComposeAssetPath path of a generated asset: <base>/<repository>/<typeDir>/<name>, repository and typeDir are
// optional.
func ComposeAssetPath(base, repository, typeDir, name string) string {
	return JoinURL(base, repository, typeDir, name)
}
