package cmn

import (
	"testing"

	"github.com/tdewolff/test"
)

func Test_ComposeAssetPath(t *testing.T) {
	var tests = []struct {
		base, repository, dir, name string
		expected                    string
	}{
		{"/app", "", "", "main.js", "/app/main.js"},
		{"/app/", "repo", "js", "main.js", "/app/repo/js/main.js"},
		{"/app/", "/repo/", "/js/", "/main.js", "/app/repo/js/main.js"},
		{"", "", "", "main.js", "main.js"},
		{"", "", "css", "site.css", "css/site.css"},
		{"/", "cdn", "", "jquery.min.js", "/cdn/jquery.min.js"},
		{"http://localhost:8080/app", "bootstrap", "dist/css", "bootstrap.min.css", "http://localhost:8080/app/bootstrap/dist/css/bootstrap.min.css"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			actual := ComposeAssetPath(tt.base, tt.repository, tt.dir, tt.name)
			test.String(t, actual, tt.expected, "ComposeAssetPath(base, repository, dir, name) | invalid output")
		})
	}
}

func Test_JoinURL(t *testing.T) {
	var tests = []struct {
		parts    []string
		expected string
	}{
		{[]string{}, ""},
		{[]string{"/app"}, "/app"},
		{[]string{"/app/", "/cdn"}, "/app/cdn"},
		{[]string{"/app", "cdn/"}, "/app/cdn/"},
		{[]string{"/app", "/"}, "/app/"},
		{[]string{"", "/app", "", "cdn"}, "/app/cdn"},
		{[]string{"//cdn.example.com/", "npm", "jquery@3.7.1"}, "//cdn.example.com/npm/jquery@3.7.1"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			test.String(t, JoinURL(tt.parts...), tt.expected, "JoinURL(parts...) | invalid output")
		})
	}
}
