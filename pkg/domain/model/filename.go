package model

import "strings"

// FileExtension is appended to every sanitized URL
const FileExtension = ".txt"

var urlReplacer = strings.NewReplacer(
	"://", "_",
	"/", "_",
	"?", "_",
	"&", "_",
)

// Sanitize maps a URL to a base file name by replacing "://", "/", "?" and
// "&" with "_". Other characters pass through unchanged, including ":", "*"
// and "..".
func Sanitize(url string) string {
	return urlReplacer.Replace(url)
}

// Filename returns Sanitize(url) with FileExtension
func Filename(url string) string {
	return Sanitize(url) + FileExtension
}

// Collision describes two distinct URLs that sanitize to the same file name
type Collision struct {
	Filename string
	URLs     []string
}

// FindCollisions groups distinct URLs sharing a file name. Duplicated input
// lines are not collisions since they write the same content.
func FindCollisions(urls []string) []Collision {
	seen := make(map[string][]string)
	var order []string

	for _, u := range urls {
		name := Filename(u)
		existing, ok := seen[name]
		if !ok {
			order = append(order, name)
		}
		if !containsString(existing, u) {
			seen[name] = append(existing, u)
		}
	}

	var collisions []Collision
	for _, name := range order {
		if len(seen[name]) > 1 {
			collisions = append(collisions, Collision{
				Filename: name,
				URLs:     seen[name],
			})
		}
	}
	return collisions
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
