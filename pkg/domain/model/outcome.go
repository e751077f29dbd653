package model

// Outcome is the result of attempting to fetch one URL
type Outcome struct {
	URL  string // URL as read from the input, untouched
	Body []byte // Response body; nil when the fetch failed
}

// Fetched reports whether the fetch produced a body. A successful response
// with an empty body is still fetched.
func (x Outcome) Fetched() bool {
	return x.Body != nil
}

// Filename returns the file name the outcome is persisted under
func (x Outcome) Filename() string {
	return Filename(x.URL)
}
