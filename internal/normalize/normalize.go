package normalize

import (
	"html"
	"net/url"
	"strings"
)

const defaultDecodeDepth = 2

// Options controls how raw input is prepared before pattern matching.
type Options struct {
	Trim           bool
	URLDecode      bool
	MaxDecodeDepth int
	HTMLEntity     bool
}

type Result struct {
	Raw        string
	Normalized string
}

func Apply(input string, opts Options) Result {
	res := Result{Raw: input, Normalized: input}

	if opts.URLDecode {
		depth := opts.MaxDecodeDepth
		if depth <= 0 {
			depth = defaultDecodeDepth
		}

		decoded := res.Normalized
		for i := 0; i < depth; i++ {
			next, ok := decodeOnce(decoded)
			if !ok || next == decoded {
				break
			}
			decoded = next
		}
		res.Normalized = decoded
	}

	if opts.HTMLEntity {
		res.Normalized = html.UnescapeString(res.Normalized)
	}
	if opts.Trim {
		res.Normalized = strings.TrimSpace(res.Normalized)
	}

	return res
}

// Trim is the preparation applied to a single interactive or CLI candidate.
func Trim(input string) string {
	return Apply(input, Options{Trim: true}).Normalized
}

func decodeOnce(input string) (string, bool) {
	decoded, err := url.QueryUnescape(input)
	if err != nil {
		return input, false
	}
	return decoded, true
}
