package patterns

import (
	"fmt"
	"unicode/utf8"
)

var categoryPatterns = []struct {
	category Category
	name     Name
}{
	{Emails, Email},
	{URLs, URL},
	{Phones, Phone},
	{CreditCards, CreditCard},
	{Times, Time},
	{HTMLTags, HTMLTag},
	{Hashtags, Hashtag},
	{Amounts, Currency},
}

// Categories returns the extraction categories in report order.
func Categories() []Category {
	out := make([]Category, 0, len(categoryPatterns))
	for _, cp := range categoryPatterns {
		out = append(out, cp.category)
	}
	return out
}

// CategoryPattern returns the pattern a category is extracted with.
func CategoryPattern(c Category) (Name, bool) {
	for _, cp := range categoryPatterns {
		if cp.category == c {
			return cp.name, true
		}
	}
	return "", false
}

func ParseCategory(raw string) (Category, error) {
	c := Category(raw)
	if _, ok := CategoryPattern(c); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
	}
	return c, nil
}

func (r *Registry) FindAllInText(text string) (Extraction, error) {
	return r.Extract(Categories(), text)
}

// Extract runs the given categories over text. Every requested category is
// present in the result, with an empty slice when nothing matched.
func (r *Registry) Extract(categories []Category, text string) (Extraction, error) {
	if !utf8.ValidString(text) {
		return nil, ErrInvalidInput
	}

	out := make(Extraction, len(categories))
	for _, c := range categories {
		name, ok := CategoryPattern(c)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
		}
		matches, err := r.FindAll(name, text)
		if err != nil {
			return nil, err
		}
		out[c] = matches
	}
	return out, nil
}
