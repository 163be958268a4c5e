package patterns

// Name identifies a pattern in the registry.
type Name string

const (
	Email      Name = "email"
	URL        Name = "url"
	Phone      Name = "phone"
	CreditCard Name = "credit_card"
	Time24h    Name = "time_24h"
	Time12h    Name = "time_12h"
	Time       Name = "time"
	HTMLTag    Name = "html_tag"
	Hashtag    Name = "hashtag"
	Currency   Name = "currency"
)

// Category is the key FindAllInText reports results under.
type Category string

const (
	Emails      Category = "emails"
	URLs        Category = "urls"
	Phones      Category = "phones"
	CreditCards Category = "credit_cards"
	Times       Category = "times"
	HTMLTags    Category = "html_tags"
	Hashtags    Category = "hashtags"
	Amounts     Category = "currency"
)

// Definition is a pattern before compilation. Literals lists substrings of
// which every match contains at least one; an empty list disables the
// prefilter for that pattern.
type Definition struct {
	Name     Name
	Grammar  string
	Literals []string
}

// Extraction holds FindAllInText results, one sequence per category.
type Extraction map[Category][]string

// Total returns the number of matches across all categories.
func (e Extraction) Total() int {
	n := 0
	for _, matches := range e {
		n += len(matches)
	}
	return n
}

// Counts returns the number of matches per category.
func (e Extraction) Counts() map[string]int {
	out := make(map[string]int, len(e))
	for cat, matches := range e {
		out[string(cat)] = len(matches)
	}
	return out
}
