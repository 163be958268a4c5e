package patterns

const (
	emailGrammar = `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`
	urlGrammar   = `\bhttps?://(?:[A-Za-z0-9-]+\.)+[A-Za-z]{2,}(?:/[\w\-.%~:?#\[\]@!$&'()*+,;=]*)?\b`

	// The dotted and dashed forms are separate alternatives so the separator
	// stays the same between all groups.
	phoneGrammar      = `^(?:\(\d{3}\)\s*\d{3}[-.]\d{4}|\d{3}-\d{3}-\d{4}|\d{3}\.\d{3}\.\d{4})$`
	creditCardGrammar = `\b(?:\d{4}(?: \d{4}){3}|\d{4}(?:-\d{4}){3})\b`

	time24hGrammar = `\b(?:[01]?\d|2[0-3]):[0-5]\d\b`
	time12hGrammar = `\b(?:1[0-2]|0?[1-9]):[0-5]\d(?:\s?[APap][Mm])\b`
	timeGrammar    = `(?:` + time24hGrammar + `)|(?:` + time12hGrammar + `)`

	htmlTagGrammar  = `<([A-Za-z][A-Za-z0-9-]*)(?:\s+[^<>]*?)?>`
	hashtagGrammar  = `#[A-Za-z0-9_]+\b`
	currencyGrammar = `\$(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{2})?\b`
)

// Builtin returns the fixed pattern set in canonical order.
func Builtin() []Definition {
	return []Definition{
		{Name: Email, Grammar: emailGrammar, Literals: []string{"@"}},
		{Name: URL, Grammar: urlGrammar, Literals: []string{"http://", "https://"}},
		{Name: Phone, Grammar: phoneGrammar, Literals: []string{"-", "."}},
		{Name: CreditCard, Grammar: creditCardGrammar, Literals: []string{" ", "-"}},
		{Name: Time24h, Grammar: time24hGrammar, Literals: []string{":"}},
		{Name: Time12h, Grammar: time12hGrammar, Literals: []string{":"}},
		{Name: Time, Grammar: timeGrammar, Literals: []string{":"}},
		{Name: HTMLTag, Grammar: htmlTagGrammar, Literals: []string{"<"}},
		{Name: Hashtag, Grammar: hashtagGrammar, Literals: []string{"#"}},
		{Name: Currency, Grammar: currencyGrammar, Literals: []string{"$"}},
	}
}
