package patterns

import (
	"testing"

	"github.com/dlclark/regexp2"
	"github.com/google/go-cmp/cmp"
)

// Grammars with a single separator class shared by every phone and credit
// card gap, so mixed separators are accepted.
var backtrackingGrammars = map[Name]string{
	Email:      `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`,
	URL:        `\bhttps?:\/\/(?:[A-Za-z0-9-]+\.)+[A-Za-z]{2,}(?:\/[\w\-\.%~:?#\[\]@!$&'()*+,;=]*)?\b`,
	Phone:      `^(?:\(\d{3}\)\s*\d{3}[-.]\d{4}|\d{3}[-.]\d{3}[-.]\d{4})$`,
	CreditCard: `\b\d{4}(?:[ -]\d{4}){3}\b`,
	Time24h:    `\b(?:[01]?\d|2[0-3]):[0-5]\d\b`,
	Time12h:    `\b(?:1[0-2]|0?[1-9]):[0-5]\d(?:\s?[APap][Mm])\b`,
	Time:       `(?:\b(?:[01]?\d|2[0-3]):[0-5]\d\b)|(?:\b(?:1[0-2]|0?[1-9]):[0-5]\d(?:\s?[APap][Mm])\b)`,
	HTMLTag:    `<([A-Za-z][A-Za-z0-9-]*)(?:\s+[^<>]*?)?>`,
	Hashtag:    `\#[A-Za-z0-9_]+\b`,
	Currency:   `\$(?:(?:\d{1,3}(?:,\d{3})+)|\d+)(?:\.\d{2})?\b`,
}

var parityCorpus = []string{
	"Contact jane.doe+news@mail.example.co.uk or bob@corp.io before 5:45 PM.",
	"Docs at https://go.dev/doc/effective_go#names and http://a-b.example.org/x?y=1&z=2.",
	"Tags: #golang #100DaysOfCode #_private # #",
	"Totals: $5, $1,234.56, $12,34, $999.9, $0.99!",
	`<html><body class="main"><a href="/x">link</a><br /><br/><img src='p.png' alt="p"></body>`,
	"Shifts 07:00-15:30, 23:59, 24:00, 9:5, 12:00am, 1:30 pm, 13:00 PM, 00:00",
	"Cards 4111 1111 1111 1111 and 5500-0000-0000-0004 and 1234 5678 9012",
	"(555) 123-4567",
	"555.123.4567",
	"555.123.4567\n",
	"(555) 123-4567\n\n",
	"see https://example.com/café now, write to josé@example.com or user@example.comé",
	"#café #naïve #go 🚀 #日本 $5é $١٢٣ 11:59\u00a0PM <p\u00a0class=x>",
	"Cards 4111 1111 1111 1111\n",
	"nothing to see here",
	"",
}

// Results recorded from Python's re module (finditer and fullmatch) with
// the same grammars, for text where Unicode classes or the end anchor
// matter.
var recordedFindAll = []struct {
	name Name
	text string
	want []string
}{
	{URL, "see https://example.com/café now", []string{"https://example.com/café"}},
	{Hashtag, "#café", []string{}},
	{Hashtag, "#go 🚀 #日本", []string{"#go"}},
	{Email, "user@example.comé", []string{}},
	{Email, "josé@example.com", []string{}},
	{Currency, "$5é", []string{}},
	{Currency, "$١٢٣", []string{"$١٢٣"}},
	{Phone, "123-456-7890\n", []string{"123-456-7890"}},
	{Phone, "123-456-7890\n\n", []string{}},
	{Time12h, "at 9:30\u00a0pm.", []string{"9:30\u00a0pm"}},
	{Time, "11:59\u00a0PM", []string{"11:59"}},
	{HTMLTag, "<p\u00a0class=x>", []string{"<p\u00a0class=x>"}},
}

var recordedIsMatch = []struct {
	name      Name
	candidate string
	want      bool
}{
	{Phone, "123-456-7890\n", false},
	{Time24h, "23:59\n", false},
	{Time, "11:59\u00a0PM", true},
	{Hashtag, "#café", false},
	{Email, "user@example.comé", false},
	{URL, "https://example.com/café", true},
	{Currency, "$١٢٣", true},
}

func TestRecordedUnicodeResults(t *testing.T) {
	for _, tc := range recordedFindAll {
		got, err := FindAll(tc.name, tc.text)
		if err != nil {
			t.Fatalf("FindAll(%s, %q) error: %v", tc.name, tc.text, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("FindAll(%s, %q) mismatch (-want +got):\n%s", tc.name, tc.text, diff)
		}
	}

	for _, tc := range recordedIsMatch {
		got, err := IsMatch(tc.name, tc.candidate)
		if err != nil {
			t.Fatalf("IsMatch(%s, %q) error: %v", tc.name, tc.candidate, err)
		}
		if got != tc.want {
			t.Fatalf("IsMatch(%s, %q) expected %v, got %v", tc.name, tc.candidate, tc.want, got)
		}
	}
}

func referenceFindAll(t *testing.T, re *regexp2.Regexp, text string) []string {
	t.Helper()
	out := []string{}
	m, err := re.FindStringMatch(text)
	for m != nil && err == nil {
		out = append(out, m.String())
		m, err = re.FindNextMatch(m)
	}
	if err != nil {
		t.Fatalf("reference match error: %v", err)
	}
	return out
}

func TestParityWithSingleClassGrammars(t *testing.T) {
	for name, grammar := range backtrackingGrammars {
		search := regexp2.MustCompile(grammar, regexp2.None)
		full := regexp2.MustCompile(`\A(?:`+grammar+`)\z`, regexp2.None)

		for _, text := range parityCorpus {
			want := referenceFindAll(t, search, text)
			got, err := FindAll(name, text)
			if err != nil {
				t.Fatalf("FindAll(%s) error: %v", name, err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("%s FindAll(%q) differs from reference (-want +got):\n%s", name, text, diff)
			}

			wantFull, err := full.MatchString(text)
			if err != nil {
				t.Fatalf("reference full match error: %v", err)
			}
			gotFull, err := IsMatch(name, text)
			if err != nil {
				t.Fatalf("IsMatch(%s) error: %v", name, err)
			}
			if wantFull != gotFull {
				t.Fatalf("%s IsMatch(%q) expected %v, got %v", name, text, wantFull, gotFull)
			}
		}
	}
}

func TestMixedSeparatorsRejected(t *testing.T) {
	cases := []struct {
		name      Name
		candidate string
	}{
		{Phone, "123-456.7890"},
		{Phone, "123.456-7890"},
		{CreditCard, "1234-5678 9012-3456"},
		{CreditCard, "1234 5678-9012 3456"},
	}

	for _, tc := range cases {
		loose := regexp2.MustCompile(`\A(?:`+backtrackingGrammars[tc.name]+`)\z`, regexp2.None)
		if ok, _ := loose.MatchString(tc.candidate); !ok {
			t.Fatalf("expected single-class grammar to accept %q", tc.candidate)
		}
		ok, err := IsMatch(tc.name, tc.candidate)
		if err != nil {
			t.Fatalf("IsMatch error: %v", err)
		}
		if ok {
			t.Fatalf("expected %s to reject mixed separators in %q", tc.name, tc.candidate)
		}
	}
}
