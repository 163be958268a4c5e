package patterns

import (
	"testing"

	"github.com/dlclark/regexp2"
	"github.com/google/go-cmp/cmp"
)

func TestLiteralSetContainsAny(t *testing.T) {
	set, err := newLiteralSet([]string{"he", "she", "his", "hers"})
	if err != nil {
		t.Fatalf("newLiteralSet error: %v", err)
	}

	cases := map[string]bool{
		"ushers":   true,
		"ahishers": true,
		"xsxhxe":   false,
		"":         false,
		"sh":       false,
		"hi":       false,
		"this":     true,
	}
	for input, want := range cases {
		if got := set.containsAny(input); got != want {
			t.Fatalf("containsAny(%q) expected %v, got %v", input, want, got)
		}
	}
}

func TestLiteralSetNilMatchesEverything(t *testing.T) {
	set, err := newLiteralSet(nil)
	if err != nil {
		t.Fatalf("newLiteralSet error: %v", err)
	}
	if !set.containsAny("") {
		t.Fatalf("expected nil set to contain everything")
	}
	if _, err := newLiteralSet([]string{""}); err == nil {
		t.Fatalf("expected error for empty literal")
	}
}

// Every built-in pattern must give the same answers with and without its
// prefilter.
func TestPrefilterDoesNotChangeResults(t *testing.T) {
	inputs := []string{
		"",
		"no structured data here",
		"a@b.com",
		"https://example.com/x",
		"(123) 456-7890",
		"123.456.7890",
		"1234 5678 9012 3456",
		"1234-5678-9012-3456",
		"23:59",
		"11:59 PM",
		`<p class="x">`,
		"#tag",
		"$1,234.56",
		"123-456-7890\n",
		"#café 11:59\u00a0PM",
		"mail a@b.com at 9:00 am, pay $5 #now <b> http://x.io",
	}

	for _, def := range Builtin() {
		p, ok := Default.Lookup(def.Name)
		if !ok {
			t.Fatalf("missing pattern %s", def.Name)
		}
		search := regexp2.MustCompile(def.Grammar, regexp2.None)
		full := regexp2.MustCompile(`\A(?:`+def.Grammar+`)\z`, regexp2.None)

		for _, in := range inputs {
			got, err := p.FindAll(in)
			if err != nil {
				t.Fatalf("FindAll(%s) error: %v", def.Name, err)
			}
			want := referenceFindAll(t, search, in)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("%s FindAll(%q) mismatch (-want +got):\n%s", def.Name, in, diff)
			}

			ok, err := p.IsMatch(in)
			if err != nil {
				t.Fatalf("IsMatch(%s) error: %v", def.Name, err)
			}
			wantFull, err := full.MatchString(in)
			if err != nil {
				t.Fatalf("reference full match error: %v", err)
			}
			if ok != wantFull {
				t.Fatalf("%s IsMatch(%q) expected %v", def.Name, in, wantFull)
			}
		}
	}
}
