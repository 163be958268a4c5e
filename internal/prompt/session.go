// Package prompt runs the interactive validation loop: pick a kind of data,
// enter a candidate, see whether it is valid.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/patternkit/patternkit/internal/logging"
	"github.com/patternkit/patternkit/internal/normalize"
	"github.com/patternkit/patternkit/internal/patterns"
)

const clearScreen = "\033[H\033[2J"

type option struct {
	key     string
	label   string
	kind    string
	pattern patterns.Name
}

var menu = []option{
	{"1", "Emails", "email", patterns.Email},
	{"2", "Phone numbers", "phone", patterns.Phone},
	{"3", "URLs", "url", patterns.URL},
	{"4", "Credit Card Numbers", "credit_card", patterns.CreditCard},
	{"5", "HTML tags", "html_tag", patterns.HTMLTag},
	{"6", "Hashtags", "hashtag", patterns.Hashtag},
	{"7", "Currency amounts", "currency", patterns.Currency},
	{"8", "Time (24h or 12h)", "time", patterns.Time},
}

type Session struct {
	registry *patterns.Registry
	in       *bufio.Scanner
	out      io.Writer
	results  *logging.RecordLogger

	lines    chan string
	done     chan struct{}
	scanDone chan struct{}
}

func New(registry *patterns.Registry, in io.Reader, out io.Writer) *Session {
	return &Session{
		registry: registry,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

func (s *Session) SetResultLogger(logger *logging.RecordLogger) {
	s.results = logger
}

// Run loops until the user exits, input ends or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	s.startScanner()
	defer close(s.done)

	s.printBanner()

	for {
		opt, ok := s.selectOption(ctx)
		if !ok {
			s.println("\nGoodbye!")
			return nil
		}
		if opt == nil {
			s.println("Goodbye!")
			return nil
		}

		candidate, ok := s.readCandidate(ctx, opt.kind)
		if !ok {
			s.println("\nGoodbye!")
			return nil
		}

		valid, err := s.validate(opt.pattern, candidate)
		if err != nil {
			s.printf("Error: %v. Please try again.\n\n", err)
			continue
		}
		result := "Invalid"
		if valid {
			result = "Valid"
		}
		s.printf("Result: %s\n\n", result)

		again, ok := s.askContinue(ctx)
		if !ok || !again {
			s.println("Goodbye!")
			return nil
		}
		s.printf("%s", clearScreen)
		s.printBanner()
	}
}

// selectOption returns nil with ok=true when the user picks exit.
func (s *Session) selectOption(ctx context.Context) (*option, bool) {
	for {
		s.println()
		s.println("Please select the type of data that you want to validate:")
		for _, opt := range menu {
			s.printf("%s. %s\n", opt.key, opt.label)
		}
		s.println("0. Exit")
		s.println()
		s.printf("Select 0-8: ")

		line, ok := s.readLine(ctx)
		if !ok {
			return nil, false
		}
		if line == "0" {
			return nil, true
		}
		for i := range menu {
			if menu[i].key == line {
				return &menu[i], true
			}
		}
		s.printf("Error: Please select a valid option (0-8).\n\n")
	}
}

func (s *Session) readCandidate(ctx context.Context, kind string) (string, bool) {
	for {
		s.printf("Enter a %s to validate: ", kind)
		line, ok := s.readLine(ctx)
		if !ok {
			return "", false
		}
		if msg := precheck(kind, line); msg != "" {
			s.printf("%s\n\n", msg)
			continue
		}
		return line, true
	}
}

func (s *Session) askContinue(ctx context.Context) (bool, bool) {
	for {
		s.printf("Do you want to continue? (y/n): ")
		line, ok := s.readLine(ctx)
		if !ok {
			return false, false
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return true, true
		case "n", "no":
			return false, true
		}
		s.printf("Error: Please enter 'y' or 'n'.\n\n")
	}
}

func (s *Session) validate(name patterns.Name, candidate string) (bool, error) {
	start := time.Now()
	valid, err := s.registry.IsMatch(name, candidate)

	record := logging.Record{
		Source:     logging.SourceInteractive,
		Operation:  logging.OperationValidate,
		Pattern:    string(name),
		InputBytes: len(candidate),
		DurationUS: time.Since(start).Microseconds(),
	}
	if err != nil {
		record.Error = err.Error()
	} else {
		record.Valid = logging.Verdict(valid)
	}
	_ = s.results.Write(record)

	return valid, err
}

// startScanner reads input on its own goroutine so a cancelled ctx ends the
// session without waiting for a line. The goroutine exits once Run returns
// and the current read completes.
func (s *Session) startScanner() {
	lines := make(chan string)
	done := make(chan struct{})
	scanDone := make(chan struct{})
	in := s.in

	go func() {
		defer close(scanDone)
		defer close(lines)
		for in.Scan() {
			select {
			case lines <- in.Text():
			case <-done:
				return
			}
		}
	}()

	s.lines = lines
	s.done = done
	s.scanDone = scanDone
}

func (s *Session) readLine(ctx context.Context) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}

	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-s.lines:
		if !ok {
			return "", false
		}
		return normalize.Trim(line), true
	}
}

func (s *Session) printBanner() {
	s.println("Pattern Validator")
	s.println("-------------------------------")
	s.println("Overview")
	s.println("-------------------------------")
	s.println("Extracts and validates emails, URLs, phone numbers, credit card numbers, " +
		"times, HTML tags, hashtags and currency amounts from large volumes of text " +
		"using a fixed set of regular expressions.")
	s.println("-------------------------------")
}

func (s *Session) println(args ...any) {
	_, _ = fmt.Fprintln(s.out, args...)
}

func (s *Session) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}
