package ranking

import (
	"reflect"
	"testing"
)

func TestFrequencyExtractor_RanksByOccurrence(t *testing.T) {
	t.Parallel()

	e := NewFrequencyExtractor()
	text := "Senior Golang Developer. Golang services, golang APIs; developer tools."

	got := e.ExtractKeywords(text, 3)
	expected := []string{"golang", "developer", "senior"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestFrequencyExtractor_SkipsStopwordsAndShortTokens(t *testing.T) {
	t.Parallel()

	e := NewFrequencyExtractor()
	got := e.ExtractKeywords("the job for you and our team is a go role", 10)

	for _, kw := range got {
		switch kw {
		case "the", "job", "for", "you", "and", "our", "team", "role":
			t.Errorf("stopword %q leaked into keywords", kw)
		case "is", "a", "go":
			t.Errorf("short token %q leaked into keywords", kw)
		}
	}
}

func TestFrequencyExtractor_FirstOccurrenceBreaksTies(t *testing.T) {
	t.Parallel()

	e := NewFrequencyExtractor()
	got := e.ExtractKeywords("kubernetes terraform ansible", 3)

	expected := []string{"kubernetes", "terraform", "ansible"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected first-seen order %v, got %v", expected, got)
	}
}

func TestFrequencyExtractor_CaseFolding(t *testing.T) {
	t.Parallel()

	e := NewFrequencyExtractor()
	got := e.ExtractKeywords("Python PYTHON python Rust", 2)

	expected := []string{"python", "rust"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestFrequencyExtractor_MaxCountTruncates(t *testing.T) {
	t.Parallel()

	e := NewFrequencyExtractor()
	got := e.ExtractKeywords("alpha beta gamma delta epsilon", 2)

	if len(got) != 2 {
		t.Errorf("expected 2 keywords, got %d: %v", len(got), got)
	}
}

func TestFrequencyExtractor_EmptyText(t *testing.T) {
	t.Parallel()

	e := NewFrequencyExtractor()
	if got := e.ExtractKeywords("", 5); len(got) != 0 {
		t.Errorf("expected no keywords, got %v", got)
	}
}
