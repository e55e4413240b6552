package ranking

import (
	"sort"
	"strings"
	"unicode"
)

// KeywordExtractor pulls the terms that characterize a posting's text.
// The frequency heuristic below is deliberately replaceable: similar-jobs
// only depends on this one method.
type KeywordExtractor interface {
	ExtractKeywords(text string, maxCount int) []string
}

// stopwords are words too common in postings to characterize one. Keyword
// candidates shorter than three runes are dropped separately.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "and", "for", "with", "you", "our", "are", "will", "have",
		"this", "that", "from", "your", "who", "what", "all", "can", "not",
		"about", "their", "they", "them", "has", "was", "were", "been",
		"job", "jobs", "work", "working", "role", "team", "company",
		"experience", "skills", "ability", "strong", "looking", "join",
		"years", "plus", "etc", "per", "more", "other", "well", "must",
	} {
		stopwords[w] = struct{}{}
	}
}

type frequencyExtractor struct{}

// NewFrequencyExtractor returns the default extractor: terms ranked by
// occurrence count, ties broken by first appearance in the text.
func NewFrequencyExtractor() KeywordExtractor {
	return frequencyExtractor{}
}

func (frequencyExtractor) ExtractKeywords(text string, maxCount int) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	type stat struct {
		count int
		first int
	}
	freq := map[string]*stat{}
	order := make([]string, 0, len(words))
	for i, w := range words {
		if len(w) < 3 {
			continue
		}
		if _, ok := stopwords[w]; ok {
			continue
		}
		if s, ok := freq[w]; ok {
			s.count++
			continue
		}
		freq[w] = &stat{count: 1, first: i}
		order = append(order, w)
	}

	sort.SliceStable(order, func(i, j int) bool {
		si, sj := freq[order[i]], freq[order[j]]
		if si.count != sj.count {
			return si.count > sj.count
		}
		return si.first < sj.first
	})

	if maxCount > 0 && len(order) > maxCount {
		order = order[:maxCount]
	}
	return order
}
