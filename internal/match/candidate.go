package match

import (
	"sort"
)

// DefaultSuggestScore is the minimum similarity for a name to be suggested.
const DefaultSuggestScore = 0.5

// Candidate is a known name scored against an unknown one.
type Candidate struct {
	Name  string
	Score float64 // Similarity, 0-1
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankCandidates scores every known name against name.
// Returns candidates sorted by score (descending), then by name.
func RankCandidates(name string, known []string) CandidateList {
	candidates := make(CandidateList, 0, len(known))

	for _, k := range known {
		candidates = append(candidates, Candidate{Name: k, Score: Similarity(name, k)})
	}

	sort.Sort(candidates)

	return candidates
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// AboveThreshold returns candidates scoring at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			result = append(result, cand)
		}
	}

	return result
}

// Names returns the candidate names in order.
func (c CandidateList) Names() []string {
	out := make([]string, len(c))
	for i, cand := range c {
		out[i] = cand.Name
	}

	return out
}

// Suggest returns up to n known names that look like a misspelling of name.
// The name itself is never suggested.
func Suggest(name string, known []string, n int) []string {
	if n <= 0 {
		return nil
	}

	var others []string

	for _, k := range known {
		if k != name {
			others = append(others, k)
		}
	}

	best := RankCandidates(name, others).AboveThreshold(DefaultSuggestScore).Top(n)
	if len(best) == 0 {
		return nil
	}

	return best.Names()
}
