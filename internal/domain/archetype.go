package domain

import "strings"

// QuestionType tags one of the eight question archetypes. The wire values
// match the document format used by the clients.
type QuestionType string

const (
	// TypeTrueFalse: two fixed options, one stored correct answer.
	TypeTrueFalse QuestionType = "P01"
	// TypeSingleChoice: pick one option.
	TypeSingleChoice QuestionType = "P02"
	// TypeMultipleChoice: pick a subset of options, order irrelevant.
	TypeMultipleChoice QuestionType = "P03"
	// TypeMatching: build (left,right) pairs.
	TypeMatching QuestionType = "P04"
	// TypeOrdering: reorder the options into the stored order.
	TypeOrdering QuestionType = "P05"
	// TypeFillBlankText: type free text into each blank.
	TypeFillBlankText QuestionType = "P06"
	// TypeAssociation: pair each concept with its definition.
	TypeAssociation QuestionType = "P07"
	// TypeFillBlankChoice: pick an option for each blank.
	TypeFillBlankChoice QuestionType = "P08"
)

// Valid reports whether t is one of the eight known archetypes.
func (t QuestionType) Valid() bool {
	switch t {
	case TypeTrueFalse, TypeSingleChoice, TypeMultipleChoice, TypeMatching,
		TypeOrdering, TypeFillBlankText, TypeAssociation, TypeFillBlankChoice:
		return true
	}
	return false
}

// Pair is one user-built (left,right) association.
type Pair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Submission is a user's answer to one question. Selected carries choice,
// ordering, and blank answers; Pairs carries matching and association
// answers. Which field applies follows from the question type.
type Submission struct {
	Selected []string `json:"selected,omitempty"`
	Pairs    []Pair   `json:"pairs,omitempty"`
}

// CorrectPairs zips Options with CorrectAnswers by position. The pair
// archetypes store the right-hand side of pair i in CorrectAnswers[i].
func (q Question) CorrectPairs() []Pair {
	n := len(q.Options)
	if len(q.CorrectAnswers) < n {
		n = len(q.CorrectAnswers)
	}
	pairs := make([]Pair, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, Pair{Left: q.Options[i], Right: q.CorrectAnswers[i]})
	}
	return pairs
}

// Evaluate reports whether the submission is correct for this question.
// Correctness is strictly boolean; there is no partial credit.
func (q Question) Evaluate(sub Submission) bool {
	switch q.Type {
	case TypeTrueFalse, TypeSingleChoice:
		return len(q.CorrectAnswers) == 1 &&
			len(sub.Selected) == 1 &&
			sub.Selected[0] == q.CorrectAnswers[0]
	case TypeMultipleChoice:
		return equalSets(sub.Selected, q.CorrectAnswers)
	case TypeMatching, TypeAssociation:
		return equalPairSets(sub.Pairs, q.CorrectPairs())
	case TypeOrdering:
		return equalLists(sub.Selected, q.CorrectAnswers)
	case TypeFillBlankText:
		return equalListsTrimmed(sub.Selected, q.CorrectAnswers)
	case TypeFillBlankChoice:
		return equalLists(sub.Selected, q.CorrectAnswers)
	}
	return false
}

func equalLists(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// equalListsTrimmed compares positionally, ignoring surrounding whitespace
// typed into free-text blanks.
func equalListsTrimmed(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if strings.TrimSpace(got[i]) != strings.TrimSpace(want[i]) {
			return false
		}
	}
	return true
}

func equalSets(got, want []string) bool {
	gotSet := make(map[string]struct{}, len(got))
	for _, v := range got {
		gotSet[v] = struct{}{}
	}
	wantSet := make(map[string]struct{}, len(want))
	for _, v := range want {
		wantSet[v] = struct{}{}
	}
	if len(gotSet) != len(wantSet) {
		return false
	}
	for v := range wantSet {
		if _, ok := gotSet[v]; !ok {
			return false
		}
	}
	return true
}

func equalPairSets(got, want []Pair) bool {
	gotSet := make(map[Pair]struct{}, len(got))
	for _, p := range got {
		gotSet[p] = struct{}{}
	}
	wantSet := make(map[Pair]struct{}, len(want))
	for _, p := range want {
		wantSet[p] = struct{}{}
	}
	if len(gotSet) != len(wantSet) {
		return false
	}
	for p := range wantSet {
		if _, ok := gotSet[p]; !ok {
			return false
		}
	}
	return true
}
