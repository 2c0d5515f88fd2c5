package domain

import "testing"

func TestEvaluateTrueFalse(t *testing.T) {
	q := Question{Type: TypeTrueFalse, Options: []string{"True", "False"}, CorrectAnswers: []string{"True"}}

	if !q.Evaluate(Submission{Selected: []string{"True"}}) {
		t.Fatalf("expected True to be correct")
	}
	if q.Evaluate(Submission{Selected: []string{"False"}}) {
		t.Fatalf("expected False to be incorrect")
	}
	if q.Evaluate(Submission{Selected: []string{"True", "False"}}) {
		t.Fatalf("expected double selection to be incorrect")
	}
}

func TestEvaluateSingleChoice(t *testing.T) {
	q := Question{Type: TypeSingleChoice, Options: []string{"A", "B", "C"}, CorrectAnswers: []string{"B"}}

	if !q.Evaluate(Submission{Selected: []string{"B"}}) {
		t.Fatalf("expected B to be correct")
	}
	if q.Evaluate(Submission{Selected: []string{"A"}}) {
		t.Fatalf("expected A to be incorrect")
	}
	if q.Evaluate(Submission{}) {
		t.Fatalf("expected empty selection to be incorrect")
	}
}

func TestEvaluateMultipleChoiceIgnoresOrder(t *testing.T) {
	q := Question{Type: TypeMultipleChoice, Options: []string{"A", "B", "C"}, CorrectAnswers: []string{"A", "C"}}

	if !q.Evaluate(Submission{Selected: []string{"C", "A"}}) {
		t.Fatalf("expected {C,A} to equal {A,C}")
	}
	if q.Evaluate(Submission{Selected: []string{"A"}}) {
		t.Fatalf("expected partial selection to be incorrect")
	}
	if q.Evaluate(Submission{Selected: []string{"A", "B", "C"}}) {
		t.Fatalf("expected superset to be incorrect")
	}
}

func TestEvaluateMatchingIsOrderless(t *testing.T) {
	q := Question{
		Type:           TypeMatching,
		Options:        []string{"dog", "cat"},
		CorrectAnswers: []string{"bark", "meow"},
	}

	pairs := []Pair{{Left: "cat", Right: "meow"}, {Left: "dog", Right: "bark"}}
	if !q.Evaluate(Submission{Pairs: pairs}) {
		t.Fatalf("expected reordered pair set to be correct")
	}
	wrong := []Pair{{Left: "dog", Right: "meow"}, {Left: "cat", Right: "bark"}}
	if q.Evaluate(Submission{Pairs: wrong}) {
		t.Fatalf("expected swapped pairs to be incorrect")
	}
}

func TestEvaluateOrderingIsExact(t *testing.T) {
	q := Question{Type: TypeOrdering, Options: []string{"c", "a", "b"}, CorrectAnswers: []string{"a", "b", "c"}}

	if !q.Evaluate(Submission{Selected: []string{"a", "b", "c"}}) {
		t.Fatalf("expected stored order to be correct")
	}
	if q.Evaluate(Submission{Selected: []string{"a", "c", "b"}}) {
		t.Fatalf("expected wrong order to be incorrect")
	}
	if q.Evaluate(Submission{Selected: []string{"a", "b"}}) {
		t.Fatalf("expected truncated order to be incorrect")
	}
}

func TestEvaluateFillBlankTextTrimsWhitespace(t *testing.T) {
	q := Question{Type: TypeFillBlankText, CorrectAnswers: []string{"mitochondria", "cell"}}

	if !q.Evaluate(Submission{Selected: []string{" mitochondria ", "cell"}}) {
		t.Fatalf("expected padded answers to be correct")
	}
	if q.Evaluate(Submission{Selected: []string{"cell", "mitochondria"}}) {
		t.Fatalf("expected swapped positions to be incorrect")
	}
	if q.Evaluate(Submission{Selected: []string{"Mitochondria", "cell"}}) {
		t.Fatalf("expected case mismatch to be incorrect")
	}
}

func TestEvaluateAssociation(t *testing.T) {
	q := Question{
		Type:           TypeAssociation,
		Options:        []string{"H2O", "NaCl"},
		CorrectAnswers: []string{"water", "salt"},
	}

	pairs := []Pair{{Left: "NaCl", Right: "salt"}, {Left: "H2O", Right: "water"}}
	if !q.Evaluate(Submission{Pairs: pairs}) {
		t.Fatalf("expected zipped pairs to be correct")
	}
	if q.Evaluate(Submission{Pairs: pairs[:1]}) {
		t.Fatalf("expected missing pair to be incorrect")
	}
}

func TestEvaluateFillBlankChoiceIsPositional(t *testing.T) {
	q := Question{
		Type:           TypeFillBlankChoice,
		Options:        []string{"goes", "went", "gone"},
		CorrectAnswers: []string{"went", "gone"},
	}

	if !q.Evaluate(Submission{Selected: []string{"went", "gone"}}) {
		t.Fatalf("expected positional match to be correct")
	}
	if q.Evaluate(Submission{Selected: []string{"gone", "went"}}) {
		t.Fatalf("expected swapped blanks to be incorrect")
	}
}

func TestEvaluateUnknownTypeIsIncorrect(t *testing.T) {
	q := Question{Type: QuestionType("P99"), CorrectAnswers: []string{"A"}}
	if q.Evaluate(Submission{Selected: []string{"A"}}) {
		t.Fatalf("expected unknown type to never be correct")
	}
}
