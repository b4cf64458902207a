package postag

import "testing"

func TestStringParseRoundTrip(t *testing.T) {
	for _, tag := range []Tag{NNG, VV, EF, JKS, ZSIOT, ZCODA, Unknown} {
		name := tag.String()
		if got := Parse(name); got != tag {
			t.Errorf("Parse(%q) = %v, want %v", name, got, tag)
		}
	}
}

func TestParseUnknownName(t *testing.T) {
	if got := Parse("NOT_A_TAG"); got != Unknown {
		t.Errorf("Parse(unknown) = %v, want Unknown", got)
	}
}

func TestClassPredicates(t *testing.T) {
	if !IsNoun(NNG) || IsNoun(VV) {
		t.Error("IsNoun misclassifies")
	}
	if !IsPredicate(VV) || IsPredicate(NNG) {
		t.Error("IsPredicate misclassifies")
	}
	if !IsEnding(EF) || IsEnding(NNG) {
		t.Error("IsEnding misclassifies")
	}
	if !IsSpecial(SF) || IsSpecial(NNG) {
		t.Error("IsSpecial misclassifies")
	}
}
