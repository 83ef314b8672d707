package phoneme

import (
	"fmt"
	"strings"
)

// Aligner segments an unsegmented phone string into individual phones by
// greedy longest-match against a fixed phone set. This is what makes
// caller-supplied phone spans like "hantɪr" usable: the span carries no
// segment boundaries, so we have to recover them.
type Aligner struct {
	set    map[string]struct{}
	maxLen int // longest phone, in runes
}

// NewAligner builds an aligner over the given phone set.
func NewAligner(phones []string) *Aligner {
	a := &Aligner{set: make(map[string]struct{}, len(phones))}
	for _, ph := range phones {
		a.set[ph] = struct{}{}
		if n := len([]rune(ph)); n > a.maxLen {
			a.maxLen = n
		}
	}
	return a
}

// Align splits s into phones. ASCII spaces are ignored; any other symbol that
// cannot start a phone from the set is an error.
func (a *Aligner) Align(s string) (PhoneSeq, error) {
	runes := []rune(strings.ReplaceAll(s, " ", ""))
	var out PhoneSeq
	for i := 0; i < len(runes); {
		max := a.maxLen
		if rem := len(runes) - i; rem < max {
			max = rem
		}
		matched := 0
		for l := max; l >= 1; l-- {
			if _, ok := a.set[string(runes[i:i+l])]; ok {
				matched = l
				break
			}
		}
		if matched == 0 {
			return nil, fmt.Errorf("invalid symbol at %q in phone string %q", string(runes[i:]), s)
		}
		out = append(out, string(runes[i:i+matched]))
		i += matched
	}
	return out, nil
}

var (
	alignerIPA    = NewAligner(keys(ipaToXSAMPA))
	alignerXSAMPA = NewAligner(keys(xsampaToIPA))
)

func keys(m map[string]string) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	return ks
}

// AlignIPA segments an unsegmented IPA phone string.
func AlignIPA(s string) (PhoneSeq, error) {
	return alignerIPA.Align(s)
}

// AlignIPAFromXSAMPA segments an unsegmented X-SAMPA phone string and returns
// the result converted to IPA.
func AlignIPAFromXSAMPA(s string) (PhoneSeq, error) {
	xs, err := alignerXSAMPA.Align(s)
	if err != nil {
		return nil, err
	}
	return ConvertXSAMPAToIPA(xs)
}
