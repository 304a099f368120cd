package search

import "strings"

// expansion maps a recognized legal phrase to a broader retrieval string.
// Every term list repeats its trigger phrase, so expanding an already
// expanded string is a no-op rather than a narrowing.
type expansion struct {
	phrase string
	terms  string
}

// legalExpansions is matched in order, first match wins. Multi-word phrases
// come before their single-word prefixes so the most specific entry applies.
var legalExpansions = []expansion{
	{"domestic violence", "domestic violence cruelty husband relative woman harassment dowry 498"},
	{"dowry", "dowry death demand harassment cruelty bride 304 498"},
	{"cyber", "cybercrime electronic computer digital online document record"},
	{"hacking", "hacking computer unauthorized access electronic data system"},
	{"dacoity", "dacoity robbery gang armed five persons"},
	{"robbery", "robbery theft extortion force violence snatching"},
	{"murder", "murder culpable homicide death killing intention 302"},
	{"kidnapping", "kidnapping abduction wrongful confinement minor ransom"},
	{"theft", "theft dishonestly movable property stolen snatching"},
	{"rape", "rape sexual assault outraging modesty woman consent"},
	{"assault", "assault hurt grievous force criminal violence injury"},
	{"fraud", "fraud cheating dishonestly deception forgery property"},
	{"forgery", "forgery false document electronic record cheating"},
	{"bribery", "bribery corruption public servant gratification"},
	{"defamation", "defamation reputation imputation words publication"},
	{"trespass", "trespass criminal house-breaking property entry"},
	{"bail", "bail bailable anticipatory bond surety release"},
}

// Expand substitutes recognized legal shorthand with a broader
// synonym-bearing string for retrieval purposes only. The caller keeps the
// original query for display and lexical scoring. No match returns the
// query unchanged.
func Expand(query string) string {
	q := strings.ToLower(query)
	for _, e := range legalExpansions {
		if strings.Contains(q, e.phrase) {
			return e.terms
		}
	}
	return query
}
