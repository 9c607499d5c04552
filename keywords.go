package main

import (
	"sort"
	"strings"
)

// KeywordInfo is one reserved word of the relevance language with the
// one-line description shown by autocomplete and the command palette.
type KeywordInfo struct {
	Word string
	Desc string
}

var relevanceKeywords = []KeywordInfo{
	{"if", "conditional: if <cond> then <a> else <b>"},
	{"then", "value when the condition holds"},
	{"else", "value when the condition fails"},
	{"of", "property access: name of operating system"},
	{"whose", "filter a plural by a condition on it"},
	{"where", "filter, synonym shape of whose"},
	{"it", "the object bound by the enclosing whose/of"},
	{"its", "possessive form of it"},
	{"them", "plural pronoun for the filtered objects"},
	{"as", "cast: version of client as string"},
	{"exists", "true when the expression yields a value"},
	{"not", "logical negation"},
	{"and", "logical conjunction"},
	{"or", "logical disjunction"},
	{"contains", "substring test"},
	{"starts", "starts with: prefix test"},
	{"ends", "ends with: suffix test"},
	{"with", "second word of starts with / ends with"},
	{"equals", "equality test spelled out"},
	{"mod", "integer remainder"},
	{"a", "indefinite article, singular creation"},
	{"an", "indefinite article, singular creation"},
	{"the", "definite article"},
	{"number", "count a plural: number of processes"},
	{"string", "string type name"},
	{"boolean", "boolean type name"},
	{"integer", "integer type name"},
	{"true", "boolean literal"},
	{"false", "boolean literal"},
	{"relative", "relative time or path qualifier"},
	{"absolute", "absolute time or path qualifier"},
}

// keywordCompletions returns the reserved words starting with prefix,
// sorted. An empty prefix returns the whole set.
func keywordCompletions(prefix string) []string {
	p := strings.ToLower(prefix)
	var out []string
	for _, k := range relevanceKeywords {
		if strings.HasPrefix(k.Word, p) {
			out = append(out, k.Word)
		}
	}
	sort.Strings(out)
	return out
}

// keywordDesc looks up the description for a reserved word, or "".
func keywordDesc(word string) string {
	w := strings.ToLower(word)
	for _, k := range relevanceKeywords {
		if k.Word == w {
			return k.Desc
		}
	}
	return ""
}
