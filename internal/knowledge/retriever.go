// Package knowledge retrieves curated first-aid guidance for a symptom.
package knowledge

import (
	"context"
	"errors"
	"sort"
	"strings"
)

// ErrNoDocuments is returned when a retriever is built over an empty catalog.
var ErrNoDocuments = errors.New("knowledge: no documents")

// Match is a retrieved document with its relevance score.
type Match struct {
	Document Document `json:"document"`
	Score    float64  `json:"relevance_score"`
}

// Retriever ranks documents against a free-text query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]Match, error)
}

// KeywordRetriever scores documents by Jaccard similarity of lowercase
// whitespace tokens. It needs no external service.
type KeywordRetriever struct {
	docs   []Document
	tokens []map[string]struct{}
}

func NewKeywordRetriever(docs []Document) (*KeywordRetriever, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	r := &KeywordRetriever{
		docs:   append([]Document(nil), docs...),
		tokens: make([]map[string]struct{}, len(docs)),
	}
	for i, d := range docs {
		r.tokens[i] = tokenSet(d.Title + " " + d.Content)
	}
	return r, nil
}

// Retrieve returns up to k documents sharing at least one token with the
// query, best first. Equal scores keep catalog order.
//
// Zero-score documents are deliberately never padded into the result, and
// ties are not reversed: an unrelated query yields no guidance instead of
// the last k catalog entries.
func (r *KeywordRetriever) Retrieve(_ context.Context, query string, k int) ([]Match, error) {
	q := tokenSet(query)
	if len(q) == 0 || k <= 0 {
		return []Match{}, nil
	}

	matches := make([]Match, 0, len(r.docs))
	for i, d := range r.docs {
		if score := jaccard(q, r.tokens[i]); score > 0 {
			matches = append(matches, Match{Document: d, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func tokenSet(text string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
