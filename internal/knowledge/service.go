package knowledge

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

const noGuidance = "No specific guidance found for this query."

// Guidance is first-aid text compiled from the best matching documents.
type Guidance struct {
	Query   string   `json:"query"`
	Text    string   `json:"guidance"`
	Sources []string `json:"sources"`
	Matches []Match  `json:"retrieved_documents"`
}

// Service answers guidance lookups. Retrieval failures never reach callers:
// the primary retriever falls back to keyword matching.
type Service struct {
	docs     []Document
	primary  Retriever
	fallback *KeywordRetriever
	topK     int
	logger   *zap.Logger
}

// NewService builds a service over docs. primary may be nil, in which case
// keyword retrieval is used for every query.
func NewService(docs []Document, primary Retriever, topK int, logger *zap.Logger) (*Service, error) {
	fallback, err := NewKeywordRetriever(docs)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if topK <= 0 {
		topK = 3
	}
	return &Service{
		docs:     append([]Document(nil), docs...),
		primary:  primary,
		fallback: fallback,
		topK:     topK,
		logger:   logger,
	}, nil
}

func (s *Service) Guidance(ctx context.Context, query string) Guidance {
	matches := s.retrieve(ctx, query)

	g := Guidance{
		Query:   query,
		Text:    compile(matches),
		Sources: make([]string, len(matches)),
		Matches: matches,
	}
	for i, m := range matches {
		g.Sources[i] = m.Document.ID
	}
	return g
}

func (s *Service) retrieve(ctx context.Context, query string) []Match {
	if s.primary != nil {
		matches, err := s.primary.Retrieve(ctx, query, s.topK)
		if err == nil {
			return matches
		}
		s.logger.Warn("vector retrieval failed, using keyword retrieval",
			zap.String("query", query),
			zap.Error(err),
		)
	}
	// Keyword retrieval is in-memory and cannot fail.
	matches, _ := s.fallback.Retrieve(ctx, query, s.topK)
	return matches
}

func compile(matches []Match) string {
	if len(matches) == 0 {
		return noGuidance
	}
	var b strings.Builder
	for _, m := range matches {
		b.WriteString("\n### ")
		b.WriteString(m.Document.Title)
		b.WriteString(m.Document.Content)
	}
	return b.String()
}

// EmergencyProtocols returns every emergency document in catalog order.
func (s *Service) EmergencyProtocols() []Document {
	var out []Document
	for _, d := range s.docs {
		if d.Category == CategoryEmergency {
			out = append(out, d)
		}
	}
	return out
}

func (s *Service) Document(id string) (Document, bool) {
	for _, d := range s.docs {
		if d.ID == id {
			return d, true
		}
	}
	return Document{}, false
}
