package knowledge

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

const collectionName = "first_aid"

// Embedder turns text into vectors. langchaingo embedders satisfy it.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// NewOpenAIEmbedder builds a langchaingo embedder against any
// OpenAI-compatible embeddings endpoint.
func NewOpenAIEmbedder(baseURL, model, apiKey string) (Embedder, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("embeddings base URL required")
	}
	if apiKey == "" {
		// langchaingo requires a token even for servers that ignore it
		apiKey = "placeholder"
	}

	llm, err := openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithModel(model),
		openai.WithEmbeddingModel(model),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	return embedder, nil
}

// VectorRetriever ranks documents by cosine similarity in an in-memory
// chromem collection.
type VectorRetriever struct {
	collection *chromem.Collection
	docs       map[string]Document
}

// NewVectorRetriever embeds every document once and indexes it.
func NewVectorRetriever(ctx context.Context, embedder Embedder, docs []Document) (*VectorRetriever, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Title + "\n" + d.Content
	}
	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("embedding documents: got %d vectors for %d documents", len(vectors), len(docs))
	}

	db := chromem.NewDB()
	collection, err := db.CreateCollection(collectionName, nil, func(ctx context.Context, text string) ([]float32, error) {
		return embedder.EmbedQuery(ctx, text)
	})
	if err != nil {
		return nil, fmt.Errorf("creating collection: %w", err)
	}

	byID := make(map[string]Document, len(docs))
	chromemDocs := make([]chromem.Document, len(docs))
	for i, d := range docs {
		byID[d.ID] = d
		chromemDocs[i] = chromem.Document{
			ID:        d.ID,
			Metadata:  map[string]string{"category": d.Category},
			Embedding: vectors[i],
			Content:   texts[i],
		}
	}
	// Embeddings are precomputed, so one worker is enough.
	if err := collection.AddDocuments(ctx, chromemDocs, 1); err != nil {
		return nil, fmt.Errorf("adding documents: %w", err)
	}

	return &VectorRetriever{collection: collection, docs: byID}, nil
}

func (r *VectorRetriever) Retrieve(ctx context.Context, query string, k int) ([]Match, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	if k <= 0 {
		return []Match{}, nil
	}
	if n := r.collection.Count(); k > n {
		k = n
	}

	results, err := r.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying collection: %w", err)
	}

	matches := make([]Match, 0, len(results))
	for _, res := range results {
		d, ok := r.docs[res.ID]
		if !ok {
			continue
		}
		matches = append(matches, Match{Document: d, Score: float64(res.Similarity)})
	}
	return matches, nil
}
