package embeddings

import (
	"context"
	"fmt"
	"math"

	"google.golang.org/genai"
)

const defaultModel = "gemini-embedding-001"

// Service embeds texts and compares them with cosine similarity. It is a
// best-effort side channel for semantic alignment scoring: callers treat a
// nil service or a failed call as "no alignment signal", never as a failure
// of the overall extraction.
type Service struct {
	client *genai.Client
	model  string
}

// New creates an embedding service backed by the Gemini embedding API.
// Returns an error when the client cannot be constructed.
func New(ctx context.Context, apiKey string) (*Service, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("embeddings: api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings: failed to create client: %w", err)
	}

	return &Service{client: client, model: defaultModel}, nil
}

// Embed returns the embedding vector for one text
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := s.client.Models.EmbedContent(ctx, s.model, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("embeddings: embed content: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("embeddings: empty embedding returned")
	}
	return resp.Embeddings[0].Values, nil
}

// Similarity embeds both texts and returns their cosine similarity
func (s *Service) Similarity(ctx context.Context, a, b string) (float64, error) {
	va, err := s.Embed(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := s.Embed(ctx, b)
	if err != nil {
		return 0, err
	}
	return CosineSimilarity(va, vb), nil
}

// CosineSimilarity computes the cosine similarity of two vectors.
// Returns 0 for mismatched lengths or zero vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
