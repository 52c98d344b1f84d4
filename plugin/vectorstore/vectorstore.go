package vectorstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"
)

const (
	collectionName = "safar_travel_policies"

	// DefaultMinScore is the lowest similarity still reported as a match.
	DefaultMinScore = 0.1
)

// SearchResult is a single policy hit.
type SearchResult struct {
	ID      string
	Content string
	Score   float32
}

// Store is an in-process policy index. Records are paragraphs of the policy
// corpus; an exact phrase match always wins over vector similarity.
type Store struct {
	mu       sync.RWMutex
	db       *chromem.DB
	col      *chromem.Collection
	embedFn  chromem.EmbeddingFunc
	docs     []chromem.Document
	minScore float32
}

// New creates an empty index. A nil embedFunc selects LocalEmbedding.
func New(embedFunc chromem.EmbeddingFunc) (*Store, error) {
	if embedFunc == nil {
		embedFunc = LocalEmbedding
	}
	db := chromem.NewDB()
	col, err := db.CreateCollection(collectionName, nil, embedFunc)
	if err != nil {
		return nil, fmt.Errorf("create policy collection: %w", err)
	}
	return &Store{db: db, col: col, embedFn: embedFunc, minScore: DefaultMinScore}, nil
}

// NewOpenAICompatEmbedding returns an embedding function backed by an
// OpenAI-compatible embeddings endpoint.
func NewOpenAICompatEmbedding(baseURL, apiKey, model string) chromem.EmbeddingFunc {
	return chromem.NewEmbeddingFuncOpenAICompat(strings.TrimRight(baseURL, "/"), apiKey, model, nil)
}

// SetMinScore changes the similarity threshold below which Search reports no match.
func (s *Store) SetMinScore(score float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minScore = score
}

// SplitRecords splits a corpus into blank-line separated, trimmed records.
func SplitRecords(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	var records []string
	for _, part := range strings.Split(content, "\n\n") {
		if part = strings.TrimSpace(part); part != "" {
			records = append(records, part)
		}
	}
	return records
}

// LoadFile indexes the corpus at path. A missing or empty file leaves the
// index empty and is reported as an error for the caller to log.
func (s *Store) LoadFile(ctx context.Context, path string) (int, error) {
	if s.Count() > 0 {
		slog.Debug("policy index already loaded", "documents", s.Count())
		return s.Count(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read policy corpus: %w", err)
	}
	records := SplitRecords(string(raw))
	if len(records) == 0 {
		return 0, fmt.Errorf("policy corpus %s is empty", path)
	}
	if err := s.Index(ctx, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Index adds records to the index with ids doc_<n>.
func (s *Store) Index(ctx context.Context, records []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := make([]chromem.Document, 0, len(records))
	for i, record := range records {
		docs = append(docs, chromem.Document{
			ID:      fmt.Sprintf("doc_%d", len(s.docs)+i),
			Content: record,
		})
	}
	if err := s.col.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("index policy records: %w", err)
	}
	s.docs = append(s.docs, docs...)
	return nil
}

// Count returns the number of indexed records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Search returns up to k records matching query, best first. Records that
// contain the query verbatim (after normalization) come first with score 1.
func (s *Store) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.docs) == 0 || k <= 0 {
		return nil, nil
	}
	needle := Normalize(query)
	if needle == "" {
		return nil, nil
	}

	var out []SearchResult
	seen := make(map[string]bool)
	for _, doc := range s.docs {
		if len(out) == k {
			return out, nil
		}
		if strings.Contains(Normalize(doc.Content), needle) {
			out = append(out, SearchResult{ID: doc.ID, Content: doc.Content, Score: 1})
			seen[doc.ID] = true
		}
	}

	n := min(k, len(s.docs))
	results, err := s.col.Query(ctx, query, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query policy index: %w", err)
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Similarity > results[j].Similarity })
	for _, r := range results {
		if len(out) == k {
			break
		}
		if seen[r.ID] || r.Similarity < s.minScore {
			continue
		}
		out = append(out, SearchResult{ID: r.ID, Content: r.Content, Score: r.Similarity})
	}
	return out, nil
}
