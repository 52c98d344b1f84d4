package tools

import (
	"context"
	"fmt"

	"github.com/safartravel/safar/plugin/vectorstore"
)

// PolicyIndex is the searchable policy corpus.
type PolicyIndex interface {
	Count() int
	Search(ctx context.Context, query string, k int) ([]vectorstore.SearchResult, error)
}

type lookupPolicyTool struct {
	index PolicyIndex
}

// NewLookupPolicyTool answers policy questions from index. A nil index
// behaves like an empty corpus.
func NewLookupPolicyTool(index PolicyIndex) Tool {
	return &lookupPolicyTool{index: index}
}

func (t *lookupPolicyTool) Name() string { return "lookup_policy" }
func (t *lookupPolicyTool) Description() string {
	return "Performs a search on the policy database for company policies, FAQs, or rules."
}
func (t *lookupPolicyTool) Parameters() map[string]any {
	return buildParameters(map[string]any{
		"query": stringProperty("The user's question or topic to search for (e.g., 'قوانین استرداد', 'حداکثر بار مجاز')."),
	}, "query")
}
func (t *lookupPolicyTool) Call(ctx context.Context, input string) (string, error) {
	return callJSON(ctx, t, input)
}
func (t *lookupPolicyTool) Invoke(ctx context.Context, args Args) (Result, error) {
	if t.index == nil || t.index.Count() == 0 {
		return Errorf("Policy knowledge base is not available."), nil
	}
	query := args.String("query")
	if query == "" {
		return Errorf("A search query is required."), nil
	}
	hits, err := t.index.Search(ctx, query, 1)
	if err != nil {
		return Result{}, fmt.Errorf("search policies: %w", err)
	}
	if len(hits) == 0 {
		return Info("No direct match in the policy knowledge base."), nil
	}
	return Result{
		Status:         StatusSuccess,
		Message:        "Policy information retrieved from Safar Travel knowledge base.",
		RelevantPolicy: hits[0].Content,
	}, nil
}
