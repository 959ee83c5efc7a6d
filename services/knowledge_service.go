package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/maous26/lvmeal-sub008/models"

	"gorm.io/gorm"
)

// Passage is one ranked knowledge-base extract fed to the answer
// prompt. ID is the citation key the model is asked to reference.
type Passage struct {
	ID         string  `json:"id"`
	Content    string  `json:"content"`
	Source     string  `json:"source"`
	Category   string  `json:"category"`
	Similarity float64 `json:"similarity"`
}

// GroundedAnswer is the final output of the Q&A flow: an answer whose
// factual claims cite the passages it was built from.
type GroundedAnswer struct {
	Answer     string    `json:"answer"`
	Citations  []string  `json:"citations"`
	Confidence float64   `json:"confidence"`
	Passages   []Passage `json:"passages"`
}

// KnowledgeService answers user questions against the coaching
// knowledge base. Retrieval goes through a vector RPC when one is
// configured and falls back to a keyword search over the local
// KnowledgeEntry table otherwise.
type KnowledgeService struct {
	db        *gorm.DB
	llm       *LLMClient
	vectorURL string
	vectorKey string
	client    *http.Client
}

func NewKnowledgeService(db *gorm.DB, llm *LLMClient) *KnowledgeService {
	return &KnowledgeService{
		db:        db,
		llm:       llm,
		vectorURL: os.Getenv("VECTOR_STORE_URL"),
		vectorKey: os.Getenv("VECTOR_STORE_KEY"),
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type matchDocumentsRequest struct {
	QueryEmbedding []float64 `json:"query_embedding"`
	MatchCount     int       `json:"match_count"`
	FilterCategory string    `json:"filter_category,omitempty"`
}

type matchDocumentRow struct {
	ID         string  `json:"id"`
	Content    string  `json:"content"`
	SourceTag  string  `json:"source_tag"`
	Category   string  `json:"category"`
	Similarity float64 `json:"similarity"`
}

// searchVector calls the match_documents RPC of the vector store with
// the query embedding and returns ranked passages.
func (s *KnowledgeService) searchVector(ctx context.Context, query, category string, limit int) ([]Passage, error) {
	embedding, err := s.llm.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	reqBody := matchDocumentsRequest{
		QueryEmbedding: embedding,
		MatchCount:     limit,
		FilterCategory: category,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal match request: %w", err)
	}

	u := strings.TrimRight(s.vectorURL, "/") + "/rest/v1/rpc/match_documents"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create match request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.vectorKey)
	req.Header.Set("Authorization", "Bearer "+s.vectorKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call vector store: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read vector response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vector store error %d: %s", resp.StatusCode, string(body))
	}

	var rows []matchDocumentRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse vector response: %w", err)
	}

	passages := make([]Passage, 0, len(rows))
	for _, r := range rows {
		passages = append(passages, Passage{
			ID:         r.ID,
			Content:    r.Content,
			Source:     r.SourceTag,
			Category:   r.Category,
			Similarity: r.Similarity,
		})
	}
	return passages, nil
}

// searchKeyword is the degraded path over the local table: naive LIKE
// matching on the query terms, most recent entries first.
func (s *KnowledgeService) searchKeyword(ctx context.Context, query, category string, limit int) ([]Passage, error) {
	q := s.db.WithContext(ctx).Model(&models.KnowledgeEntry{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	for _, term := range strings.Fields(query) {
		if len(term) < 4 {
			continue
		}
		q = q.Where("content LIKE ?", "%"+term+"%")
	}

	var entries []models.KnowledgeEntry
	if err := q.Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}

	passages := make([]Passage, 0, len(entries))
	for _, e := range entries {
		id := e.ExternalID
		if id == "" {
			id = strconv.FormatUint(uint64(e.ID), 10)
		}
		passages = append(passages, Passage{
			ID:       id,
			Content:  e.Content,
			Source:   e.SourceTag,
			Category: e.Category,
		})
	}
	return passages, nil
}

// Search returns ranked passages for a query, preferring the vector
// store and falling back to keywords when it is absent or failing.
func (s *KnowledgeService) Search(ctx context.Context, query, category string, limit int) ([]Passage, error) {
	if limit <= 0 || limit > 20 {
		limit = 5
	}
	if s.vectorURL != "" && s.llm.Configured() {
		passages, err := s.searchVector(ctx, query, category, limit)
		if err == nil {
			return passages, nil
		}
		log.Printf("vector search failed, falling back to keywords: %v", err)
	}
	return s.searchKeyword(ctx, query, category, limit)
}

type rewriteResult struct {
	Queries  []string `json:"queries"`
	Category string   `json:"category"`
}

// AnswerQuestion runs the full grounded Q&A flow: rewrite the question
// into search queries, retrieve passages, then generate an answer that
// cites them. Without passages it declines rather than inventing.
func (s *KnowledgeService) AnswerQuestion(ctx context.Context, user models.User, question string) (*GroundedAnswer, error) {
	if !s.llm.Configured() {
		return nil, ErrLLMNotConfigured
	}

	queries := []string{question}
	category := ""
	var rewrite rewriteResult
	err := s.llm.ChatJSON(ctx, []ChatMessage{
		{Role: "system", Content: "You rewrite questions into knowledge-base search queries."},
		{Role: "user", Content: BuildRewritePrompt(question, user)},
	}, 0.3, &rewrite)
	if err != nil {
		log.Printf("query rewrite failed, searching with the raw question: %v", err)
	} else if len(rewrite.Queries) > 0 {
		queries = rewrite.Queries
		category = rewrite.Category
	}

	seen := make(map[string]bool)
	var passages []Passage
	for _, q := range queries {
		found, err := s.Search(ctx, q, category, 4)
		if err != nil {
			log.Printf("knowledge search %q failed: %v", q, err)
			continue
		}
		for _, p := range found {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			passages = append(passages, p)
		}
	}
	if len(passages) > 8 {
		passages = passages[:8]
	}

	if len(passages) == 0 {
		return &GroundedAnswer{
			Answer:     "Je n'ai pas trouvé d'information fiable pour répondre à cette question. Reformulez-la ou consultez un professionnel de santé.",
			Confidence: 0,
		}, nil
	}

	var answer GroundedAnswer
	err = s.llm.ChatJSON(ctx, []ChatMessage{
		{Role: "system", Content: "You answer strictly from the provided passages and cite them."},
		{Role: "user", Content: BuildAnswerPrompt(question, passages, user)},
	}, 0.2, &answer)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}
	answer.Passages = passages
	return &answer, nil
}
