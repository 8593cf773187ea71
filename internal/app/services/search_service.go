package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/aslmarket/backend/internal/app/models/dto"
	"github.com/aslmarket/backend/internal/app/repositories"
	"github.com/aslmarket/backend/internal/pkg/debounce"
	"github.com/aslmarket/backend/internal/pkg/websocket"
	"github.com/rs/zerolog"
)

const (
	defaultSearchLimit = 5
	liveSearchMinRunes = 2
	liveSearchTimeout  = 5 * time.Second
)

// SearchService runs the cross-entity search
type SearchService interface {
	Search(ctx context.Context, query string) (*dto.SearchResponse, error)
	NewLiveSession(ctx context.Context) *LiveSearchSession
}

type searchServiceImpl struct {
	repo          repositories.ISearchRepository
	limit         int
	debounceDelay time.Duration
	logger        zerolog.Logger
}

// NewSearchService creates a new SearchService; limit caps the hits per category
func NewSearchService(repo repositories.ISearchRepository, limit int, debounceDelay time.Duration, logger zerolog.Logger) SearchService {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	return &searchServiceImpl{
		repo:          repo,
		limit:         limit,
		debounceDelay: debounceDelay,
		logger:        logger,
	}
}

type searchCategory struct {
	run    func(ctx context.Context, term string, limit int) ([]dto.SearchHit, error)
	urlFmt string
	dst    *[]dto.SearchHit
}

// Search queries every category in parallel. A blank query is rejected.
func (s *searchServiceImpl) Search(ctx context.Context, query string) (*dto.SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationError("search query is required")
	}

	resp := dto.NewSearchResponse(query)
	categories := []searchCategory{
		{s.repo.SearchSuppliers, "/suppliers/%d", &resp.Suppliers},
		{s.repo.SearchVisitors, "/visitors/%d", &resp.Visitors},
		{s.repo.SearchResearchProducts, "/research-products/%d", &resp.ResearchProducts},
		{s.repo.SearchProducts, "/products/%d", &resp.Products},
		{s.repo.SearchEducation, "/education/%d", &resp.Education},
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, cat := range categories {
		wg.Add(1)
		go func(cat searchCategory) {
			defer wg.Done()
			hits, err := cat.run(ctx, query, s.limit)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			for i := range hits {
				hits[i].URL = fmt.Sprintf(cat.urlFmt, hits[i].ID)
			}
			*cat.dst = hits
		}(cat)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	resp.Total = len(resp.Suppliers) + len(resp.Visitors) + len(resp.ResearchProducts) + len(resp.Products) + len(resp.Education)
	return resp, nil
}

// LiveSearchSession debounces the keystroke frames of one search socket
type LiveSearchSession struct {
	ctx       context.Context
	search    func(ctx context.Context, query string) (*dto.SearchResponse, error)
	debouncer *debounce.Debouncer
	logger    zerolog.Logger

	mu  sync.Mutex
	seq uint64
}

// NewLiveSession starts a session bound to the socket's lifetime ctx
func (s *searchServiceImpl) NewLiveSession(ctx context.Context) *LiveSearchSession {
	return &LiveSearchSession{
		ctx:       ctx,
		search:    s.Search,
		debouncer: debounce.New(s.debounceDelay),
		logger:    s.logger,
	}
}

// Handle takes one client frame. Results go through reply once the
// input has been quiet for the debounce delay; replies to superseded
// queries are dropped.
func (l *LiveSearchSession) Handle(payload []byte, reply func(*websocket.Message) bool) {
	var req dto.LiveSearchRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		reply(&websocket.Message{Type: websocket.MessageTypeError, Content: "invalid search frame"})
		return
	}

	query := strings.TrimSpace(req.Query)
	seq := l.next()

	if utf8.RuneCountInString(query) < liveSearchMinRunes {
		l.debouncer.Stop()
		reply(&websocket.Message{Type: websocket.MessageTypeResults, Payload: dto.NewSearchResponse(query)})
		return
	}

	l.debouncer.Trigger(func() {
		ctx, cancel := context.WithTimeout(l.ctx, liveSearchTimeout)
		defer cancel()

		resp, err := l.search(ctx, query)
		if !l.current(seq) {
			return
		}
		if err != nil {
			l.logger.Error().Err(err).Str("query", query).Msg("Live search failed")
			reply(&websocket.Message{Type: websocket.MessageTypeError, Content: "search failed"})
			return
		}
		reply(&websocket.Message{Type: websocket.MessageTypeResults, Payload: resp})
	})
}

// Close cancels any pending search
func (l *LiveSearchSession) Close() {
	l.debouncer.Stop()
}

func (l *LiveSearchSession) next() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	return l.seq
}

func (l *LiveSearchSession) current(seq uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq == seq
}
