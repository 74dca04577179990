package locate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aidanlsb/pastesearch/internal/document"
	"github.com/aidanlsb/pastesearch/internal/model"
)

var (
	// ErrEmptyQuery is returned when there is no text to search for.
	ErrEmptyQuery = errors.New("query text is empty")
	// ErrNoDocuments is returned when the document set is empty.
	ErrNoDocuments = errors.New("no documents to search")
)

// Defaults for Options.
const (
	DefaultBestMatchThreshold = 80.0
	DefaultContextChars       = 50
)

// Options configures an Engine.
type Options struct {
	// Strategies to run, in order. Empty means all of them.
	Strategies          []model.StrategyID
	SimilarityThreshold float64
	BestMatchThreshold  float64
	ContextChars        int
	Logger              *slog.Logger
}

// Engine runs the strategy chain over a document set.
type Engine struct {
	strategies   []Strategy
	thresholds   model.Thresholds
	contextChars int
	logger       *slog.Logger
	now          func() time.Time
}

// NewEngine builds an engine. Zero-valued options take their defaults.
func NewEngine(opts Options) (*Engine, error) {
	if opts.SimilarityThreshold <= 0 {
		opts.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if opts.BestMatchThreshold <= 0 {
		opts.BestMatchThreshold = DefaultBestMatchThreshold
	}
	if opts.ContextChars <= 0 {
		opts.ContextChars = DefaultContextChars
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	ids := opts.Strategies
	if len(ids) == 0 {
		ids = model.AllStrategies()
	}

	e := &Engine{
		thresholds: model.Thresholds{
			Similarity: opts.SimilarityThreshold,
			BestMatch:  opts.BestMatchThreshold,
		},
		contextChars: opts.ContextChars,
		logger:       opts.Logger,
		now:          time.Now,
	}
	for _, id := range ids {
		s, err := New(id, opts.SimilarityThreshold)
		if err != nil {
			return nil, err
		}
		e.strategies = append(e.strategies, s)
	}
	return e, nil
}

// Run executes every strategy over docs, in walk order, and returns the
// validated matches.
func (e *Engine) Run(ctx context.Context, docs []*document.Document, query string) (*ResultSet, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	rs := NewResultSet()
	for _, s := range e.strategies {
		outcome := model.Outcome{Strategy: s.ID()}
		for _, doc := range docs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			c, ok := s.Locate(doc, query)
			if !ok {
				continue
			}
			if err := Validate(s, doc, query, c); err != nil {
				outcome.Rejected++
				e.logger.Debug("candidate rejected",
					"strategy", s.ID().String(),
					"path", doc.Path,
					"start", c.Start,
					"end", c.End,
					"error", err)
				continue
			}

			if rs.Add(e.rankedMatch(doc, query, c)) {
				outcome.Matched++
			}
			if s.StopsAtFirstHit() {
				outcome.Stopped = true
				break
			}
		}
		e.logger.Debug("strategy finished",
			"strategy", s.ID().String(),
			"matched", outcome.Matched,
			"rejected", outcome.Rejected)
		rs.addOutcome(outcome)
	}
	return rs, nil
}

// Search runs the strategies and packages the ranked result as a pass.
func (e *Engine) Search(ctx context.Context, root string, docs []*document.Document, query string) (*model.SearchPass, error) {
	rs, err := e.Run(ctx, docs, query)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	ids := make([]model.StrategyID, len(e.strategies))
	for i, s := range e.strategies {
		ids[i] = s.ID()
	}

	return &model.SearchPass{
		ID:          uuid.NewString(),
		Root:        root,
		CreatedAt:   e.now().UTC(),
		Strategies:  ids,
		Thresholds:  e.thresholds,
		QueryLength: len(query),
		Outcomes:    rs.Outcomes(),
		Matches:     rs.Ranked(),
	}, nil
}

func (e *Engine) rankedMatch(doc *document.Document, query string, c Candidate) model.RankedMatch {
	return model.NewRankedMatch(model.MatchInput{
		Name:       doc.Name,
		Path:       doc.Path,
		RelPath:    doc.RelPath,
		Strategy:   c.Strategy,
		BOMLength:  doc.BOMLength,
		Similarity: c.Similarity,
		Start:      c.Start,
		End:        c.End,
		Query:      query,
		Excerpt:    c.Excerpt,
		Context:    doc.Context(c.Start, c.End, e.contextChars),
	})
}
