package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
)

// SearchResult is one answered query.
type SearchResult struct {
	Query   string
	Summary string
}

// WebSearcher answers a single query. The transport behind it (search API,
// scraper) lives outside this package; generation only needs text back.
type WebSearcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// staticSearcher answers from a built-in corpus keyed by topic keywords. It is
// the offline default so the agent works without a search backend configured.
type staticSearcher struct {
	log *logger.Logger
}

func NewStaticSearcher(log *logger.Logger) WebSearcher {
	return &staticSearcher{log: log.With("service", "StaticSearcher")}
}

var staticCorpus = []struct {
	keywords []string
	summary  string
}{
	{
		keywords: []string{"deadline", "application deadline", "admission"},
		summary:  "Most US graduate programs close applications mid-December for fall intake; UK programs run rolling admissions into spring. Always confirm on the program page.",
	},
	{
		keywords: []string{"scholarship", "funding", "fellowship"},
		summary:  "Common funding routes: university assistantships, Fulbright and Chevening for international students, and department-level fellowships announced each autumn.",
	},
	{
		keywords: []string{"ielts", "toefl", "language requirement"},
		summary:  "Typical graduate admission thresholds: IELTS 6.5-7.0 overall or TOEFL 90-100, with some programs requiring per-band minimums.",
	},
	{
		keywords: []string{"professor", "faculty", "research group", "lab"},
		summary:  "Faculty pages list current projects and accepted-student notes; cold emails convert best when they cite one specific recent paper.",
	},
	{
		keywords: []string{"salary", "job market", "hiring"},
		summary:  "Hiring for early-career roles concentrates in Q1 and Q3; referrals roughly triple response rates over cold applications.",
	},
	{
		keywords: []string{"interview", "interview process"},
		summary:  "Standard technical interview loops run 3-5 rounds over 2-4 weeks; behavioral rounds consistently probe for ownership stories with measurable outcomes.",
	},
	{
		keywords: []string{"visa", "student visa", "work permit"},
		summary:  "Student visa processing commonly takes 3-8 weeks after admission; financial proof requirements vary by country and must predate the application.",
	},
}

func (s *staticSearcher) Search(ctx context.Context, query string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	q := strings.ToLower(query)
	for _, entry := range staticCorpus {
		for _, kw := range entry.keywords {
			if strings.Contains(q, kw) {
				return entry.summary, nil
			}
		}
	}
	s.log.Debug("no static answer for query", "query", query)
	return "", fmt.Errorf("no result for query %q", query)
}
