// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package chatbot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"

	"github.com/tomtom215/cinebot/internal/config"
	"github.com/tomtom215/cinebot/internal/metrics"
	"github.com/tomtom215/cinebot/internal/models"
	"github.com/tomtom215/cinebot/internal/query"
)

// Intent is the rule a message was dispatched to.
type Intent string

// Similarity variant intents.
const (
	IntentGreeting  Intent = "greeting"
	IntentBestGenre Intent = "best_genre"
	IntentTopMovies Intent = "top_movies"
	IntentSimilar   Intent = "similar"
	IntentFallback  Intent = "fallback"
)

// Regression variant intents.
const (
	IntentImportance Intent = "importance"
	IntentMetrics    Intent = "metrics"
	IntentR2         Intent = "r2"
	IntentMSE        Intent = "mse"
)

var greetings = []string{"oi", "ola", "olá", "bom dia"}

// similarTriggers are stripped from the input in this order; the text after
// the last occurrence of each is kept.
var similarTriggers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)parecido com`),
	regexp.MustCompile(`(?i)recomende`),
	regexp.MustCompile(`(?i)similar a`),
}

// Querier is the subset of the query layer the responder needs.
// *query.Service satisfies it.
type Querier interface {
	BestGenre(ctx context.Context) (models.GenreRating, bool, error)
	TopMoviesByGenre(ctx context.Context, genre string, n int) ([]models.MovieRating, error)
	SimilarMovies(title string) (models.SimilarResult, error)
	RegressionInsights() query.RegressionInsights
}

// Responder maps free text to one of a fixed set of intents by keyword
// containment and answers it with a templated PT-BR reply.
type Responder struct {
	q       Querier
	variant string
	topN    int
	logger  zerolog.Logger
}

// NewResponder creates a responder for the given model variant.
func NewResponder(q Querier, variant string, topN int, logger zerolog.Logger) *Responder {
	if topN <= 0 {
		topN = 5
	}
	return &Responder{
		q:       q,
		variant: variant,
		topN:    topN,
		logger:  logger.With().Str("component", "chatbot").Logger(),
	}
}

// Variant returns the model variant the responder answers for.
func (r *Responder) Variant() string {
	return r.variant
}

// Respond answers text within session. It always returns a reply; failures
// become fixed user-facing messages. session may be nil.
func (r *Responder) Respond(ctx context.Context, session *Session, text string) string {
	text = norm.NFC.String(text)
	if session != nil {
		session.Append(RoleUser, text)
	}

	var intent Intent
	var reply string
	if r.variant == config.VariantRegression {
		intent, reply = r.respondRegression(text)
	} else {
		intent, reply = r.respondSimilarity(ctx, text)
	}

	metrics.RecordChatIntent(string(intent))
	if session != nil {
		session.Append(RoleAssistant, reply)
	}
	return reply
}

// Classify returns the intent text would be dispatched to.
func (r *Responder) Classify(text string) Intent {
	lowered := lowerPT(norm.NFC.String(text))
	if r.variant == config.VariantRegression {
		return classifyRegression(lowered)
	}
	return classifySimilarity(lowered)
}

func classifySimilarity(lowered string) Intent {
	trimmed := strings.TrimSpace(lowered)
	for _, g := range greetings {
		if trimmed == g {
			return IntentGreeting
		}
	}

	switch {
	case strings.Contains(lowered, "melhor") && strings.Contains(lowered, "gênero"):
		return IntentBestGenre
	case containsAny(lowered, "filmes de", "top filmes"):
		return IntentTopMovies
	case containsAny(lowered, "recomende", "parecido com", "similar a"):
		return IntentSimilar
	default:
		return IntentFallback
	}
}

func classifyRegression(lowered string) Intent {
	switch {
	case containsAny(lowered, "importante", "relevante", "influencia"):
		return IntentImportance
	case containsAny(lowered, "métrica", "performance", "desempenho"):
		return IntentMetrics
	case containsAny(lowered, "r2", "r-squared"):
		return IntentR2
	case containsAny(lowered, "mse", "erro"):
		return IntentMSE
	default:
		return IntentFallback
	}
}

func (r *Responder) respondSimilarity(ctx context.Context, text string) (Intent, string) {
	lowered := lowerPT(text)
	intent := classifySimilarity(lowered)

	switch intent {
	case IntentGreeting:
		return intent, msgGreeting
	case IntentBestGenre:
		return intent, r.bestGenre(ctx)
	case IntentTopMovies:
		return intent, r.topMovies(ctx, lowered)
	case IntentSimilar:
		return intent, r.similar(text)
	default:
		return IntentFallback, msgFallback
	}
}

func (r *Responder) bestGenre(ctx context.Context) string {
	best, found, err := r.q.BestGenre(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("Best genre query failed")
		return msgStoreFailure
	}
	if !found {
		return msgBestGenreNotFound
	}
	return fmt.Sprintf(msgBestGenre, capitalize(portugueseName(best.GenreName)), best.AverageRating)
}

func (r *Responder) topMovies(ctx context.Context, lowered string) string {
	genre, ok := findGenre(lowered)
	if !ok {
		return msgTopMoviesNoGenre
	}

	movies, err := r.q.TopMoviesByGenre(ctx, genre.EN, r.topN)
	if err != nil {
		r.logger.Error().Err(err).Str("genre", genre.EN).Msg("Top movies query failed")
		return msgStoreFailure
	}
	if len(movies) == 0 {
		return fmt.Sprintf(msgTopMoviesNotFound, genre.PT)
	}

	var b strings.Builder
	fmt.Fprintf(&b, msgTopMoviesHeader, r.topN, capitalize(genre.PT))
	for _, m := range movies {
		fmt.Fprintf(&b, msgTopMoviesLine, m.Title, m.VoteAverage)
	}
	return b.String()
}

func (r *Responder) similar(text string) string {
	title := extractTitle(text)
	if title == "" {
		return msgSimilarNoTitle
	}

	res, err := r.q.SimilarMovies(title)
	if err != nil {
		if errors.Is(err, query.ErrModelNotReady) {
			return msgSimilarNotReady
		}
		r.logger.Error().Err(err).Str("title", title).Msg("Similar movies query failed")
		return msgStoreFailure
	}
	if !res.Found {
		return fmt.Sprintf(msgSimilarNotFound, title)
	}

	var b strings.Builder
	fmt.Fprintf(&b, msgSimilarHeader, res.MatchedTitle)
	for _, n := range res.Recommendations {
		fmt.Fprintf(&b, msgSimilarLine, n.Title)
	}
	return b.String()
}

// extractTitle keeps the text after the last occurrence of each trigger
// phrase, matched case-insensitively, then drops double quotes and trims.
func extractTitle(text string) string {
	for _, re := range similarTriggers {
		if locs := re.FindAllStringIndex(text, -1); len(locs) > 0 {
			text = text[locs[len(locs)-1][1]:]
		}
	}
	text = strings.NewReplacer(`"`, "", "“", "", "”", "").Replace(text)
	return strings.Trim(strings.TrimSpace(text), "'")
}

func (r *Responder) respondRegression(text string) (Intent, string) {
	intent := classifyRegression(lowerPT(text))

	ins := r.q.RegressionInsights()
	if !ins.Trained || ins.Metrics == nil {
		return intent, msgRegressionNotTrained
	}

	switch intent {
	case IntentImportance:
		top, ok := ins.TopFeature()
		if !ok {
			return intent, msgRegressionNotTrained
		}
		return intent, fmt.Sprintf(msgRegressionImportance, top)
	case IntentMetrics:
		return intent, fmt.Sprintf(msgRegressionMetrics, ins.Metrics.R2, ins.Metrics.MSE)
	case IntentR2:
		return intent, fmt.Sprintf(msgRegressionR2, ins.Metrics.R2)
	case IntentMSE:
		return intent, fmt.Sprintf(msgRegressionMSE, ins.Metrics.MSE)
	default:
		return IntentFallback, msgRegressionFallback
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
