// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package chatbot

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/tomtom215/cinebot/internal/config"
	"github.com/tomtom215/cinebot/internal/logging"
	"github.com/tomtom215/cinebot/internal/models"
	"github.com/tomtom215/cinebot/internal/query"
)

// fakeQuerier serves the two-movie scenario: A is Action 8.0, B is Action
// and Drama 6.0.
type fakeQuerier struct {
	err        error
	noBest     bool
	notReady   bool
	insights   query.RegressionInsights
	lastGenre  string
	lastTitle  string
	topResults map[string][]models.MovieRating
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{
		topResults: map[string][]models.MovieRating{
			"Action": {{Title: "A", VoteAverage: 8.0}, {Title: "B", VoteAverage: 6.0}},
			"Drama":  {{Title: "B", VoteAverage: 6.0}},
		},
	}
}

func (f *fakeQuerier) BestGenre(context.Context) (models.GenreRating, bool, error) {
	if f.err != nil {
		return models.GenreRating{}, false, f.err
	}
	if f.noBest {
		return models.GenreRating{}, false, nil
	}
	return models.GenreRating{GenreName: "Action", AverageRating: 7.0}, true, nil
}

func (f *fakeQuerier) TopMoviesByGenre(_ context.Context, genre string, _ int) ([]models.MovieRating, error) {
	f.lastGenre = genre
	if f.err != nil {
		return nil, f.err
	}
	return f.topResults[genre], nil
}

func (f *fakeQuerier) SimilarMovies(title string) (models.SimilarResult, error) {
	f.lastTitle = title
	res := models.SimilarResult{Query: title, Recommendations: []models.Neighbor{}}
	if f.notReady {
		return res, query.ErrModelNotReady
	}
	if f.err != nil {
		return res, f.err
	}
	if title != "A" && title != "avatr" {
		return res, nil
	}
	res.Found = true
	res.MatchedTitle = "A"
	if title == "avatr" {
		res.MatchedTitle = "Avatar"
	}
	res.Recommendations = []models.Neighbor{{Title: "B", Score: 0.7}}
	return res, nil
}

func (f *fakeQuerier) RegressionInsights() query.RegressionInsights {
	return f.insights
}

func newTestResponder(q Querier, variant string) *Responder {
	return NewResponder(q, variant, 5, logging.NewTestLogger(io.Discard))
}

func checkReply(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("reply mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRespond_Similarity(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"greeting", "Oi", "Olá! Sou o CineBot. Como posso te ajudar?"},
		{"greeting with accent", "OLÁ", "Olá! Sou o CineBot. Como posso te ajudar?"},
		{"greeting with spaces", " bom dia ", "Olá! Sou o CineBot. Como posso te ajudar?"},
		{
			"best genre",
			"Qual o melhor gênero?",
			"O gênero com a melhor avaliação média é **Ação**, com nota **7.00**!",
		},
		{
			"top movies drama",
			"top 5 filmes de drama",
			"Claro! Aqui estão os top 5 filmes de **Drama** mais bem avaliados:\n- B (Nota: 6.0)\n",
		},
		{
			"top movies action",
			"Quais os filmes de ação?",
			"Claro! Aqui estão os top 5 filmes de **Ação** mais bem avaliados:\n- A (Nota: 8.0)\n- B (Nota: 6.0)\n",
		},
		{
			"top movies unknown in store",
			"filmes de faroeste",
			"Não encontrei filmes para o gênero 'faroeste'. Tente outro.",
		},
		{
			"top movies no genre",
			"me mostre filmes de algo",
			"Por favor, especifique um gênero. Ex: 'top 5 filmes de suspense'.",
		},
		{
			"similar found",
			"recomende algo parecido com A",
			"Se você gostou de **A**, talvez também goste de:\n- B\n",
		},
		{
			"similar fuzzy",
			`Recomende algo Parecido com "avatr"`,
			"Se você gostou de **Avatar**, talvez também goste de:\n- B\n",
		},
		{
			"similar not found",
			"similar a Titanic",
			"Não encontrei o filme 'Titanic' na minha base de dados.",
		},
		{
			"similar no title",
			"recomende",
			"Por favor, diga um filme para eu recomendar similares. Ex: 'recomende algo parecido com Avatar'.",
		},
		{
			"fallback",
			"qual a capital da França?",
			"Desculpe, não entendi. Tente perguntar sobre o 'melhor gênero' ou peça 'top 5 filmes de ação'.",
		},
		{
			"greeting must be exact",
			"oi, tudo bem?",
			"Desculpe, não entendi. Tente perguntar sobre o 'melhor gênero' ou peça 'top 5 filmes de ação'.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResponder(newFakeQuerier(), config.VariantSimilarity)
			checkReply(t, r.Respond(context.Background(), nil, tt.input), tt.want)
		})
	}
}

func TestRespond_DecomposedAccents(t *testing.T) {
	r := newTestResponder(newFakeQuerier(), config.VariantSimilarity)

	// "gênero" with a combining circumflex
	got := r.Respond(context.Background(), nil, "melhor ge\u0302nero")
	checkReply(t, got, "O gênero com a melhor avaliação média é **Ação**, com nota **7.00**!")
}

func TestRespond_GenreScanOrder(t *testing.T) {
	q := newFakeQuerier()
	r := newTestResponder(q, config.VariantSimilarity)

	// "drama" precedes "romance" in the table
	r.Respond(context.Background(), nil, "filmes de romance e drama")
	if q.lastGenre != "Drama" {
		t.Errorf("genre = %q, want Drama", q.lastGenre)
	}

	r.Respond(context.Background(), nil, "top filmes ficção científica")
	if q.lastGenre != "Science Fiction" {
		t.Errorf("genre = %q, want Science Fiction", q.lastGenre)
	}
}

func TestRespond_Failures(t *testing.T) {
	t.Run("store failure", func(t *testing.T) {
		q := newFakeQuerier()
		q.err = errors.New("io error")
		r := newTestResponder(q, config.VariantSimilarity)

		for _, input := range []string{"melhor gênero", "filmes de drama", "recomende A"} {
			checkReply(t, r.Respond(context.Background(), nil, input), msgStoreFailure)
		}
	})

	t.Run("no best genre", func(t *testing.T) {
		q := newFakeQuerier()
		q.noBest = true
		r := newTestResponder(q, config.VariantSimilarity)
		checkReply(t, r.Respond(context.Background(), nil, "melhor gênero"), "Não consegui encontrar o melhor gênero no momento.")
	})

	t.Run("model not ready", func(t *testing.T) {
		q := newFakeQuerier()
		q.notReady = true
		r := newTestResponder(q, config.VariantSimilarity)
		checkReply(t, r.Respond(context.Background(), nil, "recomende A"), msgSimilarNotReady)
	})
}

func TestRespond_Regression(t *testing.T) {
	trained := query.RegressionInsights{
		Trained: true,
		Metrics: &models.RegressionMetrics{R2: 0.4567, MSE: 0.8123},
		Importances: []models.FeatureImportance{
			{Feature: "popularity", Coefficient: 0.5},
			{Feature: "runtime", Coefficient: -0.2},
		},
	}

	tests := []struct {
		name     string
		insights query.RegressionInsights
		input    string
		want     string
	}{
		{
			"importance",
			trained,
			"Qual variável é mais importante?",
			"Com base nos coeficientes do modelo, a variável mais influente foi **popularity**.",
		},
		{
			"metrics",
			trained,
			"Como foi o desempenho?",
			"As principais métricas foram: **R-squared de 0.46** e **MSE de 0.81**.",
		},
		{
			"r2",
			trained,
			"qual o R2?",
			"O **R-squared (R2)** do modelo foi de **0.46**. Isso representa a proporção da variância da variável dependente que é previsível a partir das variáveis independentes.",
		},
		{
			"mse",
			trained,
			"qual o erro?",
			"O **Mean Squared Error (MSE)** foi de **0.81**. Ele mede a média dos quadrados dos erros entre os valores estimados e os valores reais.",
		},
		{
			"fallback",
			trained,
			"conte uma piada",
			"Desculpe, não entendi a pergunta. Você pode perguntar sobre as 'métricas' ou qual a variável 'mais importante'.",
		},
		{
			"not trained",
			query.RegressionInsights{},
			"qual o R2?",
			"O modelo ainda não foi treinado. Por favor, execute o pipeline primeiro.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newFakeQuerier()
			q.insights = tt.insights
			r := newTestResponder(q, config.VariantRegression)
			checkReply(t, r.Respond(context.Background(), nil, tt.input), tt.want)
		})
	}
}

func TestClassify(t *testing.T) {
	sim := newTestResponder(newFakeQuerier(), config.VariantSimilarity)
	reg := newTestResponder(newFakeQuerier(), config.VariantRegression)

	tests := []struct {
		r     *Responder
		input string
		want  Intent
	}{
		{sim, "ola", IntentGreeting},
		{sim, "MELHOR GÊNERO", IntentBestGenre},
		{sim, "top filmes", IntentTopMovies},
		{sim, "algo similar a Alien", IntentSimilar},
		{sim, "melhor filme", IntentFallback},
		// best genre wins over top movies
		{sim, "melhor gênero dos filmes de ação", IntentBestGenre},
		{reg, "o que influencia a nota", IntentImportance},
		{reg, "métricas do modelo", IntentMetrics},
		{reg, "r-squared", IntentR2},
		{reg, "MSE", IntentMSE},
		// importance is checked before metrics
		{reg, "métrica mais relevante", IntentImportance},
		{reg, "bom dia", IntentFallback},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := tt.r.Classify(tt.input); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"recomende algo parecido com Avatar", "Avatar"},
		{"Recomende algo PARECIDO COM The Matrix", "The Matrix"},
		{`similar a "Toy Story"`, "Toy Story"},
		{"me recomende Alien", "Alien"},
		{"recomende 'Up'", "Up"},
		{"parecido com   ", ""},
		{"recomende", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := extractTitle(tt.input); got != tt.want {
				t.Errorf("extractTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"ação", "Ação"},
		{"ficção científica", "Ficção científica"},
		{"cinema tv", "Cinema tv"},
		{"Science Fiction", "Science fiction"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := capitalize(tt.input); got != tt.want {
			t.Errorf("capitalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPortugueseName(t *testing.T) {
	if got := portugueseName("Thriller"); got != "suspense" {
		t.Errorf("portugueseName(Thriller) = %q", got)
	}
	if got := portugueseName("Foreign"); got != "Foreign" {
		t.Errorf("portugueseName(Foreign) = %q, want passthrough", got)
	}
	if len(Genres()) != 19 {
		t.Errorf("Genres() has %d entries, want 19", len(Genres()))
	}
}

func TestRespond_RecordsSessionHistory(t *testing.T) {
	r := newTestResponder(newFakeQuerier(), config.VariantSimilarity)
	session := NewSession()

	reply := r.Respond(context.Background(), session, "oi")

	history := session.History()
	if len(history) != 2 {
		t.Fatalf("history has %d messages, want 2", len(history))
	}
	if history[0].Role != RoleUser || history[0].Text != "oi" {
		t.Errorf("history[0] = %+v", history[0])
	}
	if history[1].Role != RoleAssistant || history[1].Text != reply {
		t.Errorf("history[1] = %+v", history[1])
	}
}
