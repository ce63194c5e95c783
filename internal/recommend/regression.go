// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package recommend

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/tomtom215/cinebot/internal/models"
	"github.com/tomtom215/cinebot/internal/recommend/storage"
)

// RegressionFeatures are the predictor columns, in training order.
var RegressionFeatures = []string{"budget", "revenue", "popularity", "runtime"}

// minRegressionRows is the smallest dataset that leaves two training rows.
const minRegressionRows = 3

var (
	// ErrNotEnoughRows is returned when the feature table is too small to split.
	ErrNotEnoughRows = errors.New("not enough rows to train regression")

	// ErrFeatureMismatch is returned by Predict for missing or unknown features.
	ErrFeatureMismatch = errors.New("feature set does not match the trained model")
)

// RegressionModel is a trained linear model. It is immutable.
type RegressionModel struct {
	features  []string
	means     []float64
	scales    []float64
	coef      []float64
	intercept float64
	metrics   models.RegressionMetrics
	testSize  float64
	seed      int64

	meta storage.ModelMetadata
}

// TrainRegression fits vote_average on the standardized features. The rows are
// shuffled with seed and the first ceil(n*testSize) rows are held out for R2 and MSE.
func TrainRegression(rows []models.FeatureRow, testSize float64, seed int64) (*RegressionModel, error) {
	n := len(rows)
	if n < minRegressionRows {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughRows, n, minRegressionRows)
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, fmt.Errorf("test size must be in (0, 1), got %v", testSize)
	}

	nTest := int(math.Ceil(float64(n) * testSize))
	if nTest > n-2 {
		nTest = n - 2
	}

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic split, not security sensitive
	perm := rng.Perm(n)

	p := len(RegressionFeatures)
	X := make([][]float64, n)
	y := make([]float64, n)
	for i, idx := range perm {
		r := rows[idx]
		X[i] = []float64{r.Budget, r.Revenue, r.Popularity, r.Runtime}
		y[i] = r.VoteAverage
	}
	XTest, yTest := X[:nTest], y[:nTest]
	XTrain, yTrain := X[nTest:], y[nTest:]

	means, scales := fitScaler(XTrain, p)
	standardize := func(row []float64) []float64 {
		out := make([]float64, p)
		for j := range row {
			out[j] = (row[j] - means[j]) / scales[j]
		}
		return out
	}

	// Normal equations with an intercept column first: (Z'Z) w = Z'y.
	dim := p + 1
	A := make([][]float64, dim)
	for i := range A {
		A[i] = make([]float64, dim)
	}
	b := make([]float64, dim)
	for i, row := range XTrain {
		z := append([]float64{1}, standardize(row)...)
		for a := 0; a < dim; a++ {
			b[a] += z[a] * yTrain[i]
			for c := 0; c < dim; c++ {
				A[a][c] += z[a] * z[c]
			}
		}
	}
	w := solveLinearSystem(A, b)

	m := &RegressionModel{
		features:  append([]string(nil), RegressionFeatures...),
		means:     means,
		scales:    scales,
		coef:      w[1:],
		intercept: w[0],
		testSize:  testSize,
		seed:      seed,
	}

	preds := make([]float64, nTest)
	for i, row := range XTest {
		preds[i] = m.predictStandardized(standardize(row))
	}
	m.metrics = models.RegressionMetrics{
		R2:        r2Score(yTest, preds),
		MSE:       meanSquaredError(yTest, preds),
		TrainRows: len(XTrain),
		TestRows:  nTest,
	}
	return m, nil
}

// fitScaler returns per-column means and population standard deviations.
// A zero deviation is replaced by 1.
func fitScaler(X [][]float64, p int) (means, scales []float64) {
	means = make([]float64, p)
	scales = make([]float64, p)
	n := float64(len(X))
	for _, row := range X {
		for j := 0; j < p; j++ {
			means[j] += row[j]
		}
	}
	for j := range means {
		means[j] /= n
	}
	for _, row := range X {
		for j := 0; j < p; j++ {
			d := row[j] - means[j]
			scales[j] += d * d
		}
	}
	for j := range scales {
		scales[j] = math.Sqrt(scales[j] / n)
		if scales[j] == 0 {
			scales[j] = 1
		}
	}
	return means, scales
}

func r2Score(yTrue, yPred []float64) float64 {
	var mean float64
	for _, v := range yTrue {
		mean += v
	}
	mean /= float64(len(yTrue))

	var ssRes, ssTot float64
	for i := range yTrue {
		ssRes += (yTrue[i] - yPred[i]) * (yTrue[i] - yPred[i])
		ssTot += (yTrue[i] - mean) * (yTrue[i] - mean)
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

func meanSquaredError(yTrue, yPred []float64) float64 {
	var sum float64
	for i := range yTrue {
		d := yTrue[i] - yPred[i]
		sum += d * d
	}
	return sum / float64(len(yTrue))
}

func regressionFromState(state *storage.RegressionState, meta *storage.ModelMetadata) (*RegressionModel, error) {
	p := len(state.Features)
	if p == 0 || len(state.Means) != p || len(state.Scales) != p || len(state.Coefficients) != p {
		return nil, fmt.Errorf("inconsistent regression state: %d features", p)
	}
	return &RegressionModel{
		features:  state.Features,
		means:     state.Means,
		scales:    state.Scales,
		coef:      state.Coefficients,
		intercept: state.Intercept,
		metrics: models.RegressionMetrics{
			R2:        state.R2,
			MSE:       state.MSE,
			TrainRows: state.TrainRows,
			TestRows:  state.TestRows,
		},
		testSize: state.TestSize,
		seed:     state.Seed,
		meta:     *meta,
	}, nil
}

func (m *RegressionModel) state() storage.RegressionState {
	return storage.RegressionState{
		Features:     m.features,
		Means:        m.means,
		Scales:       m.scales,
		Coefficients: m.coef,
		Intercept:    m.intercept,
		R2:           m.metrics.R2,
		MSE:          m.metrics.MSE,
		TrainRows:    m.metrics.TrainRows,
		TestRows:     m.metrics.TestRows,
		TestSize:     m.testSize,
		Seed:         m.seed,
	}
}

func (m *RegressionModel) predictStandardized(z []float64) float64 {
	out := m.intercept
	for j, v := range z {
		out += m.coef[j] * v
	}
	return out
}

// Predict returns the predicted rating. values must contain exactly the
// training feature names.
func (m *RegressionModel) Predict(values map[string]float64) (float64, error) {
	if len(values) != len(m.features) {
		return 0, fmt.Errorf("%w: got %d values, want %s", ErrFeatureMismatch, len(values), strings.Join(m.features, ", "))
	}
	z := make([]float64, len(m.features))
	for j, name := range m.features {
		v, ok := values[name]
		if !ok {
			return 0, fmt.Errorf("%w: missing %s", ErrFeatureMismatch, name)
		}
		z[j] = (v - m.means[j]) / m.scales[j]
	}
	return m.predictStandardized(z), nil
}

// Metrics returns the held-out evaluation metrics.
func (m *RegressionModel) Metrics() models.RegressionMetrics {
	return m.metrics
}

// Intercept returns the fitted intercept (the mean rating on the standardized scale).
func (m *RegressionModel) Intercept() float64 {
	return m.intercept
}

// Importances returns the coefficients ordered by absolute value, largest first.
func (m *RegressionModel) Importances() []models.FeatureImportance {
	out := make([]models.FeatureImportance, len(m.features))
	for j, name := range m.features {
		out[j] = models.FeatureImportance{Feature: name, Coefficient: m.coef[j]}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return math.Abs(out[a].Coefficient) > math.Abs(out[b].Coefficient)
	})
	return out
}

// Metadata returns the artifact metadata the model was saved or loaded with.
func (m *RegressionModel) Metadata() storage.ModelMetadata {
	return m.meta
}

// Status describes the model for the status endpoint.
func (m *RegressionModel) Status() models.ModelStatus {
	metrics := m.metrics
	return models.ModelStatus{
		Variant:     storage.KindRegression,
		Ready:       true,
		Version:     m.meta.Version,
		TrainedAt:   m.meta.TrainedAt,
		EntityCount: metrics.TrainRows + metrics.TestRows,
		Metrics:     &metrics,
		Importances: m.Importances(),
	}
}
