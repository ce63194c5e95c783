// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

/*
Package recommend builds, persists and serves the two model variants behind the
chat assistant.

# Similarity Variant

Each entity (a title, or a movie identifier when model.key_by_id is set) becomes a
document of its genre names joined by spaces. Documents are vectorized with TF-IDF:

  - lowercase, tokens of two or more word characters
  - raw term counts
  - smoothed idf: ln((1+n)/(1+df)) + 1
  - L2-normalized rows

The similarity matrix is the dot product of the normalized rows. Its diagonal is
exactly 1 and the matrix is exactly symmetric.

# Regression Variant

Ordinary least squares on standardized budget, revenue, popularity and runtime,
predicting vote_average. The data is shuffled with a fixed seed, the first
ceil(n * test_size) rows are held out, and R2/MSE are reported on them.

# Engine

Engine owns the serving copies of both models. Build* trains from the database,
saves a new artifact version, prunes old versions and swaps the serving copy.
Load* restores the latest artifact; a missing or unreadable artifact leaves the
variant not ready rather than failing. Registered OnChange hooks run after every
swap so that memoized answers can be invalidated.

# Thread Safety

SimilarityModel and RegressionModel are immutable after construction. Engine is
safe for concurrent use; builds are serialized.
*/
package recommend
