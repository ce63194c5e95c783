// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

/*
Package chatbot implements the rule-based PT-BR responder.

Dispatch is keyword containment over the lower-cased, NFC-normalized input,
checked in a fixed order; there is no language model involved. For the
similarity variant the rules are:

	greeting     exact match of "oi", "ola", "olá" or "bom dia"
	best_genre   contains "melhor" and "gênero"
	top_movies   contains "filmes de" or "top filmes"
	similar      contains "recomende", "parecido com" or "similar a"
	fallback     anything else

Top-movies genres come from a bilingual table scanned in a fixed order.
Similar-movie titles are the text after the trigger phrases with quotes
removed, fuzzy matched by the query layer.

The regression variant answers questions about feature importance, headline
metrics, R2 and MSE of the trained regression model.

Respond never fails: store errors and missing models become fixed
messages. Session carries the conversation ID and bounded history;
SessionStore keeps sessions in an LRU.
*/
package chatbot
