// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

package chatbot

// Fixed PT-BR replies. Format verbs are filled in by the responder.
const (
	msgGreeting = "Olá! Sou o CineBot. Como posso te ajudar?"

	msgBestGenre         = "O gênero com a melhor avaliação média é **%s**, com nota **%.2f**!"
	msgBestGenreNotFound = "Não consegui encontrar o melhor gênero no momento."

	msgTopMoviesHeader   = "Claro! Aqui estão os top %d filmes de **%s** mais bem avaliados:\n"
	msgTopMoviesLine     = "- %s (Nota: %.1f)\n"
	msgTopMoviesNotFound = "Não encontrei filmes para o gênero '%s'. Tente outro."
	msgTopMoviesNoGenre  = "Por favor, especifique um gênero. Ex: 'top 5 filmes de suspense'."

	msgSimilarNoTitle  = "Por favor, diga um filme para eu recomendar similares. Ex: 'recomende algo parecido com Avatar'."
	msgSimilarHeader   = "Se você gostou de **%s**, talvez também goste de:\n"
	msgSimilarLine     = "- %s\n"
	msgSimilarNotFound = "Não encontrei o filme '%s' na minha base de dados."
	msgSimilarNotReady = "O modelo de recomendação ainda não está pronto. Execute o pipeline e treine o modelo para receber recomendações."

	msgFallback = "Desculpe, não entendi. Tente perguntar sobre o 'melhor gênero' ou peça 'top 5 filmes de ação'."

	msgStoreFailure = "Desculpe, não consegui consultar a base de filmes agora. Tente novamente em instantes."

	msgRegressionImportance = "Com base nos coeficientes do modelo, a variável mais influente foi **%s**."
	msgRegressionMetrics    = "As principais métricas foram: **R-squared de %.2f** e **MSE de %.2f**."
	msgRegressionR2         = "O **R-squared (R2)** do modelo foi de **%.2f**. Isso representa a proporção da variância da variável dependente que é previsível a partir das variáveis independentes."
	msgRegressionMSE        = "O **Mean Squared Error (MSE)** foi de **%.2f**. Ele mede a média dos quadrados dos erros entre os valores estimados e os valores reais."
	msgRegressionFallback   = "Desculpe, não entendi a pergunta. Você pode perguntar sobre as 'métricas' ou qual a variável 'mais importante'."
	msgRegressionNotTrained = "O modelo ainda não foi treinado. Por favor, execute o pipeline primeiro."
)
