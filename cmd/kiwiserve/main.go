// Command kiwiserve exposes the analyzer as a JSON REST API.
//
// Endpoints:
//
//	GET  /api/analyze?text=<text>[&topn=3]
//	POST /api/analyze/batch   body: {"texts":["...","..."]}
//	GET  /api/sentences?text=<text>
package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"strconv"

	"github.com/rs/cors"

	"github.com/kiwi-go/kiwi"
	"github.com/kiwi-go/kiwi/internal/kerr"
)

type tokenJSON struct {
	Form     string `json:"form"`
	Tag      string `json:"tag"`
	Position int    `json:"position"`
	Length   int    `json:"length"`
}

type analysisJSON struct {
	Tokens []tokenJSON `json:"tokens"`
	Score  float32     `json:"score"`
}

type analyzeResponse struct {
	Text     string         `json:"text"`
	Analyses []analysisJSON `json:"analyses"`
}

type batchResponse struct {
	Results []analyzeResponse `json:"results"`
}

type sentencesResponse struct {
	Sentences []string `json:"sentences"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toAnalysesJSON(results []kiwi.AnalyzeResult) []analysisJSON {
	out := make([]analysisJSON, 0, len(results))
	for _, r := range results {
		tokens := make([]tokenJSON, 0, len(r.Tokens))
		for _, t := range r.Tokens {
			tokens = append(tokens, tokenJSON{
				Form:     t.Form,
				Tag:      t.Tag.String(),
				Position: t.Position,
				Length:   t.Length,
			})
		}
		out = append(out, analysisJSON{Tokens: tokens, Score: r.Score})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func topNFromQuery(q string) int {
	n, err := strconv.Atoi(q)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// matchFromQuery builds the Match bitmask for a request from the shared
// splitsaisiot/mergesaisiot query parameters, validating the result
// before it reaches Analyze.
func matchFromQuery(q interface{ Get(string) string }) (kiwi.Match, error) {
	match := kiwi.MatchAllWithNormalizing
	if q.Get("splitsaisiot") == "true" {
		match |= kiwi.MatchSplitSaisiot
	}
	if q.Get("mergesaisiot") == "true" {
		match |= kiwi.MatchMergeSaisiot
	}
	return kiwi.ParseMatch(match)
}

func writeMatchError(w http.ResponseWriter, err error) {
	if kerr.Is(err, kerr.InvalidOption) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func handleAnalyze(k *kiwi.Kiwi) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		text := r.URL.Query().Get("text")
		if text == "" {
			writeError(w, http.StatusBadRequest, "missing 'text' query parameter")
			return
		}
		match, err := matchFromQuery(r.URL.Query())
		if err != nil {
			writeMatchError(w, err)
			return
		}
		topN := topNFromQuery(r.URL.Query().Get("topn"))
		results := k.Analyze(text, topN, match)
		writeJSON(w, http.StatusOK, analyzeResponse{Text: text, Analyses: toAnalysesJSON(results)})
	}
}

func handleAnalyzeBatch(k *kiwi.Kiwi) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "POST required")
			return
		}
		var body struct {
			Texts        []string `json:"texts"`
			TopN         int      `json:"topn"`
			SplitSaisiot bool     `json:"splitSaisiot"`
			MergeSaisiot bool     `json:"mergeSaisiot"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Texts) == 0 {
			writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'texts' array")
			return
		}
		topN := body.TopN
		if topN < 1 {
			topN = 1
		}

		match := kiwi.MatchAllWithNormalizing
		if body.SplitSaisiot {
			match |= kiwi.MatchSplitSaisiot
		}
		if body.MergeSaisiot {
			match |= kiwi.MatchMergeSaisiot
		}
		match, err := kiwi.ParseMatch(match)
		if err != nil {
			writeMatchError(w, err)
			return
		}

		ctx := r.Context()
		stream := k.AnalyzeStream(ctx, body.Texts, topN, match)
		out := make([]analyzeResponse, 0, len(body.Texts))
		for i := 0; i < len(body.Texts); i++ {
			results, ok := <-stream
			if !ok {
				writeError(w, http.StatusInternalServerError, "analysis cancelled")
				return
			}
			out = append(out, analyzeResponse{Text: body.Texts[i], Analyses: toAnalysesJSON(results)})
		}
		writeJSON(w, http.StatusOK, batchResponse{Results: out})
	}
}

func handleSentences(k *kiwi.Kiwi) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "GET required")
			return
		}
		text := r.URL.Query().Get("text")
		if text == "" {
			writeError(w, http.StatusBadRequest, "missing 'text' query parameter")
			return
		}
		match, err := matchFromQuery(r.URL.Query())
		if err != nil {
			writeMatchError(w, err)
			return
		}
		spans := k.SplitIntoSents(text, match)
		runes := []rune(text)
		sentences := make([]string, 0, len(spans))
		for _, s := range spans {
			sentences = append(sentences, string(runes[s[0]:s[1]]))
		}
		writeJSON(w, http.StatusOK, sentencesResponse{Sentences: sentences})
	}
}

func main() {
	modelDir := flag.String("model", "model", "path to the Kiwi model directory")
	arch := flag.String("arch", "auto", "trie dispatch variant: auto, scalar, or simd")
	threads := flag.Int("threads", 4, "worker pool size for concurrent requests")
	addr := flag.String("addr", ":8080", "listen address")
	allowedOrigins := flag.String("cors-origin", "*", "comma-separated list of allowed CORS origins")
	flag.Parse()

	log.Printf("loading model from %s …", *modelDir)
	k, err := kiwi.New(*modelDir, *arch, *threads, kiwi.DefaultBuildOptions)
	if err != nil {
		log.Fatalf("failed to load model: %v", err)
	}
	defer k.Close()
	log.Println("model loaded")

	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze/batch", handleAnalyzeBatch(k))
	mux.HandleFunc("/api/analyze", handleAnalyze(k))
	mux.HandleFunc("/api/sentences", handleSentences(k))

	handler := cors.New(cors.Options{
		AllowedOrigins: splitCSV(*allowedOrigins),
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}).Handler(mux)

	log.Printf("listening on %s", *addr)
	if err := http.ListenAndServe(*addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func splitCSV(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
