// Command backend is the HTTP front end: it tokenizes user text
// through the external tokenizer script, runs the embedding through
// the enclaved inference service, and classifies the sentiment by
// cosine similarity against reference embeddings.
package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	enclaveml "github.com/Lkishor123/openenclave-ml-poc"
)

var config = flag.String("config", "config.yaml", "YAML configuration file")

type requestPayload struct {
	Input string `json:"input"`
}

type responsePayload struct {
	InputText string `json:"input_text"`
	Sentiment string `json:"sentiment"`
	Error     string `json:"error,omitempty"`
}

type app struct {
	worker    *worker
	tokenizer *tokenizer
	refs      *references
}

func (a *app) handleInference(w http.ResponseWriter, r *http.Request) {
	var payload requestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	tokens, err := a.tokenizer.tokenize(payload.Input)
	if err != nil {
		log.WithError(err).Error("Tokenization failed.")
		http.Error(w, "Tokenization failed", http.StatusInternalServerError)
		return
	}

	raw, err := a.worker.embed(tokens)
	if err != nil {
		log.WithError(err).Error("Inference failed.")
		http.Error(w, "Inference failed", http.StatusInternalServerError)
		return
	}

	sentiment := a.refs.classify(decodeEmbedding(raw))
	log.Infof("Input: %q, Sentiment: %s", payload.Input, sentiment)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&responsePayload{
		InputText: payload.Input,
		Sentiment: sentiment,
	})
}

func main() {
	flag.Parse()

	cfg, err := enclaveml.LoadConfiguration(*config)
	if err != nil {
		log.WithError(err).Fatal("Could not load the configuration.")
	}

	model, err := os.ReadFile(cfg.ModelPath)
	if err != nil {
		log.WithError(err).Fatalf("Could not read the model file %s.", cfg.ModelPath)
	}

	refs, err := loadReferences(cfg.PositiveReference, cfg.NegativeReference)
	if err != nil {
		log.WithError(err).Fatal("Could not load the reference embeddings.")
	}

	tok, err := newTokenizer(cfg.TokenizerCommand, cfg.TokenizerDir)
	if err != nil {
		log.WithError(err).Fatal("Could not set up the tokenizer.")
	}

	wrk, err := startWorker(cfg.EnclavedAddr, model, cfg.EmbeddingDim)
	if err != nil {
		log.WithError(err).Fatal("Could not start the inference worker.")
	}

	a := &app{worker: wrk, tokenizer: tok, refs: refs}

	router := mux.NewRouter()
	router.HandleFunc("/infer", a.handleInference).Methods(http.MethodPost)
	router.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.FrontendDir)))

	srv := &http.Server{
		Addr:    cfg.BackendAddr,
		Handler: handlers.CombinedLoggingHandler(os.Stdout, router),
	}

	go func() {
		log.Infof("backend listening on %s.", cfg.BackendAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server failed.")
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	// Terminate the session before exiting so no host-side resource
	// outlives the process.
	log.Info("Shutting down.")
	srv.Close()
	wrk.close()
}
