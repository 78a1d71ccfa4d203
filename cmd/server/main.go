package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/sync/errgroup"

	"github.com/xtding233/upgrade-ev/internal/advisor"
	"github.com/xtding233/upgrade-ev/internal/rpc"
	"github.com/xtding233/upgrade-ev/internal/tables"
)

type serverEnv struct {
	TablesDir      string        `env:"UPGRADE_EV_TABLES_DIR" envDefault:"tables"`
	Profile        string        `env:"UPGRADE_EV_PROFILE"`
	HTTPAddr       string        `env:"UPGRADE_EV_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr       string        `env:"UPGRADE_EV_GRPC_ADDR" envDefault:":9090"`
	ReloadInterval time.Duration `env:"UPGRADE_EV_RELOAD_INTERVAL" envDefault:"5s"`
}

type errResp struct {
	Err string `json:"err"`
}

const maxBody = 1 << 20

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errResp{Err: "use POST"})
		return false
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Err: "invalid json: " + err.Error()})
		return false
	}
	return true
}

func writeAdvisorErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	if errors.Is(err, advisor.ErrBadRequest) {
		code = http.StatusBadRequest
	}
	writeJSON(w, code, errResp{Err: err.Error()})
}

// POST /evaluate {"action": "advance:spark", "snapshot": {...}}
func handleEvaluate(adv *advisor.Advisor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rpc.EvaluateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		score, err := adv.Evaluate(req.Action, req.Snapshot)
		if err != nil {
			writeAdvisorErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, score)
	}
}

// POST /rank {"snapshot": {...}, "actions": [...]}; actions optional
func handleRank(adv *advisor.Advisor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rpc.RankRequest
		if !decodeBody(w, r, &req) {
			return
		}
		scores, err := adv.Rank(req.Snapshot, req.Actions)
		if err != nil {
			writeAdvisorErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rpc.RankResponse{Scores: scores})
	}
}

func newMux(adv *advisor.Advisor) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/evaluate", handleEvaluate(adv))
	mux.HandleFunc("/rank", handleRank(adv))
	return mux
}

func run(ctx context.Context, cfg serverEnv) error {
	adv, err := advisor.New(tables.NewLoader(cfg.TablesDir), cfg.Profile)
	if err != nil {
		return err
	}
	grpcServer, err := rpc.New(cfg.GRPCAddr, adv)
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newMux(adv),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return grpcServer.Serve(ctx)
	})
	g.Go(func() error {
		log.Printf("HTTP advisor listening on %s ...", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	if cfg.ReloadInterval > 0 {
		watcher := tables.NewFileWatcher(adv.Files(), cfg.ReloadInterval, func(path string) {
			log.Printf("table file changed: %s", path)
			_ = adv.Reload()
		})
		g.Go(func() error {
			return watcher.Run(ctx)
		})
	}
	return g.Wait()
}

func main() {
	var cfg serverEnv
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("parse env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}
