package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AngelCh415/leadpulse/internal/ingest"
	"github.com/AngelCh415/leadpulse/internal/metrics"
	"github.com/AngelCh415/leadpulse/internal/status"
	"github.com/AngelCh415/leadpulse/internal/store"
	"github.com/AngelCh415/leadpulse/internal/telemetry"
	"github.com/AngelCh415/leadpulse/internal/utils"
)

const maxUpload = 32 << 20

func NewRouter(log *slog.Logger, etl *ingest.ETL, mSvc *metrics.Service, st *store.MemoryStore, tel *telemetry.Collector) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if st.UpdatedAt().IsZero() {
			http.Error(w, "no snapshot loaded", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
		w.Write([]byte("ready"))
	})
	mux.Handle("/metrics", tel.Handler())

	mux.Post("/ingest/run", func(w http.ResponseWriter, r *http.Request) {
		n, err := etl.Run(r.Context())
		if err != nil {
			code := http.StatusBadGateway
			if errors.Is(err, ingest.ErrNoLeadsSource) {
				code = http.StatusConflict
			}
			http.Error(w, err.Error(), code)
			return
		}
		writeJSON(w, map[string]any{"stored": n})
	})

	mux.Post("/ingest/file", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			name = r.URL.Query().Get("path")
		}
		n, err := etl.ImportFile(name)
		if errors.Is(err, ingest.ErrImportDisabled) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]any{"stored": n})
	})

	mux.Put("/leads", func(w http.ResponseWriter, r *http.Request) {
		n, err := etl.Load(http.MaxBytesReader(w, r.Body, maxUpload))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, map[string]any{"stored": n})
	})

	mux.Post("/export/run", func(w http.ResponseWriter, r *http.Request) {
		d, err := mSvc.Dashboard(r.Context(), r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := etl.Export(r.Context(), d); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		writeJSON(w, map[string]any{"exported": d.Pipeline.Total})
	})

	mux.Route("/analytics", func(ar chi.Router) {
		ar.Get("/funnel", func(w http.ResponseWriter, r *http.Request) {
			respond(w)(mSvc.Funnel(r.URL.Query()))
		})
		ar.Get("/funnel/{stage}/leads", func(w http.ResponseWriter, r *http.Request) {
			stage, err := status.ParseStage(chi.URLParam(r, "stage"))
			if err != nil {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			respond(w)(mSvc.StageLeads(r.URL.Query(), stage))
		})
		ar.Get("/pipeline", func(w http.ResponseWriter, r *http.Request) {
			respond(w)(mSvc.Pipeline(r.URL.Query()))
		})
		ar.Get("/pipeline/{bucket}/leads", func(w http.ResponseWriter, r *http.Request) {
			b, err := status.ParseBucket(chi.URLParam(r, "bucket"))
			if err != nil {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			respond(w)(mSvc.BucketLeads(r.URL.Query(), b))
		})
		ar.Get("/pipeline/{bucket}/breakdown", func(w http.ResponseWriter, r *http.Request) {
			b, err := status.ParseBucket(chi.URLParam(r, "bucket"))
			if err != nil {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			respond(w)(mSvc.Breakdown(r.URL.Query(), b))
		})
		ar.Get("/traffic", func(w http.ResponseWriter, r *http.Request) {
			respond(w)(mSvc.Traffic(r.URL.Query()))
		})
		ar.Get("/quality", func(w http.ResponseWriter, r *http.Request) {
			respond(w)(mSvc.Quality(r.URL.Query()))
		})
		ar.Get("/momentum", func(w http.ResponseWriter, r *http.Request) {
			respond(w)(mSvc.Momentum(r.URL.Query()))
		})
		ar.Get("/momentum/{date}/leads", func(w http.ResponseWriter, r *http.Request) {
			respond(w)(mSvc.DayLeads(r.URL.Query(), chi.URLParam(r, "date")))
		})
		ar.Get("/dashboard", func(w http.ResponseWriter, r *http.Request) {
			respond(w)(mSvc.Dashboard(r.Context(), r.URL.Query()))
		})
	})

	return mux
}

// respond writes v as JSON, or err as a 400.
func respond(w http.ResponseWriter) func(v any, err error) {
	return func(v any, err error) {
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, v)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
