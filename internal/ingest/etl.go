package ingest

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/AngelCh415/leadpulse/internal/config"
	"github.com/AngelCh415/leadpulse/internal/store"
	"github.com/AngelCh415/leadpulse/internal/telemetry"
)

var (
	ErrNoLeadsSource     = errors.New("leads source not configured")
	ErrSinkNotConfigured = errors.New("sink not configured")
	ErrImportDisabled    = errors.New("import directory not configured")
	ErrBadImportName     = errors.New("import name must be a plain file name")
)

// ETL loads lead snapshots into the store and ships computed views to the
// export sink.
type ETL struct {
	c   HTTPClient
	st  *store.MemoryStore
	log *slog.Logger
	cfg config.Config
	loc *time.Location
	tel *telemetry.Collector
}

func NewETL(c HTTPClient, st *store.MemoryStore, log *slog.Logger, cfg config.Config, tel *telemetry.Collector) *ETL {
	return &ETL{c: c, st: st, log: log, cfg: cfg, loc: cfg.Location(), tel: tel}
}

// Run pulls the full lead snapshot from the CRM API and replaces the store.
func (e *ETL) Run(ctx context.Context) (int, error) {
	if e.cfg.LeadsURL == "" {
		return 0, ErrNoLeadsSource
	}
	var raw []json.RawMessage
	if err := GetJSONWithRetry(ctx, e.c, e.cfg.LeadsURL, &raw); err != nil {
		e.tel.Ingest("api", 0, err)
		return 0, fmt.Errorf("fetch leads: %w", err)
	}
	recs, dropped := fromRaw(raw)
	return e.install("api", recs, dropped), nil
}

// ImportFile replaces the store with the leads of a .json, .csv or .xlsx file
// found directly under the configured import directory. name must be a bare
// file name.
func (e *ETL) ImportFile(name string) (int, error) {
	if e.cfg.ImportDir == "" {
		return 0, ErrImportDisabled
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrNoLeadsSource
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return 0, fmt.Errorf("%w: %q", ErrBadImportName, name)
	}
	return e.ImportPath(filepath.Join(e.cfg.ImportDir, name))
}

// ImportPath loads a lead file from an operator supplied path such as
// LEADS_FILE. It must not be reachable from request input.
func (e *ETL) ImportPath(path string) (int, error) {
	if strings.TrimSpace(path) == "" {
		return 0, ErrNoLeadsSource
	}
	recs, dropped, err := readFile(path)
	if err != nil {
		e.tel.Ingest("file", 0, err)
		return 0, err
	}
	return e.install("file", recs, dropped), nil
}

// Load replaces the store with a JSON array of CRM records.
func (e *ETL) Load(r io.Reader) (int, error) {
	recs, dropped, err := decodeJSON(r)
	if err != nil {
		e.tel.Ingest("upload", 0, err)
		return 0, err
	}
	return e.install("upload", recs, dropped), nil
}

func (e *ETL) install(source string, recs []leadRecord, dropped int) int {
	leads := toLeads(recs, e.loc)
	n := e.st.Replace(leads)
	undated, unscored := 0, 0
	for _, l := range leads {
		if !l.HasDate() {
			undated++
		}
		if !l.HasScore() {
			unscored++
		}
	}
	e.tel.Ingest(source, n, nil)
	e.tel.Skipped("ingest", "malformed", dropped)
	e.log.Info("ingest complete",
		slog.String("source", source),
		slog.Int("received", len(recs)+dropped),
		slog.Int("malformed", dropped),
		slog.Int("stored", n),
		slog.Int("undated", undated),
		slog.Int("unscored", unscored))
	return n
}

// Export posts payload as JSON to the sink, signed with HMAC-SHA256 of the
// body in X-Signature.
func (e *ETL) Export(ctx context.Context, payload any) error {
	if e.cfg.SinkURL == "" || e.cfg.SinkSecret == "" {
		return ErrSinkNotConfigured
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	mac := hmac.New(sha256.New, []byte(e.cfg.SinkSecret))
	mac.Write(b)
	sig := hex.EncodeToString(mac.Sum(nil))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.SinkURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", sig)
	resp, err := e.c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("export sink non-2xx: %d", resp.StatusCode)
	}
	return nil
}
