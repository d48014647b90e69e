package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/julinemart/pricer/internal/codec"
	"github.com/julinemart/pricer/internal/config"
	"github.com/julinemart/pricer/internal/db"
	"github.com/julinemart/pricer/internal/excel"
	"github.com/julinemart/pricer/internal/kv"
	"github.com/julinemart/pricer/internal/logging"
	"github.com/julinemart/pricer/internal/migrations"
	"github.com/julinemart/pricer/internal/pricing"
	"github.com/julinemart/pricer/internal/store"
)

const maxImportBytes = 10 << 20

type server struct {
	ws  *store.Workspace
	cfg config.Config
	log *zap.Logger
}

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.Debug, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer database.Close()

	if err := migrations.Up(database, "migrations"); err != nil {
		logger.Fatal("failed to run database migrations", zap.Error(err))
	}

	ws := store.New(kv.NewSQLite(database), logger)
	if err := ws.Load(); err != nil {
		logger.Fatal("failed to load workspace state", zap.Error(err))
	}

	srv := &server{ws: ws, cfg: cfg, log: logger}

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("db", cfg.DBPath))
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func (s *server) routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/workspace", s.handleWorkspace)
		r.Get("/workspace/export.csv", s.handleWorkspaceCSV)
		r.Get("/workspace/export.xlsx", s.handleWorkspaceXLSX)
		r.Post("/items", s.handleAddItem)
		r.Post("/items/clear", s.handleClearItems)
		r.Post("/items/{id}", s.handleEditItem)
		r.Delete("/items/{id}", s.handleDeleteItem)
		r.Post("/settings", s.handleUpdateSettings)
		r.Get("/batches", s.handleListBatches)
		r.Post("/batches", s.handleSaveBatch)
		r.Get("/batches/export", s.handleExportAllBatches)
		r.Post("/batches/import", s.handleImportBatches)
		r.Get("/batches/{id}/export", s.handleExportBatch)
		r.Post("/batches/{id}/load", s.handleLoadBatch)
		r.Delete("/batches/{id}", s.handleDeleteBatch)
	})
	return r
}

type workspaceView struct {
	Items    []store.Item  `json:"items"`
	Totals   store.Totals  `json:"totals"`
	Margin   float64       `json:"margin"`
	Settings pricing.Rates `json:"settings"`
}

func (s *server) workspaceView() workspaceView {
	items := s.ws.Items()
	totals := store.ComputeTotals(items)
	return workspaceView{
		Items:    items,
		Totals:   totals,
		Margin:   totals.Margin(),
		Settings: s.ws.Settings(),
	}
}

func (s *server) handleWorkspace(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.workspaceView())
}

type addItemRequest struct {
	Name     string  `json:"name"`
	URL      string  `json:"url"`
	CNYPrice float64 `json:"cnyPrice"`
	Quantity int     `json:"quantity"`
}

func (s *server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, added := s.ws.AddItem(req.Name, req.URL, req.CNYPrice, req.Quantity)
	resp := map[string]any{"added": added, "workspace": s.workspaceView()}
	if added {
		resp["item"] = item
	}
	writeJSON(w, http.StatusOK, resp)
}

type editItemRequest struct {
	Name            string `json:"name"`
	URL             string `json:"url"`
	CNYPrice        string `json:"cnyPrice"`
	Quantity        string `json:"quantity"`
	CustomSellPrice string `json:"customSellPrice"`
}

func (s *server) handleEditItem(w http.ResponseWriter, r *http.Request) {
	var req editItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, ok := s.ws.EditItem(chi.URLParam(r, "id"), store.EditFields{
		Name:            req.Name,
		URL:             req.URL,
		CNYPrice:        req.CNYPrice,
		Quantity:        req.Quantity,
		CustomSellPrice: req.CustomSellPrice,
	})
	if !ok {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": item, "workspace": s.workspaceView()})
}

func (s *server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	deleted := s.ws.DeleteItem(chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted, "workspace": s.workspaceView()})
}

func (s *server) handleClearItems(w http.ResponseWriter, r *http.Request) {
	if !confirmed(w, r, "clear all items") {
		return
	}
	s.ws.ClearItems()
	writeJSON(w, http.StatusOK, s.workspaceView())
}

type settingsRequest struct {
	ExchangeRate        *float64 `json:"exchangeRate"`
	MarkupPercent       *float64 `json:"markupPercent"`
	ProfitMarginPercent *float64 `json:"profitMarginPercent"`
}

func (s *server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// Each setter recomputes and persists before returning, so the view
	// built below can never mix new rates with stale derived fields.
	if req.ExchangeRate != nil {
		s.ws.SetExchangeRate(*req.ExchangeRate)
	}
	if req.MarkupPercent != nil {
		s.ws.SetMarkupPercent(*req.MarkupPercent)
	}
	if req.ProfitMarginPercent != nil {
		s.ws.SetProfitMargin(*req.ProfitMarginPercent)
	}
	writeJSON(w, http.StatusOK, s.workspaceView())
}

func (s *server) handleListBatches(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"batches": s.ws.History()})
}

type saveBatchRequest struct {
	Name string `json:"name"`
}

func (s *server) handleSaveBatch(w http.ResponseWriter, r *http.Request) {
	var req saveBatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	batch, saved := s.ws.SaveBatch(req.Name)
	resp := map[string]any{"saved": saved}
	if saved {
		resp["batch"] = batch
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleDeleteBatch(w http.ResponseWriter, r *http.Request) {
	if !confirmed(w, r, "delete this batch") {
		return
	}
	deleted := s.ws.DeleteBatch(chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}

func (s *server) handleLoadBatch(w http.ResponseWriter, r *http.Request) {
	if !confirmed(w, r, "load this batch, replacing current items") {
		return
	}
	if _, ok := s.ws.LoadBatch(chi.URLParam(r, "id")); !ok {
		writeError(w, http.StatusNotFound, "batch not found")
		return
	}
	writeJSON(w, http.StatusOK, s.workspaceView())
}

func (s *server) handleImportBatches(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read import payload")
		return
	}

	batches, err := codec.ParseImport(data)
	if err != nil {
		s.log.Warn("rejected import", zap.Error(err))
		switch {
		case errors.Is(err, codec.ErrNotJSON):
			writeError(w, http.StatusBadRequest, "error reading file: not valid JSON")
		case errors.Is(err, codec.ErrUnrecognizedFormat):
			writeError(w, http.StatusBadRequest, "invalid file format: expected an exported batch file")
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	imported := s.ws.ImportBatches(batches)
	s.log.Info("imported batches", zap.Int("count", len(imported)))
	writeJSON(w, http.StatusOK, map[string]any{"imported": len(imported), "batches": imported})
}

func (s *server) handleExportBatch(w http.ResponseWriter, r *http.Request) {
	batch, ok := s.ws.BatchByID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "batch not found")
		return
	}

	data, err := codec.ExportBatch(batch, s.cfg.AppVersion)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to export batch")
		return
	}
	sendDownload(w, exportFilename(batch.Name)+".json", "application/json", data)
}

func (s *server) handleExportAllBatches(w http.ResponseWriter, _ *http.Request) {
	data, err := codec.ExportAll(s.ws.History(), s.cfg.AppVersion)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to export batches")
		return
	}
	sendDownload(w, exportFilename("JulineMart AllBatches")+".json", "application/json", data)
}

func (s *server) handleWorkspaceCSV(w http.ResponseWriter, _ *http.Request) {
	items := s.ws.Items()
	csv := codec.WorkspaceCSV(items, store.ComputeTotals(items), s.ws.Settings())
	sendDownload(w, exportFilename("JulineMart Workspace")+".csv", "text/csv", []byte(csv))
}

func (s *server) handleWorkspaceXLSX(w http.ResponseWriter, _ *http.Request) {
	items := s.ws.Items()
	file, err := excel.WriteWorkspace(items, store.ComputeTotals(items), s.ws.Settings())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build workbook")
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename("JulineMart Workspace")+".xlsx"))
	if err := file.Write(w); err != nil {
		s.log.Warn("write workbook response", zap.Error(err))
	}
}

// confirmed implements the confirmation boundary for destructive
// operations: without confirm=true the request is answered with a prompt
// and no state changes.
func confirmed(w http.ResponseWriter, r *http.Request, action string) bool {
	if r.URL.Query().Get("confirm") == "true" {
		return true
	}
	writeJSON(w, http.StatusConflict, map[string]any{
		"error":  "confirmation required",
		"action": action,
	})
	return false
}

var filenameUnsafe = regexp.MustCompile(`[^a-zA-Z0-9]+`)

func exportFilename(name string) string {
	return filenameUnsafe.ReplaceAllString(name, "_") + "_" + time.Now().Format("2006-01-02")
}

func sendDownload(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
