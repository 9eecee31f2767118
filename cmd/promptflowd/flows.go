package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/promptflow/promptflow/pkg/promptflow/autosave"
)

// draftCache holds the latest editor state per flow. Writes land here
// immediately; the autosave scheduler drains them into the store once edits
// go quiet. It doubles as the scheduler's Source.
type draftCache struct {
	mu     sync.RWMutex
	drafts map[string]autosave.FlowRecord
}

func newDraftCache() *draftCache {
	return &draftCache{drafts: make(map[string]autosave.FlowRecord)}
}

// FlowRecord implements autosave.Source.
func (c *draftCache) FlowRecord(flowID string) (autosave.FlowRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.drafts[flowID]
	return rec, ok
}

func (c *draftCache) put(rec autosave.FlowRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drafts[rec.ID] = rec
}

func (c *draftCache) drop(flowID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.drafts, flowID)
}

// flowAPI is the REST surface for flow documents.
type flowAPI struct {
	store  autosave.Store
	drafts *draftCache
	saver  *autosave.Scheduler
	logger *slog.Logger
}

func registerFlowRoutes(mux *http.ServeMux, api *flowAPI) {
	mux.HandleFunc("GET /flows", api.list)
	mux.HandleFunc("GET /flows/{id}", api.get)
	mux.HandleFunc("PUT /flows/{id}", api.put)
	mux.HandleFunc("DELETE /flows/{id}", api.delete)
}

func (a *flowAPI) list(w http.ResponseWriter, r *http.Request) {
	recs, err := a.store.List(r.Context())
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (a *flowAPI) get(w http.ResponseWriter, r *http.Request) {
	flowID := r.PathValue("id")

	// An unsaved draft is newer than whatever the store holds.
	if rec, ok := a.drafts.FlowRecord(flowID); ok && a.saver.Dirty(flowID) {
		writeJSON(w, http.StatusOK, rec)
		return
	}

	rec, err := a.store.Load(r.Context(), flowID)
	if errors.Is(err, autosave.ErrNotFound) {
		http.Error(w, "flow not found", http.StatusNotFound)
		return
	}
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a *flowAPI) put(w http.ResponseWriter, r *http.Request) {
	var rec autosave.FlowRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, "invalid flow payload", http.StatusBadRequest)
		return
	}
	rec.ID = r.PathValue("id")

	a.drafts.put(rec)
	a.saver.MarkDirty(rec.ID)
	w.WriteHeader(http.StatusAccepted)
}

func (a *flowAPI) delete(w http.ResponseWriter, r *http.Request) {
	flowID := r.PathValue("id")

	a.saver.Cancel(flowID)
	a.drafts.drop(flowID)
	if err := a.store.Delete(r.Context(), flowID); err != nil {
		a.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *flowAPI) fail(w http.ResponseWriter, err error) {
	a.logger.Error("flow api error", slog.String("error", err.Error()))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
