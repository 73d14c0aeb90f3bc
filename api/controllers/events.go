package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/united17/relief-portal/api/responses"
	"github.com/united17/relief-portal/internal/changefeed"
	pkgerrors "github.com/united17/relief-portal/pkg/errors"
	"github.com/united17/relief-portal/pkg/logger"
)

const sseHeartbeatInterval = 25 * time.Second

// Events streams record-change notifications over server-sent events so the
// public dashboard can refetch without polling.
func Events(hub *changefeed.Hub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}
		if hub == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "changefeed is not configured"))
			return
		}

		events, cancel := hub.Subscribe()
		defer cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		fmt.Fprint(w, ": connected\n\n")
		flusher.Flush()

		heartbeat := time.NewTicker(sseHeartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-heartbeat.C:
				fmt.Fprint(w, ": ping\n\n")
				flusher.Flush()
			case event, open := <-events:
				if !open {
					return
				}
				payload, err := json.Marshal(event)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload)
				flusher.Flush()
			}
		}
	}
}
