// Package mustwebui is a server-side DSL for declaring reactive HTML pages.
// Page logic describes markup through a schema-bound builder; the compiled
// fragment is wired to an Alpine-style client runtime through binding
// attributes, and the initial state is embedded in the document through a
// script-injection-safe JSON payload.
package mustwebui

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/mustwebui/go-mustwebui/mustml"
)

// PageFunc is host page logic: it populates the builder through its
// operations, referencing schema fields via the state root, and may return a
// fragment string. An empty return means the builder's own Render output is
// used.
type PageFunc func(m *mustml.Builder, state mustml.State) (string, error)

// Handler registers MustWebUI pages and serves them over HTTP. Register all
// pages with Page before serving; the route table is write-once at startup
// and read-only thereafter. Each request gets an independent builder and
// state instance, so concurrent requests never share render state.
type Handler struct {
	// Logger configures logging for internal events.
	Logger *slog.Logger

	// OnError is a callback that is called when a page render fails.
	OnError func(*http.Request, error)

	// UIPreset names the styling preset exposed to page logic on the builder.
	// Defaults to "tailwind".
	UIPreset string

	// init is used to initialize the handler only once.
	init sync.Once

	// logger is a private logger instance that is used to log internal events.
	logger *slog.Logger

	mux *http.ServeMux
}

// Page registers a GET route serving the given page. state constructs a fresh
// default instance of the page's state model on every request; its type
// declares the schema page logic is validated against. The schema is derived
// once, at registration time.
func (h *Handler) Page(pattern string, state func() any, fn PageFunc) error {
	if state == nil || fn == nil {
		return fmt.Errorf("register page %s: nil state constructor or page func", pattern)
	}
	schema, err := mustml.SchemaOf(state())
	if err != nil {
		return fmt.Errorf("register page %s: %w", pattern, err)
	}
	if h.mux == nil {
		h.mux = http.NewServeMux()
	}
	h.mux.HandleFunc("GET "+pattern, func(w http.ResponseWriter, r *http.Request) {
		if err := h.servePage(w, schema, state, fn); err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

			h.logger.Error("Serve page", "url", r.URL.Redacted(), "error", err)

			if h.OnError != nil {
				h.OnError(r, err)
			}
		}
	})
	return nil
}

// ServeHTTP implements the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.init.Do(func() {
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		if h.Logger != nil {
			h.logger = h.Logger
		}
	})

	if h.mux == nil {
		http.NotFound(w, r)
		return
	}
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) servePage(w http.ResponseWriter, schema *mustml.Schema, state func() any, fn PageFunc) error {
	m := mustml.NewBuilder(schema)
	if h.UIPreset != "" {
		m.Preset = h.UIPreset
	}

	fragment, err := fn(m, m.State())
	if err != nil {
		return fmt.Errorf("run page: %w", err)
	}
	if err := m.Err(); err != nil {
		return fmt.Errorf("build markup: %w", err)
	}
	if fragment == "" {
		if fragment, err = m.Render(); err != nil {
			return fmt.Errorf("render fragment: %w", err)
		}
	}

	payload, err := marshalState(state())
	if err != nil {
		return fmt.Errorf("serialize state: %w", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := io.WriteString(w, renderDocument(fragment, payload)); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}
