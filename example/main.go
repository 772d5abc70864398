package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/mustwebui/go-mustwebui"
	"github.com/mustwebui/go-mustwebui/mustml"
)

func LoggerMiddleware(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info("HTTP request", "method", r.Method, "url", r.URL)
		next.ServeHTTP(w, r)
	})
}

type Profile struct {
	Email string `json:"email"`
}

type CounterState struct {
	Count   int     `json:"count"`
	Step    int     `json:"step"`
	Loading bool    `json:"loading"`
	Profile Profile `json:"profile"`
}

func counterPage(m *mustml.Builder, state mustml.State) (string, error) {
	count := state.Field("count")
	loading := state.Field("loading")

	m.With(m.Div(mustml.Class("counter")), func() {
		m.Text("Count: ", count, mustml.Class("label"))
		m.Text("That is a lot!", mustml.ShowIf(count.Ge(10)))
		m.Input(state.Field("step"), mustml.Type("number"), mustml.DisableIf(loading))
		m.Button("Reset", mustml.DisableIf(count.Eq(0)))
		m.Text("Signed in as ", state.Field("profile").Field("email"), mustml.Class("footer"))
	})
	return "", nil
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ui := &mustwebui.Handler{Logger: logger}

	err := ui.Page("/{$}", func() any {
		return &CounterState{Step: 1, Profile: Profile{Email: "ada@example.com"}}
	}, counterPage)
	if err != nil {
		logger.Error("Register page", "error", err)
		os.Exit(1)
	}

	logger.Info("Listening on :8080")
	if err := http.ListenAndServe(":8080", LoggerMiddleware(ui, logger)); err != nil {
		logger.Error("Serve", "error", err)
		os.Exit(1)
	}
}
