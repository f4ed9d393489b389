package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/oz-main-09-team3/emodiary/internal/client/config"
	"github.com/oz-main-09-team3/emodiary/internal/client/gateway"
	"github.com/oz-main-09-team3/emodiary/internal/client/store"
	"github.com/oz-main-09-team3/emodiary/internal/logging"
)

type App struct {
	config *config.Config
	store  *store.Store
	log    logging.Logger
	out    io.Writer
}

type Option func(*App)

func WithLogger(l logging.Logger) Option {
	return func(a *App) { a.log = l }
}

// WithOutput redirects user-facing output, mainly for tests.
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

func NewApp(c *config.Config, opts ...Option) *App {
	a := &App{config: c, log: logging.Nop(), out: os.Stdout}
	for _, opt := range opts {
		opt(a)
	}

	gw := gateway.NewHTTPGateway(c.BaseURL,
		gateway.WithToken(c.AuthToken),
		gateway.WithTimeout(c.RequestTimeout),
		gateway.WithLogger(a.log),
	)
	a.store = store.New(gw,
		store.WithLogger(a.log),
		store.WithLocation(c.Location()),
	)
	return a
}

// Run bootstraps the cache and hands control to the shell. A failed
// bootstrap still enters the shell: the error stays visible in the prompt
// and a later refresh can recover.
func (a *App) Run(ctx context.Context) {
	defer a.store.Close()

	if err := a.store.Bootstrap(ctx); err != nil {
		a.log.Warn(ctx, "initial load failed", "error", err)
	}

	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

// status builds the prompt segment: entry count, active filter, and an
// error marker when the last operation failed.
func (a *App) status() string {
	s := fmt.Sprintf("%d entries", len(a.store.Filtered()))
	if key := a.store.SelectedDate(); key != "" {
		s += " @ " + string(key)
	}
	if a.store.Err() != "" {
		s += " [!]"
	}
	return s
}
