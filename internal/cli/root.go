// Package cli wires configuration, credentials and the catalog client into
// the breeds commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/Makepad-fr/breeds/internal/activity"
	"github.com/Makepad-fr/breeds/internal/browse"
	"github.com/Makepad-fr/breeds/internal/catapi"
	"github.com/Makepad-fr/breeds/internal/config"
	"github.com/Makepad-fr/breeds/internal/store/credstore"
	"github.com/Makepad-fr/breeds/internal/ui"
)

// DefaultSubID identifies the user when neither config nor stored
// credentials name one.
const DefaultSubID = "my-user-1234"

const debugLogFile = "breeds-debug.log"

// usageError marks mistakes in how the command was invoked (exit code 2).
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// app carries what the root flags resolve to.
type app struct {
	cfgFile     string
	theme       string
	metricsAddr string
	debug       bool

	cfg     config.Config
	tracker *activity.Tracker
	client  *catapi.Client
	sess    *browse.Session
	metrics *http.Server
}

// Execute runs the command line and returns the process exit code: 0 ok,
// 1 error, 2 usage.
func Execute(ctx context.Context, args []string) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return exitCode(cmd, cmd.ExecuteContext(ctx))
}

func exitCode(cmd *cobra.Command, err error) int {
	if err == nil {
		return 0
	}
	w := cmd.ErrOrStderr()
	var ue usageError
	if errors.As(err, &ue) {
		ui.Fail(w, ue.Error())
		ui.Hint(w, "run 'breeds --help' for usage")
		return 2
	}
	ui.Fail(w, errorText(err))
	return 1
}

func errorText(err error) string {
	var f *browse.Failure
	if errors.As(err, &f) {
		return f.Message()
	}
	return err.Error()
}

// NewRootCmd constructs the root command; exposed for tests.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "breeds",
		Short:         "Browse cat breeds, their pictures and your favourites",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unknown command %q", args[0])
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.browse(cmd)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })

	f := root.PersistentFlags()
	f.StringVar(&a.cfgFile, "config", config.DefaultFile, "configuration file (JSON5)")
	f.BoolVarP(&a.debug, "debug", "d", false, "enable debug logging")
	f.StringVar(&a.theme, "theme", "", "output theme: classic, neon or mono")
	f.StringVar(&a.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	root.AddCommand(
		newBrowseCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newImagesCmd(a),
		newFavouritesCmd(a),
		newFavCmd(a),
		newAuthCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        cmd.ErrOrStderr(),
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	})
	if a.debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Debug().Msg("debug logging enabled")
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.theme != "" {
		cfg.Theme = a.theme
	}
	ui.SetTheme(cfg.Theme)
	a.cfg = cfg
	log.Debug().
		Str("base_url", cfg.BaseURL).
		Int("image_limit", cfg.ImageLimit).
		Str("rotate_every", cfg.RotateEvery.String()).
		Str("theme", cfg.Theme).
		Msg("configuration loaded")

	if a.metricsAddr != "" {
		a.serveMetrics()
	}
	return nil
}

func (a *app) serveMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	a.metrics = &http.Server{Addr: a.metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := a.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", a.metricsAddr).Msg("metrics listener stopped")
		}
	}()
	log.Debug().Str("addr", a.metricsAddr).Msg("serving metrics")
}

func (a *app) teardown(ctx context.Context) error {
	if a.metrics == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	return a.metrics.Shutdown(ctx)
}

// credentials resolves the API key and user id: config first, then the
// stored credentials file, then DefaultSubID for the user.
func (a *app) credentials() (apiKey, subID string, err error) {
	apiKey, subID = a.cfg.APIKey, a.cfg.SubID
	if apiKey == "" || subID == "" {
		creds, err := credstore.Load()
		if err != nil {
			return "", "", err
		}
		if creds != nil {
			if apiKey == "" {
				apiKey = creds.APIKey
			}
			if subID == "" {
				subID = creds.SubID
			}
		}
	}
	if subID == "" {
		subID = DefaultSubID
	}
	return apiKey, subID, nil
}

// session builds the client and session on first use. progress receives
// the busy state of every request.
func (a *app) session(progress io.Writer) (*browse.Session, error) {
	if a.sess != nil {
		return a.sess, nil
	}
	apiKey, subID, err := a.credentials()
	if err != nil {
		return nil, err
	}

	a.tracker = activity.New()
	if progress != nil {
		a.tracker.Subscribe(progressLine(progress))
	}
	a.client, err = catapi.New(a.cfg.BaseURL, apiKey,
		catapi.WithIndicator(a.tracker),
		catapi.WithLogger(log.Logger),
		catapi.WithTracer(otel.Tracer("github.com/Makepad-fr/breeds")),
	)
	if err != nil {
		return nil, err
	}
	a.sess = browse.NewSession(a.client, browse.Options{
		SubID:      subID,
		ImageLimit: a.cfg.ImageLimit,
		Progress:   catapi.ProgressTo(a.tracker),
	})
	return a.sess, nil
}

// stderrProgress is where CLI commands draw their progress line, or nil
// when stderr is not a terminal.
func stderrProgress(cmd *cobra.Command) io.Writer {
	if cmd.ErrOrStderr() == os.Stderr && ui.StderrIsTTY() {
		return os.Stderr
	}
	return nil
}
