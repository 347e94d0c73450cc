// Command myersadmin drives the Myers Security admin core from the terminal.
// Notifications print to stderr; lists and records print to stdout.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"myersadmin/internal/config"
	"myersadmin/internal/core"
	"myersadmin/internal/logging"
	"myersadmin/internal/notify"
	"myersadmin/internal/slot"
	"myersadmin/pkg/domain"
	"myersadmin/plugins/billing"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if cerr := a.close(); err == nil {
		err = cerr
	}
	if err != nil {
		var r reported
		if !errors.As(err, &r) {
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
		return 1
	}
	return 0
}

// reported marks an error the user has already seen as a notification.
type reported struct{ error }

func (r reported) Unwrap() error { return r.error }

// done passes service errors through, marking them as already reported.
func done(err error) error {
	if err == nil {
		return nil
	}
	return reported{err}
}

// app carries flags and the wired service for one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	envPath    string
	verbose    bool
	metrics    bool

	cfg      config.Config
	log      *zap.Logger
	store    slot.Store
	registry *prometheus.Registry
	svc      *core.Service
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "myersadmin",
		Short:         "Myers Security admin panel",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context())
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML config file")
	flags.StringVar(&a.envPath, "env-file", ".env", "dotenv file loaded when present")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")
	flags.BoolVar(&a.metrics, "metrics", false, "print operation metrics on exit")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newMenuCmd(a),
		newDashboardCmd(a),
		newThemeCmd(a),
		newUsersCmd(a),
		newEngineersCmd(a),
		newDispensariesCmd(a),
		newRequestsCmd(a),
		newKnowledgeCmd(a),
		newInvoicesCmd(a),
		newPaymentsCmd(a),
		newAgreementsCmd(a),
	)
	return root
}

func (a *app) open(ctx context.Context) error {
	cfg, err := config.Load(config.Options{DotEnvPath: a.envPath, YAMLPath: a.configPath})
	if err != nil {
		return a.fail(err)
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	logger, base, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return a.fail(err)
	}
	store, err := slot.Open(ctx, cfg)
	if err != nil {
		_ = base.Sync()
		return a.fail(fmt.Errorf("open %s storage: %w", cfg.StorageDriver, err))
	}
	prom, registry, err := core.NewPrometheusMetricsRecorder(cfg.MetricsNamespace, nil)
	if err != nil {
		_ = store.Close()
		return a.fail(err)
	}
	svc := core.NewService(store,
		core.WithLogger(logger),
		core.WithNotifier(notify.NewWriter(a.stderr)),
		core.WithMetricsRecorder(core.MultiMetricsRecorder{core.NewExpvarMetricsRecorder(""), prom}),
		core.WithPageSize(cfg.PageSize),
	)
	if _, err := svc.InstallPlugin(billing.New()); err != nil {
		_ = store.Close()
		return a.fail(err)
	}
	logger.Debug("storage opened", "driver", cfg.StorageDriver)
	a.cfg, a.log, a.store, a.registry, a.svc = cfg, base, store, registry, svc
	return nil
}

// close flushes metrics and releases storage. It is safe to call when open
// never ran.
func (a *app) close() error {
	if a.metrics && a.registry != nil {
		if err := a.dumpMetrics(); err != nil {
			fmt.Fprintf(a.stderr, "metrics: %v\n", err)
		}
	}
	var err error
	if a.store != nil {
		err = a.store.Close()
		a.store = nil
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return err
}

func (a *app) dumpMetrics() error {
	families, err := a.registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(a.stderr, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

// fail reports errors that happen before the notifier exists.
func (a *app) fail(err error) error {
	fmt.Fprintf(a.stderr, "[!] %v\n", err)
	return reported{err}
}

// principal returns the signed-in user, or nil so the service reports the
// missing session.
func (a *app) principal(cmd *cobra.Command) *domain.User {
	user, ok := a.svc.CurrentPrincipal(cmd.Context())
	if !ok {
		return nil
	}
	return user
}

// table writes aligned rows to stdout.
func (a *app) table(header []string, rows [][]string) {
	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

func (a *app) pageFooter(page, totalPages, total int) {
	fmt.Fprintf(a.stdout, "page %d of %d (%d total)\n", page, totalPages, total)
}

// queryFlags binds the shared list flags.
func queryFlags(cmd *cobra.Command, q *core.Query) {
	f := cmd.Flags()
	f.StringVarP(&q.Search, "search", "s", "", "case-insensitive search")
	f.StringVar(&q.Status, "status", "", "filter by status")
	f.IntVar(&q.Page, "page", 1, "page number")
	f.IntVar(&q.PageSize, "page-size", 0, "items per page (default from config)")
}

func date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.DateOnly)
}

// parseDate accepts YYYY-MM-DD or RFC 3339.
func parseDate(flag, value string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: expected YYYY-MM-DD, got %q", flag, value)
	}
	return t.UTC(), nil
}

// warnings prints non-blocking rule violations.
func (a *app) warnings(res core.Result) {
	for _, v := range res.Violations {
		if v.Severity == domain.SeverityWarn {
			fmt.Fprintf(a.stderr, "[warn] %s: %s\n", v.Rule, v.Message)
		}
	}
}
