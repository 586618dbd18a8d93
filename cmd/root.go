package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/lukman83/vitrine/config"
	"github.com/lukman83/vitrine/internal/catalog"
	"github.com/lukman83/vitrine/internal/fakestore"
	"github.com/lukman83/vitrine/internal/httputil"
	"github.com/lukman83/vitrine/internal/logger"
	"github.com/lukman83/vitrine/internal/platform"
	"github.com/lukman83/vitrine/internal/querycache"
	"github.com/lukman83/vitrine/internal/snapshot"
	"github.com/lukman83/vitrine/internal/transport"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var (
	cfg *config.Config
	log *logrus.Logger

	// snapshotStore is opened on demand and closed after the command.
	snapshotStore *snapshot.Store
)

var rootCmd = &cobra.Command{
	Use:   "vitrine",
	Short: "Vitrine - product catalog CLI & MCP server",
	Long: "A Go CLI tool and MCP server over a FakeStore-compatible product API: list, search, " +
		"inspect and edit products, with search-as-you-type suggestions and synthetic analytics.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorMessage(err))
		stop()
		os.Exit(1)
	}
}

// errorMessage prefers the display message of a source error over its wrapped chain.
func errorMessage(err error) string {
	var fe *platform.FetchError
	if errors.As(err, &fe) {
		msg := "Error: " + fe.Message
		if platform.Retryable(err) {
			msg += " (try again)"
		}
		return msg
	}
	return "Error: " + err.Error()
}

func init() {
	// Hooks are assigned here rather than in the literal to avoid an initialization cycle
	// (initConfig reads rootCmd's flags).
	rootCmd.PersistentPreRunE = initConfig
	rootCmd.PersistentPostRunE = closeResources

	rootCmd.PersistentFlags().String("platform", "", "Product source: fakestore, snapshot (default from $VITRINE_PLATFORM or fakestore)")
	rootCmd.PersistentFlags().String("base-url", "", "Product API base URL (default from $VITRINE_BASE_URL)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().String("proxy", "", "Proxy URL for upstream requests")
	rootCmd.PersistentFlags().String("db", "", "Snapshot database path (default from $VITRINE_SNAPSHOT_DB)")
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg = config.DefaultConfig()
	if err := cfg.LoadFromEnv(); err != nil {
		return err
	}

	// Override from flags
	flags := rootCmd.PersistentFlags()
	if v, _ := flags.GetString("platform"); v != "" {
		cfg.DefaultPlatform = v
	}
	if v, _ := flags.GetString("base-url"); v != "" {
		cfg.BaseURL = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := flags.GetString("proxy"); v != "" {
		cfg.ProxyURL = v
	}
	if v, _ := flags.GetString("db"); v != "" {
		cfg.SnapshotDB = v
	}

	var err error
	log, err = logger.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	return nil
}

func closeResources(cmd *cobra.Command, args []string) error {
	if snapshotStore != nil {
		err := snapshotStore.Close()
		snapshotStore = nil
		return err
	}
	return nil
}

// buildHTTPClient creates the throttled HTTP client from config.
func buildHTTPClient() (*http.Client, error) {
	base, err := transport.NewBase(cfg.ProxyURL)
	if err != nil {
		return nil, err
	}
	tr := &transport.ThrottledTransport{
		Base:        base,
		RateLimiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
		UserAgent:   cfg.UserAgent,
		Logger:      log.WithField("component", "transport"),
	}
	return httputil.NewHTTPClient(tr, cfg.Timeout), nil
}

func openSnapshot() (*snapshot.Store, error) {
	if snapshotStore != nil {
		return snapshotStore, nil
	}
	s, err := snapshot.Open(cfg.SnapshotDB)
	if err != nil {
		return nil, err
	}
	snapshotStore = s
	return s, nil
}

// initPlatforms registers the product sources. The snapshot database is only opened when
// it is the selected platform.
func initPlatforms() error {
	client, err := buildHTTPClient()
	if err != nil {
		return err
	}
	platform.Register("fakestore", fakestore.NewClient(client, cfg.BaseURL))

	if cfg.DefaultPlatform == "snapshot" {
		store, err := openSnapshot()
		if err != nil {
			return err
		}
		platform.Register("snapshot", store)
	}
	return nil
}

func newQueryCache() *querycache.Client {
	opts := []querycache.Option{
		querycache.WithStaleTime(cfg.StaleTime),
		querycache.WithLogger(log.WithField("component", "querycache")),
	}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		store := querycache.NewRedisStore(rdb, "vitrine:", cfg.GCTime)
		return querycache.New(store, opts...)
	}
	return querycache.New(querycache.NewMemoryStore(cfg.GCTime), opts...)
}

// newService wires the selected platform into a catalog service.
func newService() (*catalog.Service, error) {
	if err := initPlatforms(); err != nil {
		return nil, err
	}
	src, err := platform.Get(cfg.DefaultPlatform)
	if err != nil {
		return nil, err
	}
	log.WithField("platform", cfg.DefaultPlatform).Debug("using product source")
	return catalog.NewService(src, newQueryCache(),
		catalog.WithMaxConcurrent(cfg.MaxConcurrent),
		catalog.WithLogger(log.WithField("component", "catalog")),
	), nil
}
