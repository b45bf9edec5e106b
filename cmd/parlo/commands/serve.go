package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/parlo-app/parlo/go/pkg/media"
	"github.com/parlo-app/parlo/go/pkg/mediastore"
	"github.com/parlo-app/parlo/go/pkg/offload"
	"github.com/parlo-app/parlo/go/pkg/practice"
	"github.com/parlo-app/parlo/go/pkg/service"
	"github.com/parlo-app/parlo/go/pkg/state"
)

var (
	serveListen   string
	serveLibrary  string
	serveS3Bucket string
	serveS3Prefix string
	serveS3Region string
	serveDataDir  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analysis service",
	Long: `Run the HTTP and websocket analysis service.

Clips named by library path are read from a local directory (--library)
or an S3 bucket (--s3-bucket); inline and URL sources need neither. S3
credentials come from the default AWS provider chain.

Examples:
  parlo serve --listen :8080 --library ./clips
  parlo serve --s3-bucket parlo-clips --s3-prefix library --s3-region eu-west-1`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveListen, "listen", "", "listen address (default from config)")
	f.StringVar(&serveLibrary, "library", "", "local clip directory")
	f.StringVar(&serveS3Bucket, "s3-bucket", "", "S3 bucket of clips")
	f.StringVar(&serveS3Prefix, "s3-prefix", "", "key prefix inside the bucket")
	f.StringVar(&serveS3Region, "s3-region", "", "bucket region")
	f.StringVar(&serveDataDir, "data-dir", "", "badger database directory")

	rootCmd.AddCommand(serveCmd)
}

// newLibrary builds the clip store the resolver falls back to, or nil when
// neither a directory nor a bucket is configured.
func newLibrary(ctx context.Context) (mediastore.Store, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}

	root := cfg.Library.Root
	if serveLibrary != "" {
		root = serveLibrary
	}
	bucket, prefix, region := cfg.Library.S3.Bucket, cfg.Library.S3.Prefix, cfg.Library.S3.Region
	if serveS3Bucket != "" {
		bucket, prefix, region = serveS3Bucket, serveS3Prefix, serveS3Region
	}

	switch {
	case root != "":
		store, err := mediastore.NewDir(root)
		if err != nil {
			return nil, fmt.Errorf("open library %s: %w", root, err)
		}
		return store, nil
	case bucket != "":
		var loaders []func(*awsconfig.LoadOptions) error
		if region != "" {
			loaders = append(loaders, awsconfig.WithRegion(region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		return mediastore.NewS3(s3.NewFromConfig(awsCfg), bucket, prefix), nil
	default:
		return nil, nil
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if IsVerbose() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	cfg, err := GetConfig()
	if err != nil {
		return err
	}
	listen := cfg.Listen
	if serveListen != "" {
		listen = serveListen
	}
	if serveDataDir != "" {
		cfg.DataDir = serveDataDir
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	library, err := newLibrary(ctx)
	if err != nil {
		return err
	}

	cache := media.NewDecodeCache(cfg.CacheClips, logger)
	mgr := offload.NewManager(cache, logger)
	defer mgr.Close()

	engineCfg := practice.Config{
		Resolver: mediastore.NewResolver(library, nil, logger),
		Cache:    cache,
		Offload:  mgr,
		Logger:   logger,
	}

	// The series cache is an optimization; a broken state dir only costs
	// recomputed analyses.
	if dir, err := cfg.StateDir(); err != nil {
		logger.Warn("serve: state dir unavailable", "err", err)
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Warn("serve: state dir unavailable", "dir", dir, "err", err)
	} else if db, err := state.Open(state.Options{Dir: dir, Logger: logger}); err != nil {
		logger.Warn("serve: state unavailable", "dir", dir, "err", err)
	} else {
		defer db.Close()
		engineCfg.SeriesCache = db.Series()
	}

	engine := practice.NewEngine(engineCfg)
	srv := &http.Server{
		Addr:              listen,
		Handler:           service.New(engine, logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("shutting down")
		case <-ctx.Done():
		}
		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("serve: shutdown", "err", err)
		}
	}()

	logger.Info("listening", "addr", listen)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
