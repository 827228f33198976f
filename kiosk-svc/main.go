package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"tableside-ordering/config"
	httpapi "tableside-ordering/kiosk-svc/internal/api/http"
	"tableside-ordering/kiosk-svc/internal/backend"
	"tableside-ordering/kiosk-svc/internal/domain"
	"tableside-ordering/kiosk-svc/internal/logger"
	"tableside-ordering/kiosk-svc/internal/service"
	"tableside-ordering/kiosk-svc/internal/storage"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const serviceName = "kiosk-svc"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile, envFile string

	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Table-side self-ordering kiosk",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment")
	config.RegisterFlags(root.PersistentFlags())

	load := func(cmd *cobra.Command) (*config.Config, error) {
		return config.Load(config.Options{ConfigFile: cfgFile, EnvFile: envFile, Flags: cmd.Flags()})
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the kiosk session API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "branches",
		Short: "List active branches from the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			client := backend.NewClient(cfg.BackendURL, nil, nil)
			branches, err := client.ListBranches(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tADDRESS")
			for _, b := range branches {
				fmt.Fprintf(w, "%s\t%s\t%s\n", b.ID, b.Name, b.Address)
			}
			return w.Flush()
		},
	})

	var group string
	events := &cobra.Command{
		Use:   "events",
		Short: "Follow the session event stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			if cfg.KafkaBroker == "" {
				return errors.New("kafka_broker is not configured")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reader := config.NewKafkaReader(cfg.KafkaBroker, cfg.KafkaTopic, group)
			defer reader.Close()

			out := cmd.OutOrStdout()
			consumer := storage.NewSessionEventConsumer(reader, logger.New(serviceName, cfg.LogLevel))
			return consumer.Consume(ctx, func(e domain.SessionEvent) {
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\n", e.Timestamp.Format(time.RFC3339), e.Type, e.SessionID, e.OrderID, e.Amount.String())
			})
		},
	}
	events.Flags().StringVar(&group, "group", "kiosk-events-tail", "consumer group id")
	root.AddCommand(events)

	return root
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.New(serviceName, cfg.LogLevel)

	tokens := service.NewTokenHolder()
	client := backend.NewClient(cfg.BackendURL, &http.Client{}, tokens)

	var cache service.RatingCache
	if cfg.RedisAddr != "" {
		rdb, err := config.InitRedis(ctx, cfg.RedisAddr)
		if err != nil {
			log.Warn("startup", "", "Rating cache disabled", slog.String("error", err.Error()))
		} else {
			defer rdb.Close()
			cache = storage.NewRedisRatingCache(rdb, cfg.RatingCacheTTL)
		}
	}

	var publisher service.EventPublisher
	if cfg.KafkaBroker != "" {
		writer := config.NewKafkaWriter(cfg.KafkaBroker, cfg.KafkaTopic)
		defer writer.Close()
		publisher = storage.NewKafkaEventPublisher(writer)
	}

	controller := service.NewController(
		client,
		tokens,
		service.NewRatingService(client, cache, log),
		publisher,
		service.ReceiptQR{BaseURL: cfg.ReceiptBaseURL},
		service.ControllerConfig{PollInterval: cfg.PollInterval, PriceTolerance: cfg.PriceTolerance},
		log,
	)
	defer controller.Close()

	hub := httpapi.NewSnapshotHub(controller, log)
	controller.OnChange(hub.Publish)

	server := httpapi.NewServer(cfg.ListenAddr, httpapi.NewRouter(httpapi.NewHandler(controller, log), hub, cfg.FrontendDir))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		log.Info("startup", controller.Snapshot().SessionID, "Kiosk service listening", slog.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
