package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ranihwanifactory/2026newyear/internal/auth"
	"github.com/ranihwanifactory/2026newyear/internal/board"
	"github.com/ranihwanifactory/2026newyear/internal/config"
	"github.com/ranihwanifactory/2026newyear/internal/database"
	"github.com/ranihwanifactory/2026newyear/internal/fortune"
	"github.com/ranihwanifactory/2026newyear/internal/gateway"
	"github.com/ranihwanifactory/2026newyear/internal/jobs"
	"github.com/ranihwanifactory/2026newyear/internal/markers"
	"github.com/ranihwanifactory/2026newyear/internal/models"
	"github.com/ranihwanifactory/2026newyear/internal/ranking"
	cronsched "github.com/ranihwanifactory/2026newyear/internal/scheduler"
	"github.com/ranihwanifactory/2026newyear/internal/session"
	"github.com/ranihwanifactory/2026newyear/internal/store"
	"github.com/ranihwanifactory/2026newyear/internal/store/memstore"
	"github.com/ranihwanifactory/2026newyear/internal/store/mongostore"
	"github.com/ranihwanifactory/2026newyear/pkg/logger"
)

var (
	flagOffline bool
	flagMode    string
	flagName    string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the live wish board",
	RunE:  runBoard,
}

func init() {
	runCmd.Flags().BoolVar(&flagOffline, "offline", false, "run against an in-memory store with demo data")
	runCmd.Flags().StringVar(&flagMode, "mode", "", "ranking mode: recency or popularity (overrides RANKING_MODE)")
	runCmd.Flags().StringVar(&flagName, "name", "데모 말", "display name of the offline demo identity")
}

func runBoard(cmd *cobra.Command, _ []string) error {
	cfg := config.LoadConfig()
	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		st       store.Store
		provider auth.Provider
	)
	if flagOffline {
		st = memstore.New()
		provider = auth.NewStaticProvider(&models.Identity{UID: "demo", DisplayName: flagName})
	} else {
		db, err := database.ConnectDB(cfg)
		if err != nil {
			return err
		}
		defer db.Client().Disconnect(context.Background())
		st = mongostore.New(db)
		provider = auth.NewMongoProvider(db, cfg.JWTSecret)
	}

	gate := session.NewGate(provider, func() {
		logger.Log.Info("로그인이 필요합니다")
	})
	defer gate.Close()

	var fortunes fortune.Generator
	if cfg.GeminiAPIKey != "" {
		gen, err := fortune.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Log.WithError(err).Warn("Fortune generator unavailable, wishes will be posted without fortunes")
		} else {
			fortunes = gen
		}
	}

	fallback := models.Location{Lat: cfg.FallbackLat, Lng: cfg.FallbackLng}
	gw := gateway.New(st, gate, fortunes, nil, fallback)

	surface := markers.NewConsoleSurface()
	ctrl := markers.NewController(surface, func(wish models.Wish) {
		logger.Log.WithField("wishID", wish.ID).Info("Wish selected")
	})
	ctrl.Start()
	defer ctrl.Close()

	mode := ranking.ParseMode(cfg.RankingMode)
	if flagMode != "" {
		mode = ranking.ParseMode(flagMode)
	}

	b, err := board.New(ctx, st, mode, ctrl, printView)
	if err != nil {
		return err
	}
	defer b.Close()

	digest := cronsched.StartDigestCron(cfg.DigestCron, jobs.NewTopWishesDigest(b))
	defer digest.Stop()

	if flagOffline {
		seedDemo(ctx, gw)
	}

	logger.Log.WithField("mode", cfg.RankingMode).Info("Wish board running, press Ctrl+C to stop")
	<-ctx.Done()
	logger.Log.Info("Shutting down")
	return nil
}

func printView(view board.View) {
	if view.Degraded {
		logger.Log.Warn(view.Notice)
	}
	if len(view.Wishes) == 0 {
		logger.Log.Info("아직 달리는 말이 없어요.")
		return
	}
	for i, wish := range view.Wishes {
		entry := logger.Log.WithFields(logrus.Fields{
			"author":  wish.Author,
			"cheers":  wish.Cheers,
			"content": wish.Content,
		})
		if wish.Fortune != "" {
			entry = entry.WithField("fortune", wish.Fortune)
		}
		if view.Mode == ranking.ByPopularity {
			entry = entry.WithField("rank", ranking.RankBadge(i).Label)
		}
		entry.Info("Wish")
	}
}

// seedDemo posts a few wishes through the gateway so the offline board
// has something to show.
func seedDemo(ctx context.Context, gw *gateway.Gateway) {
	seeds := []gateway.CreateRequest{
		{Content: "새해 복 많이 받으세요", Location: &models.Location{Lat: 37.5665, Lng: 126.978}},
		{Content: "올해는 마라톤 완주!", Location: &models.Location{Lat: 35.1796, Lng: 129.0756}},
		{Content: "가족 모두 건강하게"},
	}
	for _, seed := range seeds {
		wish, err := gw.CreateWish(ctx, seed)
		if err != nil {
			logger.Log.WithError(err).Warn("Failed to seed demo wish")
			continue
		}
		if err := gw.Cheer(ctx, wish.ID); err != nil {
			logger.Log.WithError(err).Warn("Failed to cheer demo wish")
		}
	}
}
