package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kazanTW/pa-telegram-bot/internal/config"
	"github.com/kazanTW/pa-telegram-bot/internal/notes"
	"github.com/kazanTW/pa-telegram-bot/internal/scheduler"
	"github.com/kazanTW/pa-telegram-bot/internal/store"
	"github.com/kazanTW/pa-telegram-bot/internal/telegram"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tgbotapi.BotAPI
	httpSrv *http.Server
	sched   *scheduler.Scheduler
	router  *telegram.Router
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	bot.Debug = false

	loc, err := time.LoadLocation(cfg.TZ)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.TZ, err)
	}

	repo, err := store.Open(cfg.DataPath, log)
	if err != nil {
		return nil, err
	}
	svc := notes.New(repo, log)
	sched := scheduler.New(svc, telegram.NewClient(bot), log, loc)
	router := telegram.NewRouter(bot, log, svc, sched)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	a := &App{cfg: cfg, log: log, bot: bot, httpSrv: srv, sched: sched, router: router}
	a.rearm(context.Background(), repo)
	return a, nil
}

// rearm restores the daily timer after a restart when a reminder time
// and destination were already persisted. /schedule stays the only
// user-facing arming path.
func (a *App) rearm(ctx context.Context, repo store.Repo) {
	st, err := repo.Load(ctx)
	if err != nil {
		a.log.Warn("could not load state for re-arming", zap.Error(err))
		return
	}
	if st.ReminderTime == nil || st.ChatID == nil {
		return
	}
	next := a.sched.Arm(*st.ReminderTime)
	a.log.Info("restored daily reminder from saved state",
		zap.String("at", st.ReminderTime.String()),
		zap.Time("next", next))
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting assistant bot",
		zap.String("data", a.cfg.DataPath),
		zap.String("http", a.cfg.HTTPAddr),
	)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")
			a.sched.Stop()

			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := a.httpSrv.Shutdown(shCtx)
			cancel()
			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}
