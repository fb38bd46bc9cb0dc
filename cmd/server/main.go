package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	cardhandler "finbook/internal/creditcard/handler"
	cardservice "finbook/internal/creditcard/service"
	cardstore "finbook/internal/creditcard/store"
	institutionhandler "finbook/internal/institution/handler"
	institutionservice "finbook/internal/institution/service"
	institutionstore "finbook/internal/institution/store"
	menuhandler "finbook/internal/menu/handler"
	menuservice "finbook/internal/menu/service"
	menustore "finbook/internal/menu/store"
	personhandler "finbook/internal/person/handler"
	personservice "finbook/internal/person/service"
	personstore "finbook/internal/person/store"
	"finbook/internal/platform/auth"
	"finbook/internal/platform/config"
	"finbook/internal/platform/httpserver"
	"finbook/internal/platform/logger"
	"finbook/internal/platform/metrics"
	"finbook/internal/platform/middleware"
	"finbook/internal/repository"
	titlehandler "finbook/internal/title/handler"
	titleservice "finbook/internal/title/service"
	titlestore "finbook/internal/title/store"
	wallethandler "finbook/internal/wallet/handler"
	walletservice "finbook/internal/wallet/service"
	walletstore "finbook/internal/wallet/store"
)

// beginners bundles the per-feature unit-of-work factories. Each call
// opens a fresh session so one operation's staged changes never leak
// into another's.
type beginners struct {
	wallet      func() walletservice.Repos
	title       func() titleservice.Repos
	card        func() cardservice.Repos
	institution func() institutionservice.Repos
	person      func() personservice.Repos
	menu        func() menuservice.Repos
}

func memoryBeginners() beginners {
	engine := repository.NewEngine()
	return beginners{
		wallet: func() walletservice.Repos {
			s := engine.Begin()
			return walletservice.Repos{
				UoW:     s,
				Wallets: repository.NewMemory(s, walletstore.Memory()),
				Titles:  repository.NewMemory(s, titlestore.Memory()),
			}
		},
		title: func() titleservice.Repos {
			s := engine.Begin()
			return titleservice.Repos{
				UoW:        s,
				Titles:     repository.NewMemory(s, titlestore.Memory()),
				Categories: repository.NewMemory(s, titlestore.MemoryCategories()),
				Wallets:    repository.NewMemory(s, walletstore.Memory()),
				Persons:    repository.NewMemory(s, personstore.Memory()),
			}
		},
		card: func() cardservice.Repos {
			s := engine.Begin()
			return cardservice.Repos{
				UoW:          s,
				Cards:        repository.NewMemory(s, cardstore.Memory()),
				Brands:       repository.NewMemory(s, cardstore.MemoryBrands()),
				Institutions: repository.NewMemory(s, institutionstore.Memory()),
			}
		},
		institution: func() institutionservice.Repos {
			s := engine.Begin()
			return institutionservice.Repos{
				UoW:          s,
				Institutions: repository.NewMemory(s, institutionstore.Memory()),
				Cards:        repository.NewMemory(s, cardstore.Memory()),
			}
		},
		person: func() personservice.Repos {
			s := engine.Begin()
			return personservice.Repos{
				UoW:     s,
				Persons: repository.NewMemory(s, personstore.Memory()),
			}
		},
		menu: func() menuservice.Repos {
			s := engine.Begin()
			return menuservice.Repos{
				UoW:   s,
				Menus: repository.NewMemory(s, menustore.Memory()),
			}
		},
	}
}

func postgresBeginners(pool *pgxpool.Pool) beginners {
	engine := repository.NewPGEngine(pool)
	return beginners{
		wallet: func() walletservice.Repos {
			s := engine.Begin()
			return walletservice.Repos{
				UoW:     s,
				Wallets: repository.NewPostgres(s, walletstore.SQL()),
				Titles:  repository.NewPostgres(s, titlestore.SQL()),
			}
		},
		title: func() titleservice.Repos {
			s := engine.Begin()
			return titleservice.Repos{
				UoW:        s,
				Titles:     repository.NewPostgres(s, titlestore.SQL()),
				Categories: repository.NewPostgres(s, titlestore.SQLCategories()),
				Wallets:    repository.NewPostgres(s, walletstore.SQL()),
				Persons:    repository.NewPostgres(s, personstore.SQL()),
			}
		},
		card: func() cardservice.Repos {
			s := engine.Begin()
			return cardservice.Repos{
				UoW:          s,
				Cards:        repository.NewPostgres(s, cardstore.SQL()),
				Brands:       repository.NewPostgres(s, cardstore.SQLBrands()),
				Institutions: repository.NewPostgres(s, institutionstore.SQL()),
			}
		},
		institution: func() institutionservice.Repos {
			s := engine.Begin()
			return institutionservice.Repos{
				UoW:          s,
				Institutions: repository.NewPostgres(s, institutionstore.SQL()),
				Cards:        repository.NewPostgres(s, cardstore.SQL()),
			}
		},
		person: func() personservice.Repos {
			s := engine.Begin()
			return personservice.Repos{
				UoW:     s,
				Persons: repository.NewPostgres(s, personstore.SQL()),
			}
		},
		menu: func() menuservice.Repos {
			s := engine.Begin()
			return menuservice.Repos{
				UoW:   s,
				Menus: repository.NewPostgres(s, menustore.SQL()),
			}
		},
	}
}

func newRouter(log *slog.Logger, verifier middleware.ScopeVerifier, begins beginners, m *metrics.Metrics) http.Handler {
	walletH := wallethandler.New(walletservice.New(begins.wallet, log, m), log)
	titleH := titlehandler.New(titleservice.New(begins.title, log, m), log)
	cardH := cardhandler.New(cardservice.New(begins.card, log, m), log)
	institutionH := institutionhandler.New(institutionservice.New(begins.institution, log, m), log)
	personH := personhandler.New(personservice.New(begins.person, log, m), log)
	menuH := menuhandler.New(menuservice.New(begins.menu, log), log)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestContext)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireScope(verifier, log))
		walletH.Routes(r)
		titleH.Routes(r)
		cardH.Routes(r)
		institutionH.Routes(r)
		personH.Routes(r)
		menuH.Routes(r)
	})
	return r
}

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var begins beginners
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		begins = postgresBeginners(pool)
		log.Info("storage engine: postgres")
	} else {
		begins = memoryBeginners()
		log.Info("storage engine: memory")
	}

	verifier := auth.NewHMACVerifier(cfg.JWTSigningKey)
	router := newRouter(log, verifier, begins, m)
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting finbook", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
