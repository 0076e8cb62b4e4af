package demo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/Motmedel/results_go/internal/config"
	motmedelContext "github.com/Motmedel/results_go/pkg/context"
	motmedelErrors "github.com/Motmedel/results_go/pkg/errors"
	"github.com/Motmedel/results_go/pkg/errors/types/nil_error"
	"github.com/Motmedel/results_go/pkg/http/authentication"
	"github.com/Motmedel/results_go/pkg/http/authentication/jwt_cookie_handler"
	"github.com/Motmedel/results_go/pkg/http/authentication/jwt_cookie_handler/jwt_cookie_handler_config"
	"github.com/Motmedel/results_go/pkg/http/json_codec"
	"github.com/Motmedel/results_go/pkg/http/result/executor"
	"github.com/Motmedel/results_go/pkg/http/result/handler"
	"github.com/Motmedel/results_go/pkg/http/result/observer"
	"github.com/Motmedel/results_go/pkg/http/result/observer/prometheus_observer"
	"github.com/Motmedel/results_go/pkg/http/result/observer/slog_observer"
	"github.com/Motmedel/results_go/pkg/http/result/observer/zap_observer"
	"github.com/Motmedel/results_go/pkg/http/url_resolver/mux_url_resolver"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	CookieScheme    = "cookie"
	RequestIdHeader = "X-Request-Id"

	RouteItem  = "item"
	RouteItems = "items"
	RouteFile  = "file"
)

type Server struct {
	Config   *config.Config
	Logger   *slog.Logger
	Router   *mux.Router
	Executor *executor.Executor
	Registry *prometheus.Registry
	Auth     *authentication.Service

	items      *itemStore
	zapLogger  *zap.Logger
	httpServer *http.Server
}

func requestId(r *http.Request) string {
	return motmedelContext.GetRequestId(r.Context())
}

// requestIdMiddleware gives each request an id, taken from the X-Request-Id header when it is a
// valid UUID and generated otherwise.
func requestIdMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIdHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIdHeader, id)
		next.ServeHTTP(w, r.WithContext(motmedelContext.WithRequestId(r.Context(), id)))
	})
}

func (server *Server) makeObserver() (observer.Observer, error) {
	var observers observer.Multi

	for _, name := range server.Config.Observers {
		switch name {
		case config.ObserverSlog:
			observers = append(observers, slog_observer.New(server.Logger))
		case config.ObserverZap:
			zapLogger, err := zap.NewProduction()
			if err != nil {
				return nil, motmedelErrors.NewWithTrace(fmt.Errorf("zap new production: %w", err))
			}
			server.zapLogger = zapLogger
			observers = append(observers, zap_observer.New(zapLogger))
		case config.ObserverPrometheus:
			prometheusObserver, err := prometheus_observer.New(server.Registry)
			if err != nil {
				return nil, fmt.Errorf("prometheus observer new: %w", err)
			}
			observers = append(observers, prometheusObserver)
		}
	}

	return observers, nil
}

func (server *Server) makeAuthService() (*authentication.Service, error) {
	authConfig := server.Config.Auth

	cookieHandler, err := jwt_cookie_handler.New(
		[]byte(authConfig.SigningKey),
		jwt_cookie_handler_config.WithCookieName(authConfig.CookieName),
		jwt_cookie_handler_config.WithIssuer(authConfig.Issuer),
		jwt_cookie_handler_config.WithLifetime(authConfig.Lifetime),
		jwt_cookie_handler_config.WithLoginPath(authConfig.LoginPath),
		jwt_cookie_handler_config.WithAccessDeniedPath(authConfig.AccessDeniedPath),
		jwt_cookie_handler_config.WithInsecure(authConfig.Insecure),
	)
	if err != nil {
		return nil, fmt.Errorf("jwt cookie handler new: %w", err)
	}

	service := &authentication.Service{DefaultScheme: CookieScheme}
	if err := service.Register(CookieScheme, cookieHandler); err != nil {
		return nil, fmt.Errorf("authentication service register: %w", err)
	}

	return service, nil
}

func (server *Server) handle(path string, name string, function handler.Function, methods ...string) {
	route := server.Router.Handle(
		path,
		&handler.Handler{Function: function, Executor: server.Executor, Logger: server.Logger},
	)
	if len(methods) != 0 {
		route.Methods(methods...)
	}
	if name != "" {
		route.Name(name)
	}
}

func (server *Server) routes() {
	server.Router.Use(requestIdMiddleware)

	server.handle("/items", RouteItems, server.listItems, http.MethodGet, http.MethodHead)
	server.handle("/items", "", server.createItem, http.MethodPost)
	server.handle("/items/{id}", RouteItem, server.getItem, http.MethodGet, http.MethodHead)
	server.handle("/items/{id}", "", server.deleteItem, http.MethodDelete)
	server.handle("/files/{name}", RouteFile, server.getFile, http.MethodGet, http.MethodHead)
	server.handle("/greeting", "", server.greeting, http.MethodGet, http.MethodHead)
	server.handle("/events", "", server.events, http.MethodGet)
	server.handle("/go", "", server.goTo, http.MethodGet)
	server.handle("/login", "", server.login, http.MethodGet, http.MethodPost)
	server.handle("/logout", "", server.logout, http.MethodPost)
	server.handle("/private", "", server.private, http.MethodGet)
	server.handle("/admin", "", server.admin, http.MethodGet)
	server.handle("/problem", "", server.problem, http.MethodGet)

	server.Router.Handle(
		"/metrics",
		promhttp.HandlerFor(server.Registry, promhttp.HandlerOpts{Registry: server.Registry}),
	).Methods(http.MethodGet)

	server.Router.NotFoundHandler = &handler.Handler{Function: server.notFound, Executor: server.Executor, Logger: server.Logger}
}

// New builds a server from cfg. A nil logger uses slog.Default.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, motmedelErrors.NewWithTrace(nil_error.New("config"))
	}
	if logger == nil {
		logger = slog.Default()
	}

	server := &Server{
		Config:   cfg,
		Logger:   logger,
		Router:   mux.NewRouter(),
		Registry: prometheus.NewRegistry(),
		items:    newItemStore(),
	}

	auth, err := server.makeAuthService()
	if err != nil {
		return nil, fmt.Errorf("make auth service: %w", err)
	}
	server.Auth = auth

	resultObserver, err := server.makeObserver()
	if err != nil {
		return nil, fmt.Errorf("make observer: %w", err)
	}

	var fileSystem fs.FS
	if directory := cfg.StaticDirectory; directory != "" {
		fileSystem = os.DirFS(directory)
	}

	server.Executor = &executor.Executor{
		JsonCodec:       &json_codec.Json{Indent: cfg.Json.Indent, EscapeHtml: cfg.Json.EscapeHtml},
		UrlResolver:     mux_url_resolver.New(server.Router),
		Authenticator:   auth,
		FileSystem:      fileSystem,
		PathBase:        cfg.PathBase,
		Observer:        resultObserver,
		TraceIdentifier: requestId,
	}

	server.routes()

	return server, nil
}

func (server *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	server.Router.ServeHTTP(w, r)
}

// Serve accepts connections on listener until ctx is done, and then shuts down gracefully within
// the configured timeout.
func (server *Server) Serve(ctx context.Context, listener net.Listener) error {
	if listener == nil {
		return motmedelErrors.NewWithTrace(nil_error.New("listener"))
	}

	httpServer := &http.Server{
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
		ErrorLog:          slog.NewLogLogger(server.Logger.Handler(), slog.LevelWarn),
	}
	server.httpServer = httpServer

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		server.Logger.InfoContext(groupCtx, "Serving.", slog.String("address", listener.Addr().String()))
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return motmedelErrors.NewWithTrace(fmt.Errorf("http server serve: %w", err))
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(groupCtx), server.Config.ShutdownTimeout)
		defer cancel()

		server.Logger.InfoContext(shutdownCtx, "Shutting down.")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return motmedelErrors.NewWithTrace(fmt.Errorf("http server shutdown: %w", err))
		}
		return nil
	})

	err := group.Wait()

	if server.zapLogger != nil {
		if syncErr := server.zapLogger.Sync(); syncErr != nil && !errors.Is(syncErr, os.ErrInvalid) {
			server.Logger.DebugContext(ctx, "The zap logger could not be synced.", slog.String("error", syncErr.Error()))
		}
	}

	return err
}

// ListenAndServe listens on the configured address and serves until ctx is done.
func (server *Server) ListenAndServe(ctx context.Context) error {
	var listenConfig net.ListenConfig
	listener, err := listenConfig.Listen(ctx, "tcp", server.Config.Address)
	if err != nil {
		return motmedelErrors.NewWithTrace(fmt.Errorf("net listen: %w", err), server.Config.Address)
	}

	return server.Serve(ctx, listener)
}
