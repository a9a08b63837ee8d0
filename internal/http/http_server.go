package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/gradeworks/internal/core/ports/primary"
	judgesvc "gitlab.com/gradeworks/internal/core/services/judge"
	"gitlab.com/gradeworks/internal/handlers"
	judgehdl "gitlab.com/gradeworks/internal/handlers/judge"
	"gitlab.com/gradeworks/internal/handlers/response"
)

type ServiceProvider struct {
	judgeService judgesvc.IJudgeService
	tokenService primary.TokenService
}

func NewServiceProvider(judgeService judgesvc.IJudgeService, tokenService primary.TokenService) *ServiceProvider {
	return &ServiceProvider{
		judgeService: judgeService,
		tokenService: tokenService,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	logger          primary.Logger
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	r := mux.NewRouter()

	mw := handlers.New(s.ServiceProvider.tokenService)
	judgehdl.
		NewJudgeHandler(s.ServiceProvider.judgeService, s.logger).
		RegisterRoutes(r, mw)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.WriteSuccess(w, map[string]string{"service": s.ServiceName, "status": "ok"})
	}).Methods("GET")

	s.router = r
	return nil
}

func (s *Server) Start(ctx context.Context) {
	// Set up server. The write timeout leaves room for a sandbox round
	// trip that runs up against its own backstop.
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start the server in a goroutine
	go func() {
		s.logger.Info("Server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("Shutting down http server...")
	if s.srv == nil {
		return
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
	}
}
