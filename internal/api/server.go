package api

import (
	"context"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/career-wizard/internal/api/handlers"
	"github.com/maxaizer/career-wizard/internal/api/middleware"
	"github.com/maxaizer/career-wizard/internal/metrics"
	log "github.com/sirupsen/logrus"
	"net/http"
	"time"
)

type Server struct {
	http *http.Server
}

func NewRouter(careers *handlers.CareerHandler, questions *handlers.QuestionHandler, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLog(), middleware.CORS(allowedOrigins))

	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	apiGroup := router.Group("/api")
	apiGroup.GET("/careers", careers.ListCareers)
	apiGroup.GET("/careers/:id", careers.GetCareer)
	apiGroup.POST("/add-career", careers.AddCareer)
	apiGroup.POST("/update-career", careers.UpdateCareer)
	apiGroup.PATCH("/update-career", careers.UpdateProgress)
	apiGroup.POST("/interview-questions/generate", questions.Generate)

	return router
}

func NewServer(router http.Handler, port int) *Server {
	return &Server{http: &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

func (s *Server) Run() {
	log.Infof("http server listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("http server failed: %v", err)
	}
}

func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
