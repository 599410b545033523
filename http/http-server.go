package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"

	"github.com/devtutor/backend/gensrvc"
	"github.com/devtutor/backend/gradesrvc"
)

type HttpServer struct {
	gradeSrvc *gradesrvc.GradeSrvc
	genGw     gensrvc.Gateway
	router    *chi.Mux
}

func NewHttpServer(
	gradeSrvc *gradesrvc.GradeSrvc,
	genGw gensrvc.Gateway,
) *HttpServer {
	router := chi.NewRouter()

	logger := httplog.NewLogger("devtutor", httplog.Options{
		LogLevel:         slog.LevelDebug,
		Concise:          true,
		RequestHeaders:   true,
		MessageFieldName: "message",
	})

	router.Use(httplog.RequestLogger(logger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           3000,
	}))

	server := &HttpServer{
		gradeSrvc: gradeSrvc,
		genGw:     genGw,
		router:    router,
	}

	server.routes()

	return server
}

func (httpserver *HttpServer) Start(address string) error {
	return http.ListenAndServe(address, httpserver.router)
}

func (httpserver *HttpServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	httpserver.router.ServeHTTP(w, r)
}

func (httpserver *HttpServer) routes() {
	r := httpserver.router
	r.Post("/labs", httpserver.createLab)
	r.Get("/labs/{labId}", httpserver.getLab)
	r.Post("/labs/{labId}/submissions", httpserver.createSubmission)
	r.Get("/labs/{labId}/grade", httpserver.getGrade)
	r.Get("/courses/{courseId}/progress", httpserver.getCourseProgress)
	r.Get("/programming-languages", httpserver.listProgrammingLangs)
}
