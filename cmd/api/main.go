package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"

	"github.com/sandtoninsights/api/internal/entity"
	"github.com/sandtoninsights/api/internal/infra/database"
	"github.com/sandtoninsights/api/internal/infra/http/handlers"
	"github.com/sandtoninsights/api/internal/infra/http/middleware"
	"github.com/sandtoninsights/api/internal/infra/mail"
	"github.com/sandtoninsights/api/internal/infra/queue"
	"github.com/sandtoninsights/api/internal/infra/refdata"
	"github.com/sandtoninsights/api/internal/usecase"
)

func main() {
	godotenv.Load()

	// 1. Reference data (immutable after load)
	dataDir := envOr("DATA_DIR", "data")
	store, err := refdata.Load(dataDir)
	if err != nil {
		log.Fatalf("failed to load reference data: %v", err)
	}

	// 2. Lead storage. SQLite is the default embedded store; Postgres is the
	// swap-in backend behind the same interface.
	var (
		db       *sql.DB
		leadRepo entity.LeadRepository
	)
	switch envOr("DB_DRIVER", "sqlite3") {
	case "postgres":
		db, err = database.NewPostgresConnection(os.Getenv("DATABASE_URL"))
		if err != nil {
			log.Fatalf("failed to connect to Postgres: %v", err)
		}
		repo := database.NewPostgresLeadRepository(db)
		if err := repo.InitSchema(context.Background()); err != nil {
			log.Fatalf("failed to init schema: %v", err)
		}
		leadRepo = repo
	default:
		db, err = database.NewSQLiteConnection(envOr("SQLITE_PATH", "data/app.db"))
		if err != nil {
			log.Fatalf("failed to open SQLite: %v", err)
		}
		repo := database.NewSQLiteLeadRepository(db)
		if err := repo.InitSchema(context.Background()); err != nil {
			log.Fatalf("failed to init schema: %v", err)
		}
		leadRepo = repo
	}
	defer db.Close()

	// 3. Optional RabbitMQ + mail for new-lead alerts. Lead persistence never
	// depends on either being up.
	var rabbitMQ *queue.RabbitMQ
	var producer usecase.QueueProducerInterface
	if host := os.Getenv("RABBITMQ_HOST"); host != "" {
		rabbitMQ, err = queue.NewRabbitMQ(
			envOr("RABBITMQ_USER", "guest"),
			envOr("RABBITMQ_PASS", "guest"),
			host,
			envOr("RABBITMQ_PORT", "5672"),
		)
		if err != nil {
			log.Printf("RabbitMQ unavailable, lead alerts disabled: %v", err)
			rabbitMQ = nil
		} else {
			defer rabbitMQ.Conn.Close()
			defer rabbitMQ.Ch.Close()
			producer = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

			mailSender := mail.NewEmailSender(
				os.Getenv("MAIL_HOST"), 587,
				os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
				envOr("MAIL_FROM", "alerts@sandtoninsights.co.za"),
			)
			worker := queue.NewWorker(rabbitMQ.Ch, mailSender, store.AgentByID, os.Getenv("SALES_INBOX"))
			go worker.Start(queue.QueueName)
		}
	}

	// 4. Use cases
	generalist := store.Generalist()
	recommendUC := usecase.NewRecommendAgentsUseCase(
		store.AllAgents(),
		usecase.GeneralistByTrackRecord(generalist.MinRecentSales, generalist.MultiAreaAgencies),
	)
	createLeadUC := usecase.NewCreateLeadUseCase(leadRepo, store.HasSuburb, producer)

	// 5. Handlers
	leadHandler := handlers.NewLeadHandler(createLeadUC, leadRepo, recommendUC, os.Getenv("AUTO_ASSIGN_AGENT") == "true")
	suburbHandler := handlers.NewSuburbHandler(store, recommendUC)
	agentHandler := handlers.NewAgentHandler(store)
	var rabbitConn *amqp091.Connection
	if rabbitMQ != nil {
		rabbitConn = rabbitMQ.Conn
	}
	healthHandler := handlers.NewHealthHandler(db, rabbitConn, store)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{envOr("FRONTEND_ORIGIN", "http://localhost:3000")},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/leads", leadHandler.HandleCapture)
		r.Get("/leads", leadHandler.HandleList)
		r.Get("/leads/{id}", leadHandler.HandleGet)
		r.Patch("/leads/{id}/status", leadHandler.HandleUpdateStatus)

		r.Get("/suburbs", suburbHandler.HandleList)
		r.Get("/suburbs/{slug}", suburbHandler.HandleGet)
		r.Get("/suburbs/{slug}/agents", suburbHandler.HandleAgents)

		r.Get("/agents", agentHandler.HandleList)
		r.Get("/agents/{id}", agentHandler.HandleGet)
	})

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":" + envOr("PORT", "8080")
	log.Printf("Sandton Insights API listening on %s", port)
	if err := http.ListenAndServe(port, r); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
