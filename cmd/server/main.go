package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"campusparking/internal/api"
	"campusparking/internal/db"
	"campusparking/internal/repository"
	"campusparking/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
)

const defaultSweepSchedule = "*/5 * * * *"

func main() {
	godotenv.Load()

	store, err := newSnapshotStore()
	if err != nil {
		log.Fatalf("Failed to initialize snapshot store: %v", err)
	}

	repo := repository.NewBookingRepository(store)
	repo.Load()

	svc := service.NewBookingService(repo, db.DefaultCatalog())
	jobSvc := service.NewJobService(repo)

	bookingHandler := api.NewBookingHandler(svc)
	slotHandler := api.NewSlotHandler(svc)

	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	r.HandleFunc("/api/slots", slotHandler.ListSlots).Methods("GET")
	r.HandleFunc("/api/slots/available", slotHandler.ListAvailableSlots).Methods("GET")
	r.HandleFunc("/api/slots/occupied", slotHandler.ListOccupiedSlots).Methods("GET")
	r.HandleFunc("/api/slots/{id}", slotHandler.GetSlot).Methods("GET")
	r.HandleFunc("/api/slots/{id}/bookings", slotHandler.GetSlotBookings).Methods("GET")
	r.HandleFunc("/api/slots/{id}/booking", slotHandler.GetSlotBooking).Methods("GET")
	r.HandleFunc("/api/availability", slotHandler.GetAvailabilityStats).Methods("GET")

	r.HandleFunc("/api/bookings", bookingHandler.CreateBooking).Methods("POST")
	r.HandleFunc("/api/bookings", bookingHandler.ListBookings).Methods("GET")
	r.HandleFunc("/api/bookings/{id}", bookingHandler.GetBooking).Methods("GET")
	r.HandleFunc("/api/bookings/{id}", bookingHandler.CancelBooking).Methods("DELETE")
	r.HandleFunc("/api/bookings/{id}/extend", bookingHandler.ExtendBooking).Methods("POST")

	c := cron.New()
	schedule := os.Getenv("SWEEP_SCHEDULE")
	if schedule == "" {
		schedule = defaultSweepSchedule
	}
	if _, err := c.AddFunc(schedule, func() {
		if err := jobSvc.CompleteExpiredBookings(); err != nil {
			log.Printf("Completion sweep failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("Invalid SWEEP_SCHEDULE %q: %v", schedule, err)
	}
	c.Start()

	handler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(handlers.LoggingHandler(os.Stdout, r))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}

// newSnapshotStore picks Postgres when DATABASE_URL is set and falls back to
// a local file store otherwise.
func newSnapshotStore() (repository.SnapshotStore, error) {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		conn, err := sql.Open("postgres", dbURL)
		if err != nil {
			return nil, err
		}
		if err := conn.Ping(); err != nil {
			return nil, err
		}
		log.Println("Using Postgres snapshot store")
		return repository.NewPostgresSnapshotStore(conn)
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	log.Printf("Using file snapshot store in %s", dataDir)
	return repository.NewFileSnapshotStore(dataDir)
}
