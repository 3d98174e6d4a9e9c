package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/SocietyHub/SH-Backend/internal/billing"
	"github.com/SocietyHub/SH-Backend/internal/config"
	"github.com/SocietyHub/SH-Backend/internal/db"
	"github.com/SocietyHub/SH-Backend/internal/maintenance"
	"github.com/SocietyHub/SH-Backend/internal/middleware"
	"github.com/SocietyHub/SH-Backend/internal/payments"
	"github.com/SocietyHub/SH-Backend/internal/rollover"
	"github.com/SocietyHub/SH-Backend/internal/units"
	"github.com/SocietyHub/SH-Backend/internal/water"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	db.Connect()

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	units.Init()
	billing.Init()
	water.Init()
	maintenance.Init()

	gateway, err := payments.NewClientFromEnv()
	if err != nil {
		// The portal stays usable without online payments; admins can
		// still record them manually.
		log.Printf("Payment gateway disabled: %v", err)
	}

	billingHandler := billing.Handler{
		WaterMin: cfg.WaterBillMin,
		WaterMax: cfg.WaterBillMax,
	}
	runner := &rollover.Runner{
		WaterMin: cfg.WaterBillMin,
		WaterMax: cfg.WaterBillMax,
	}

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)

	r.Route("/api", func(api chi.Router) {
		units.RegisterRoutes(api)
		billing.RegisterRoutes(api, billingHandler)
		runner.RegisterRoutes(api)

		api.Mount("/water", water.SetupRoutes())
		api.Mount("/maintenance", maintenance.SetupRoutes())
		api.Mount("/payment", payments.SetupRoutes(payments.Handler{
			Gateway:  gateway,
			Currency: cfg.Currency,
		}))
	})

	runner.Start(cfg.RolloverCheckInterval)

	log.Printf("%s listening on port :%s...", cfg.SocietyName, port)
	if err := http.ListenAndServe("0.0.0.0:"+port, r); err != nil {
		log.Fatal(err)
	}
}
