package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"storefront-service/handlers"
	"storefront-service/internal/auth"
	"storefront-service/internal/cart"
	"storefront-service/internal/catalog"
	"storefront-service/internal/checkout"
	"storefront-service/internal/consul"
	"storefront-service/internal/sanity"
	"storefront-service/internal/stores/kafka"
	"storefront-service/internal/stores/postgres"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, relying on environment")
	}

	keys, err := auth.NewKeys(os.Getenv("JWT_SECRET"))
	if err != nil {
		log.Fatalf("failed to set up session keys: %v", err)
	}

	sanityClient, err := sanity.NewClient(sanity.Config{
		ProjectID:  os.Getenv("SANITY_PROJECT_ID"),
		Dataset:    os.Getenv("SANITY_DATASET"),
		Token:      os.Getenv("SANITY_API_TOKEN"),
		APIVersion: os.Getenv("SANITY_API_VERSION"),
		UseCDN:     os.Getenv("SANITY_USE_CDN") == "true",
	})
	if err != nil {
		log.Fatalf("failed to set up sanity client: %v", err)
	}

	catalogConf, err := catalog.NewConf(sanityClient)
	if err != nil {
		log.Fatalf("failed to set up catalog: %v", err)
	}

	store, err := newCartStore()
	if err != nil {
		log.Fatalf("failed to set up cart store: %v", err)
	}
	cartConf, err := cart.NewConf(store)
	if err != nil {
		log.Fatalf("failed to set up cart: %v", err)
	}

	var producer *kafka.Conf
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		producer, err = kafka.NewConf(strings.Split(brokers, ","))
		if err != nil {
			log.Fatalf("failed to set up kafka producer: %v", err)
		}
		defer producer.Close()
	}

	checkoutConf, err := checkout.NewConf(cartConf, sanityClient, producer)
	if err != nil {
		log.Fatalf("failed to set up checkout: %v", err)
	}

	prefix := os.Getenv("SERVICE_ENDPOINT_PREFIX")
	if prefix == "" {
		panic("SERVICE_ENDPOINT_PREFIX is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	var allowedOrigins []string
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		allowedOrigins = strings.Split(origins, ",")
	}

	if os.Getenv("CONSUL_REGISTER") == "true" {
		registerWithConsul(port)
	}

	r := handlers.API(prefix, keys, catalogConf, cartConf, checkoutConf, allowedOrigins)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

// newCartStore selects the snapshot store backend from the environment:
// redis, postgres, or in-process memory (the default for development).
func newCartStore() (cart.Store, error) {
	switch os.Getenv("CART_STORE") {
	case "redis":
		return cart.NewRedisStore(os.Getenv("REDIS_URL"))
	case "postgres":
		db, err := postgres.OpenDB(os.Getenv("DATABASE_URL"))
		if err != nil {
			return nil, err
		}
		if err := postgres.RunMigrations(db); err != nil {
			return nil, err
		}
		return cart.NewPostgresStore(db)
	default:
		slog.Warn("using in-memory cart store, carts will not survive restarts")
		return cart.NewMemoryStore(), nil
	}
}

func registerWithConsul(port string) {
	client, err := consul.NewClient()
	if err != nil {
		log.Fatalf("failed to create consul client: %v", err)
	}
	address := os.Getenv("SERVICE_ADDRESS")
	if address == "" {
		address = "localhost"
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		log.Fatalf("invalid APP_PORT %q: %v", port, err)
	}
	if err := consul.RegisterService(client, "storefront", address, portNum); err != nil {
		log.Fatalf("failed to register with consul: %v", err)
	}
	slog.Info("registered with consul", slog.String("Service", "storefront"))
}
