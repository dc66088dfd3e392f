package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/Akshaychdev/RESTapi-app-series/internal/queue"
)

// The worker consumes series activity events from RabbitMQ and appends
// them to logs/series.log. It runs separately from the API server so a
// slow broker never blocks request handling.
func main() {
	_ = godotenv.Load()

	log.Printf("starting series activity consumer (queue=%s)", queue.ActivityQueueName)
	if err := queue.StartActivityConsumer(); err != nil {
		log.Fatal(err)
	}
}
