package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr         string
	PostgresURL  string
	RedisURL     string
	KafkaBrokers []string
	AuditTopic   string
}

// BenefitCacheTTL bounds staleness of cached benefit catalog entries.
var BenefitCacheTTL = 5 * time.Minute

// FromEnv builds a Server config from environment variables so main stays lean.
// Postgres, Redis, and Kafka are all optional: absent values select the
// in-memory store, no cache, and a no-op audit trail respectively.
func FromEnv() Server {
	addr := os.Getenv("STAFFDESK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	topic := os.Getenv("STAFFDESK_AUDIT_TOPIC")
	if topic == "" {
		topic = "staffdesk.audit"
	}

	var brokers []string
	if raw := os.Getenv("STAFFDESK_KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return Server{
		Addr:         addr,
		PostgresURL:  os.Getenv("STAFFDESK_POSTGRES_URL"),
		RedisURL:     os.Getenv("STAFFDESK_REDIS_URL"),
		KafkaBrokers: brokers,
		AuditTopic:   topic,
	}
}
