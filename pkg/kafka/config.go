package kafka

import "time"

// Config holds broker connection settings shared by producers and consumers.
type Config struct {
	Brokers       []string
	ConsumerGroup string

	// BatchTimeout caps how long the producer buffers a batch before
	// flushing. Zero falls back to 10ms.
	BatchTimeout time.Duration

	// MaxFetchBytes is the largest message batch a consumer will fetch.
	// Zero falls back to 10 MB.
	MaxFetchBytes int

	// TLS enables TLS on broker connections.
	TLS bool

	// SASL authentication. Mechanism is "PLAIN", "SCRAM-SHA-256" or
	// "SCRAM-SHA-512"; an empty mechanism with SASLEnabled set means PLAIN.
	SASLEnabled   bool
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string
}

func (c Config) batchTimeout() time.Duration {
	if c.BatchTimeout > 0 {
		return c.BatchTimeout
	}
	return 10 * time.Millisecond
}

func (c Config) maxFetchBytes() int {
	if c.MaxFetchBytes > 0 {
		return c.MaxFetchBytes
	}
	return 10 * 1024 * 1024
}
