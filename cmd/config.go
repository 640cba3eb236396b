package cmd

import "time"

type Config struct {
	HTTPPort               string
	DBHost                 string
	DBPort                 string
	DBUser                 string
	DBPassword             string
	DBName                 string
	DBSslMode              string
	KafkaHost              string
	KafkaOrderChangedTopic string

	// OfferWindow is how long a rider has to answer a dispatch offer.
	OfferWindow time.Duration
	// SampleMaxAge is how old a rider's location sample may get before the
	// sweep evicts it from dispatch ranking.
	SampleMaxAge time.Duration
}

// ApplyDefaults fills tunables that were not configured. The defaults are
// operational choices, not contract.
func (c *Config) ApplyDefaults() {
	if c.OfferWindow <= 0 {
		c.OfferWindow = 30 * time.Second
	}
	if c.SampleMaxAge <= 0 {
		c.SampleMaxAge = 5 * time.Minute
	}
}
