package kafka_config

import "time"

const (
	// Producer defaults
	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerRequireAcks  = -1 // Require all replicas
	DefaultProducerCompression  = "snappy"
	// Flow outcomes are published off the request path, so the writer can block.
	DefaultProducerAsync = false

	DefaultEnableMiddleware = true
)
