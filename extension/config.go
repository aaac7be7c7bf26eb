package extension

import "time"

// Config holds the token ledger extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.tokenledger" or "tokenledger" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// EventBatchSize is the number of journal events to buffer before
	// flushing to the store (default: 100).
	EventBatchSize int `json:"event_batch_size" mapstructure:"event_batch_size" yaml:"event_batch_size"`

	// EventFlushInterval is how frequently the event buffer is flushed
	// even if the batch size has not been reached (default: 5s).
	EventFlushInterval time.Duration `json:"event_flush_interval" mapstructure:"event_flush_interval" yaml:"event_flush_interval"`

	// BytePrice is the payment amount charged per byte of storage.
	// Zero means the engine default.
	BytePrice uint64 `json:"byte_price" mapstructure:"byte_price" yaml:"byte_price"`

	// BytesPerAccount is the storage footprint of one registered account
	// entry. Zero means the engine default.
	BytesPerAccount uint64 `json:"bytes_per_account" mapstructure:"bytes_per_account" yaml:"bytes_per_account"`

	// BaseBytes is the footprint of the ledger's fixed state. Zero means
	// the engine default.
	BaseBytes uint64 `json:"base_bytes" mapstructure:"base_bytes" yaml:"base_bytes"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EventBatchSize:     100,
		EventFlushInterval: 5 * time.Second,
	}
}
