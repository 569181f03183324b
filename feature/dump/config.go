package dump

// Config holds the database dump settings.
type Config struct {
	// Upload pushes each dump to object storage when enabled.
	Upload bool `mapstructure:"upload" default:"false"`
	// BatchSize is how many rows are copied per read.
	BatchSize int `mapstructure:"batch_size" default:"1000"`
}
