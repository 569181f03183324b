package scheduler

// Config holds the background sync settings.
type Config struct {
	// IntervalHours is the time between sync cycles.
	IntervalHours int `mapstructure:"interval_hours" default:"24"`
	// Enabled turns the background loop on or off.
	Enabled bool `mapstructure:"enabled" default:"true"`
}
