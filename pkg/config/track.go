package config

import "time"

// TrackConfig configures resource tracking and the bounded cache.
type TrackConfig struct {
	SweepInterval     time.Duration
	WarnThreshold     int64
	CriticalThreshold int64
	CacheSize         int
	CacheTTL          time.Duration
}

func loadTrackConfig() TrackConfig {
	return TrackConfig{
		SweepInterval:     getEnvDuration("TRACKX_SWEEP_INTERVAL", 30*time.Second),
		WarnThreshold:     getEnvInt64("TRACKX_WARN_THRESHOLD", 50*1024*1024),
		CriticalThreshold: getEnvInt64("TRACKX_CRITICAL_THRESHOLD", 100*1024*1024),
		CacheSize:         getEnvInt("TRACKX_CACHE_SIZE", 100),
		CacheTTL:          getEnvDuration("TRACKX_CACHE_TTL", 5*time.Minute),
	}
}
