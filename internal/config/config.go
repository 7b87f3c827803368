package config

import (
	"time"

	"github.com/spf13/viper"
)

// ServerURL returns the memglass web server base URL.
func ServerURL() string {
	return viper.GetString("server.url")
}

// Timeout returns the per-request timeout.
func Timeout() time.Duration {
	return viper.GetDuration("server.timeout")
}

// WatchInterval returns the delay between watch-mode fetches.
func WatchInterval() time.Duration {
	return viper.GetDuration("watch.interval")
}

// WaitTimeout returns how long `wait` polls before giving up.
func WaitTimeout() time.Duration {
	return viper.GetDuration("wait.timeout")
}

// WaitPollInterval returns the delay between `wait` connection attempts.
func WaitPollInterval() time.Duration {
	return viper.GetDuration("wait.poll_interval")
}

// OutputFormat returns the default output format (text, json or yaml).
func OutputFormat() string {
	return viper.GetString("output.format")
}

// ColorMode returns the color policy: auto, always or never.
func ColorMode() string {
	return viper.GetString("output.color")
}
