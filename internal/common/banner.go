package common

import (
	"fmt"
	"os"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner followed by the active settings
// that most often explain surprising output.
func PrintBanner(config *Config) {
	banner.PrintSimple("Screener", Version)
	fmt.Fprintf(os.Stderr, "  env=%s benchmark=%s workers=%d db=%s\n\n",
		config.Environment, config.Screener.Benchmark, config.Screener.Concurrency, config.Storage.Badger.Path)
}
