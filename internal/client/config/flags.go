package config

import (
	"flag"
	"os"
	"time"

	"github.com/nguyenvanhuy1998/ecommerce-app/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the auth backend (default from Config)
//	-t int      request timeout in seconds (default from Config)
//	-d string   path to the local storage database
//	-s string   path to the installation secret file
//
// The arguments are filtered through flagx.FilterArgs so flags owned by
// other components do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-d", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the auth backend")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local storage database")
	fs.StringVar(&cfg.SecretPath, "s", cfg.SecretPath, "path to the installation secret file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
