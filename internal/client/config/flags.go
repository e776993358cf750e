package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/kaizenlib/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   Postgres DSN of the library database (default from Config)
//	-b string   attachment bucket name
//	-p int      records per page
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-b", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "Postgres DSN of the library database")
	fs.StringVar(&cfg.S3.Bucket, "b", cfg.S3.Bucket, "attachment bucket name")
	fs.IntVar(&cfg.PageSize, "p", cfg.PageSize, "records per page")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
