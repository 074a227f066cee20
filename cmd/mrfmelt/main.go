// mrfmelt classifies hospital price-transparency tables and reshapes them
// into canonical long format, written to CSV/Parquet or COPYed to Postgres.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/gyeh/pricemelt/internal/exitcode"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}
