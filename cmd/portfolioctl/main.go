// Command portfolioctl loads portfolio workbooks and prints portfolio
// evolution from the command line, against the same database as the API.
package main

import (
	"fmt"
	"os"

	"github.com/heleneolivares/portfolio-evolution/internal/logger"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := newRootCmd(openApp).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
