// # cmd/hljsgen/main.go
package main

import (
	"os"

	"hljsgen/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
