package main

import (
	"os"

	"github.com/fguintu/FlySQL/pkg/cli"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	os.Exit(cli.New(Version).Execute())
}
