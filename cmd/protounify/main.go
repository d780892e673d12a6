package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/alnovis/protounify/pkg/cli"
)

func main() {
	rootCmd := cli.NewRootCommand()

	flag.Parse()

	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("command failed")
		os.Exit(1)
	}
}
