package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/reoring/smartparams/cmd/smartparams/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		if err != cmd.ErrValidationFailed {
			logrus.Errorf("smartparams: %v", err)
		}
		os.Exit(1)
	}
}
