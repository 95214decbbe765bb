package main

import (
	"github.com/sirupsen/logrus"

	clicmd "github.com/marisago/marisa/cli/marisa"
)

func main() {
	if err := clicmd.MainCmd().Execute(); err != nil {
		logrus.Fatal(err)
	}
}
