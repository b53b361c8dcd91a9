package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/circuitfolio/folio/cmd"
)

func main() {
	cmd.Execute()
}
