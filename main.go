package main

import (
	"log"

	"github.com/photogur/photogur/cmd"
	"github.com/photogur/photogur/config"
)

func main() {
	log.Printf("photogur %s (%s)", config.Version, config.CommitHash)
	cmd.Execute()
}
