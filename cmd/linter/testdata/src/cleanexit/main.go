package main

import (
	"errors"
	"log"
	"os"
)

type server struct{}

func (server) main() error { return errors.New("stopped") }

func main() {
	if err := (server{}).main(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
	logger := log.New(os.Stderr, "", 0)
	defer func() { logger.Println("done") }()
}
