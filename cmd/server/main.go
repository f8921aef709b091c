package main

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"

	"talent/internal/app/server"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("load .env: %v", err)
	}
	server.Run()
}
