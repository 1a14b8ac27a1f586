package main

import (
	"context"
	"flag"
	"log"

	"github.com/zond/talemud/server"
)

func main() {
	config := server.DefaultConfig()

	flag.StringVar(&config.SSHAddr, "ssh", config.SSHAddr, "Where to listen to SSH connections.")
	flag.StringVar(&config.Dir, "dir", config.Dir, "Where to save database and settings.")

	flag.Parse()

	ctx := context.Background()
	srv, err := server.New(ctx, config)
	if err != nil {
		log.Fatal(err)
	}

	log.Fatal(srv.Start(ctx))
}
