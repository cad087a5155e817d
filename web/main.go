package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/df07/go-sphere-raytracer/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes-dir", "scenes", "Directory searched for JSON scene files")
	quiet := flag.Bool("quiet", false, "Do not copy render logs to stderr")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var logOut io.Writer = os.Stderr
	if *quiet {
		logOut = nil
	}
	webServer := server.NewServer(*port, *scenesDir, logOut)

	log.Printf("Sphere Raytracer Web Server")
	log.Printf("Try http://localhost:%d/api/image?scene=default&width=400&spp=20", *port)

	if err := webServer.Start(ctx); err != nil {
		log.Printf("Error starting server: %v", err)
		stop()
		os.Exit(1)
	}
}
