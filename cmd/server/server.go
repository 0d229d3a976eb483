package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/khet/model"
	"github.com/zucenko/khet/server"
)

type Server struct {
	router     *way.Router
	GameServer *server.GameServer
}

func main() {
	configureLogging(os.Getenv("LOG_LEVEL"))

	cfg, err := config()
	if err != nil {
		log.Fatalln(err)
	}
	// fail fast on a bad board instead of on the first connection
	if _, err := server.Load(cfg); err != nil {
		log.WithField("board", cfg.BoardPath).Fatalln(err)
	}

	Server := Server{
		GameServer: server.NewGameServer(cfg),
	}
	go Server.GameServer.Loop()
	Server.routes()
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		log.Printf("Defaulting to port %s", port)
	}
	log.WithFields(log.Fields{
		"board": cfg.BoardPath,
		"first": cfg.First.Name(),
	}).Info("khet server listening on :" + port)
	log.Fatalln(http.ListenAndServe(":"+port, Server.router))
}

func configureLogging(level string) {
	if level == "" {
		return
	}
	parsed, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("ignoring LOG_LEVEL: %v", err)
		return
	}
	log.SetLevel(parsed)
}

func config() (server.Config, error) {
	cfg := server.Config{
		BoardPath: os.Getenv("KHET_BOARD"),
		First:     model.SILVER,
	}
	if cfg.BoardPath == "" {
		cfg.BoardPath = server.DEFAULT_BOARD
	}
	if first := os.Getenv("KHET_FIRST"); first != "" {
		c, ok := model.ParseColor(first)
		if !ok || c == model.NO_COLOR {
			return cfg, fmt.Errorf("KHET_FIRST: unknown color %q", first)
		}
		cfg.First = c
	}
	return cfg, nil
}
