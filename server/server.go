// Package server wires storage, game, and the SSH listener together.
package server

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/gliderlabs/ssh"
	"github.com/zond/talemud"
	"github.com/zond/talemud/game"
	"github.com/zond/talemud/pemfile"
	"github.com/zond/talemud/storage"

	gossh "golang.org/x/crypto/ssh"
)

type Config struct {
	SSHAddr string
	Dir     string
}

func DefaultConfig() Config {
	return Config{
		SSHAddr: "127.0.0.1:15000",
		Dir:     filepath.Join(os.Getenv("HOME"), ".talemud"),
	}
}

type Server struct {
	config  Config
	storage *storage.Storage
	game    *game.Game
	hostPEM []byte
}

// New opens storage under config.Dir, generating a host key pair on
// first start.
func New(ctx context.Context, config Config) (*Server, error) {
	if err := os.MkdirAll(config.Dir, 0700); err != nil {
		return nil, talemud.WithStack(err)
	}

	keyPath := filepath.Join(config.Dir, "private.pem")
	if _, err := os.Stat(keyPath); os.IsNotExist(err) {
		params := pemfile.KeyParams{
			KeyPath:       keyPath,
			SSHPubKeyPath: filepath.Join(config.Dir, "public.pem"),
		}
		if err := params.Generate(); err != nil {
			return nil, talemud.WithStack(err)
		}
		log.Printf("Generated server key pair in %q", config.Dir)
	} else if err != nil {
		return nil, talemud.WithStack(err)
	}
	hostPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, talemud.WithStack(err)
	}

	s, err := storage.New(ctx, config.Dir)
	if err != nil {
		return nil, talemud.WithStack(err)
	}
	g, err := game.New(ctx, s)
	if err != nil {
		return nil, talemud.WithStack(err)
	}
	return &Server{
		config:  config,
		storage: s,
		game:    g,
		hostPEM: hostPEM,
	}, nil
}

func (s *Server) Start(ctx context.Context) error {
	signer, err := gossh.ParsePrivateKey(s.hostPEM)
	if err != nil {
		return talemud.WithStack(err)
	}
	log.Printf("Listening on %q with public key %q", s.config.SSHAddr, gossh.FingerprintSHA256(signer.PublicKey()))
	return talemud.WithStack(ssh.ListenAndServe(s.config.SSHAddr, s.game.HandleSession, ssh.HostKeyPEM(s.hostPEM)))
}
