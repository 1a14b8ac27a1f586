// talemud-admin administers a server's user database directly, for
// recovery when no owner can log in. Run it against the server's data
// directory while the server is stopped.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rodaine/table"
	"github.com/zond/talemud/storage"
)

func main() {
	dir := flag.String("dir", filepath.Join(os.Getenv("HOME"), ".talemud"), "The server's data directory")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command> [args...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  users            List all users\n")
		fmt.Fprintf(os.Stderr, "  addwiz <name>    Grant wizard privileges\n")
		fmt.Fprintf(os.Stderr, "  delwiz <name>    Revoke wizard privileges\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	ctx := context.Background()
	s, err := storage.New(ctx, *dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	switch command := args[0]; command {
	case "users":
		if err := listUsers(ctx, s); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "addwiz", "delwiz":
		if len(args) != 2 {
			flag.Usage()
			os.Exit(1)
		}
		if _, err := s.SetUserWizard(ctx, args[1], command == "addwiz"); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func listUsers(ctx context.Context, s *storage.Storage) error {
	users, err := s.Users(ctx)
	if err != nil {
		return err
	}
	t := table.New("ID", "Name", "Wizard", "Owner", "Last login")
	for _, user := range users {
		t.AddRow(user.Id, user.Name, user.Wizard, user.Owner, user.LastLogin)
	}
	t.Print()
	return nil
}
