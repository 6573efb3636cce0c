package credentials

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	logger "github.com/sirupsen/logrus"

	"signalrouter/src/connectors"
	"signalrouter/src/database"
	"signalrouter/src/repository"
	"signalrouter/src/security"
)

func printUsage() {
	fmt.Println("Available commands:")
	fmt.Println("  help                             Show this help message")
	fmt.Println("  shutdown                         Exit the application")
	fmt.Println("  set_login <email> <password>     Store the legacy broker login (encrypted)")
	fmt.Println("  status                           Show whether a legacy login is stored")
	fmt.Println("  hash_passphrase <passphrase>     Print the bcrypt hash for ADMIN_PASSPHRASE_HASH")
	fmt.Println()
}

// CLI is the operator console for managing secrets: the legacy broker
// login and the admin passphrase hash.
type CLI struct{}

func (c *CLI) Start() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	if err := database.InitMainDB(); err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	store := connectors.NewCredentialStore(repository.NewLegacyCredentialRepository())
	if err := store.Load(ctx); err != nil {
		logger.WithError(err).Warn("stored legacy credentials unreadable")
	}

	reader := bufio.NewScanner(os.Stdin)
	reader.Buffer(make([]byte, 0, 1024), 1024*1024)

	for {
		fmt.Print("cmd> ")

		if !reader.Scan() {
			return nil
		}

		line := strings.TrimSpace(reader.Text())
		if line == "" {
			continue
		}

		parts := strings.Split(line, " ")
		cmd := parts[0]

		switch cmd {

		case "shutdown":
			fmt.Println("Exiting CLI...")
			return nil

		case "help":
			printUsage()

		case "set_login":
			if len(parts) < 3 {
				printUsage()
				continue
			}
			email, password := parts[1], parts[2]

			if err := store.Set(ctx, email, password); err != nil {
				logger.WithError(err).Error("Failed to store legacy login")
				continue
			}
			fmt.Println("Legacy login stored.")

		case "status":
			if store.Present() {
				fmt.Println("Legacy login: configured")
			} else {
				fmt.Println("Legacy login: not set")
			}

		case "hash_passphrase":
			if len(parts) < 2 {
				printUsage()
				continue
			}

			hash, err := security.HashPassphrase(parts[1])
			if err != nil {
				logger.WithError(err).Error("Failed to hash passphrase")
				continue
			}
			fmt.Println("ADMIN_PASSPHRASE_HASH=" + hash)

		default:
			fmt.Println("Unknown command:", cmd)
			printUsage()
		}
	}
}
