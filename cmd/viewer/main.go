// Command viewer opens the chat database read-only and prints every room's
// recent history as a table. Safe to run while the server holds the lock.
package main

import (
	"chatd/logs"
	"chatd/repositories"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" required:"true"`
	Limit          int    `envconfig:"VIEWER_LIMIT" default:"20"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"WARN"`
}

func main() {
	_ = godotenv.Load()
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// BypassLockGuard allows opening while the server holds the lock.
	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	chatLog := repositories.NewChatLog(db, logs.GetLoggerFromString(config.LogLevel), &config.Limit)

	rooms, err := chatLog.ListRooms()
	if err != nil {
		log.Fatalf("Failed to list rooms: %v", err)
	}
	if len(rooms) == 0 {
		color.Yellow.Println("No rooms recorded yet.")
		return
	}

	color.Bold.Printf("%d room(s)\n\n", len(rooms))
	for _, room := range rooms {
		lines, err := chatLog.RecentMessages(room)
		if err != nil {
			color.Red.Printf("Room %s: %v\n", room, err)
			continue
		}

		color.Green.Printf("Room %s (%d recent lines)\n", room, len(lines))
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"#", "Line"})
		for i, line := range lines {
			table.Append([]string{strconv.Itoa(i + 1), line})
		}
		table.Render()
		fmt.Println()
	}
}
