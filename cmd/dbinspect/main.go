package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/corkboardapp/corkboard-server/internal/domain"
	"github.com/corkboardapp/corkboard-server/internal/store"
	"github.com/corkboardapp/corkboard-server/internal/store/sqlite"
)

func main() {
	basePath := os.Getenv("DB_PATH")
	if basePath == "" {
		basePath = os.ExpandEnv("$HOME/corkboard")
	}
	dbPath := filepath.Join(basePath, "corkboard.db")

	s, err := sqlite.Open(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	count, err := s.CountUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to count users: %v", err)
	}
	fmt.Printf("Total users: %d\n", count)
	fmt.Println()

	users, err := s.ListUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to list users: %v", err)
	}

	for _, user := range users {
		fmt.Printf("User: %s <%s>\n", user.DisplayName, user.Email)
		fmt.Printf("  ID: %s\n", user.ID)
		if user.IsRoot {
			fmt.Println("  Root: yes")
		}

		board, err := s.GetBoard(ctx, user.ID, true)
		if err != nil {
			log.Printf("Error loading board for %s: %v", user.Email, err)
			continue
		}

		books, err := s.ListBooks(ctx, user.ID, store.BookFilter{})
		if err != nil {
			log.Printf("Error listing books for %s: %v", user.Email, err)
			continue
		}

		shelved := 0
		for _, shelf := range board.Shelves {
			archived := ""
			if shelf.IsArchived {
				archived = " (archived)"
			}
			fmt.Printf("  Shelf: %s%s, %d book(s), rank %d\n",
				shelf.Name, archived, len(shelf.Positions), shelf.Rank)
			shelved += len(shelf.Positions)
		}

		byStatus := make(map[domain.BookStatus]int)
		for _, book := range books {
			byStatus[book.Status]++
		}
		fmt.Printf("  Books: %d total, %d shelved, %d unshelved\n",
			len(books), shelved, len(books)-shelved)
		for status, n := range byStatus {
			fmt.Printf("    %s: %d\n", status, n)
		}
		fmt.Println()
	}
}
