// Package main provides a tool to seed the database with demo data.
//
// It creates a demo user with the default shelves and a handful of books
// spread across them, so the board has something to show on first login.
//
// Usage:
//
//	DB_PATH=~/corkboard go run ./cmd/seed
//	DB_PATH=~/corkboard go run ./cmd/seed --email reader@example.com
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/corkboardapp/corkboard-server/internal/auth"
	"github.com/corkboardapp/corkboard-server/internal/domain"
	"github.com/corkboardapp/corkboard-server/internal/id"
	"github.com/corkboardapp/corkboard-server/internal/store"
	"github.com/corkboardapp/corkboard-server/internal/store/sqlite"
)

var (
	email    = flag.String("email", "demo@corkboard.local", "Email for the demo user")
	password = flag.String("password", "DemoPassword123!", "Password for the demo user")
)

type seedBook struct {
	title  string
	author string
	isbn   string
	shelf  string // default shelf name, empty = unshelved
}

var sampleBooks = []seedBook{
	{title: "The Left Hand of Darkness", author: "Ursula K. Le Guin", isbn: "9780441478125", shelf: "Currently Reading"},
	{title: "Dune", author: "Frank Herbert", isbn: "9780441172719", shelf: "To Be Read"},
	{title: "Hyperion", author: "Dan Simmons", isbn: "9780553283686", shelf: "To Be Read"},
	{title: "A Wizard of Earthsea", author: "Ursula K. Le Guin", isbn: "9780547773742", shelf: "Completed"},
	{title: "Snow Crash", author: "Neal Stephenson", isbn: "9780553380958", shelf: "Did Not Finish"},
	{title: "The Dispossessed", author: "Ursula K. Le Guin", isbn: "9780061054884"},
}

func main() {
	flag.Parse()

	basePath := os.Getenv("DB_PATH")
	if basePath == "" {
		basePath = os.ExpandEnv("$HOME/corkboard")
	}
	dbPath := filepath.Join(basePath, "corkboard.db")

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := sqlite.Open(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	user, err := ensureUser(ctx, s, *email, *password)
	if err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}
	fmt.Printf("Demo user ready: %s (%s)\n", user.Email, user.ID)

	shelves, err := ensureDefaultShelves(ctx, s, user.ID)
	if err != nil {
		log.Fatalf("Failed to seed shelves: %v", err)
	}
	fmt.Printf("Shelves ready: %d\n", len(shelves))

	created, err := seedBooks(ctx, s, user.ID, shelves)
	if err != nil {
		log.Fatalf("Failed to seed books: %v", err)
	}
	fmt.Printf("Books created: %d\n", created)
	fmt.Println("Done. Log in with", *email)
}

func ensureUser(ctx context.Context, s store.Store, email, password string) (*domain.User, error) {
	if user, err := s.GetUserByEmail(ctx, email); err == nil {
		return user, nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	count, err := s.CountUsers(ctx)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Record:       domain.Record{ID: id.MustGenerate("user")},
		Email:        email,
		PasswordHash: hash,
		IsRoot:       count == 0,
		DisplayName:  "Demo Reader",
		FirstName:    "Demo",
		LastName:     "Reader",
	}
	user.InitTimestamps()

	if err := s.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func ensureDefaultShelves(ctx context.Context, s store.Store, userID string) (map[string]*domain.Shelf, error) {
	existing, err := s.ListShelves(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*domain.Shelf, len(domain.DefaultShelfNames))
	for _, shelf := range existing {
		byName[shelf.Name] = shelf
	}

	for _, name := range domain.DefaultShelfNames {
		if _, ok := byName[name]; ok {
			continue
		}
		shelf := &domain.Shelf{
			Record:    domain.Record{ID: id.MustGenerate("shelf")},
			OwnerID:   userID,
			Name:      name,
			IsDefault: true,
		}
		shelf.InitTimestamps()
		if err := s.CreateShelf(ctx, shelf); err != nil {
			return nil, fmt.Errorf("create shelf %q: %w", name, err)
		}
		byName[name] = shelf
	}

	return byName, nil
}

func seedBooks(ctx context.Context, s store.Store, userID string, shelves map[string]*domain.Shelf) (int, error) {
	existing, err := s.ListBooks(ctx, userID, store.BookFilter{})
	if err != nil {
		return 0, err
	}
	haveISBN := make(map[string]bool, len(existing))
	for _, book := range existing {
		haveISBN[book.ISBN] = true
	}

	created := 0
	for _, sample := range sampleBooks {
		if haveISBN[sample.isbn] {
			continue
		}

		book := &domain.Book{
			Record:    domain.Record{ID: id.MustGenerate("book")},
			UserID:    userID,
			Title:     sample.title,
			Author:    sample.author,
			ISBN:      sample.isbn,
			Status:    domain.StatusTBR,
			DateAdded: domain.Today(),
		}

		var shelf *domain.Shelf
		if sample.shelf != "" {
			shelf = shelves[sample.shelf]
		}
		if shelf != nil {
			if status, ok := domain.StatusForShelfName(shelf.Name); ok {
				book.ApplyStatus(status, domain.Today())
			}
		}

		book.InitTimestamps()
		if err := s.CreateBook(ctx, book); err != nil {
			return created, fmt.Errorf("create book %q: %w", sample.title, err)
		}

		if shelf != nil {
			positions, err := s.ListShelfPositions(ctx, userID, shelf.ID)
			if err != nil {
				return created, err
			}
			pos := &domain.BookPosition{
				Record:  domain.Record{ID: id.MustGenerate("pos")},
				UserID:  userID,
				BookID:  book.ID,
				ShelfID: shelf.ID,
				Rank:    len(positions),
			}
			pos.InitTimestamps()
			if err := s.CreatePosition(ctx, pos); err != nil {
				return created, fmt.Errorf("place book %q: %w", sample.title, err)
			}
		}

		created++
	}

	return created, nil
}
