package main

import (
	"context"
	"encoding/csv"
	"log"
	"os"
	"strings"

	"madrasa/apperror"
	"madrasa/config"
	"madrasa/database"
	"madrasa/models"
	"madrasa/services/identity"
	"madrasa/validators"
	adminValidators "madrasa/validators/admin"
)

// Imports accounts from a CSV with the header name,email,password,role,gender.
// Usage: go run ./scripts [users.csv]
func main() {
	cfg := config.LoadConfig()
	database.ConnectDb()

	path := "users.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}
	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	headerIndex := make(map[string]int)
	for i, h := range records[0] {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "email", "password", "role"} {
		if _, ok := headerIndex[required]; !ok {
			log.Fatalf("CSV is missing the %q column", required)
		}
	}
	log.Printf("Total rows to import: %d", len(records)-1)

	store := identity.NewStore(database.Database.Db, cfg.SaltRound)
	ctx := context.Background()
	inserted, skipped, failed := 0, 0, 0

	for i, row := range records[1:] {
		line := i + 2
		req := adminValidators.CreateUserRequest{
			Name:     getField(row, headerIndex, "name"),
			Email:    getField(row, headerIndex, "email"),
			Password: getField(row, headerIndex, "password"),
			Role:     strings.ToLower(getField(row, headerIndex, "role")),
			Gender:   strings.ToLower(getField(row, headerIndex, "gender")),
		}
		if err := validators.Struct(req); err != nil {
			log.Printf("[IMPORT] line %d: %v", line, apperror.FieldsOf(err))
			failed++
			continue
		}

		_, err := store.CreateUser(ctx, identity.NewUser{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Role:     models.Role(req.Role),
			Gender:   models.Gender(req.Gender),
		})
		switch {
		case apperror.CodeOf(err) == apperror.CodeEmailTaken:
			skipped++
		case err != nil:
			log.Printf("[IMPORT] line %d: %+v", line, err)
			failed++
		default:
			inserted++
		}
	}

	log.Printf("Import complete: %d inserted, %d skipped (existing e-mail), %d failed", inserted, skipped, failed)
}

func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}
