// Command-line tool to create an admin account.
//
// With -email the password is read from stdin and confirmed. Without it a
// random email and password are generated and printed once.
package main

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-portal-backend/internal/config"
	"campus-portal-backend/internal/database"
	"campus-portal-backend/internal/model"
)

// generateRandomString creates a random hex string of length 2n
func generateRandomString(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal(err)
	}
	return hex.EncodeToString(bytes)
}

// generateUniqueEmail tries until an unused email is found
func generateUniqueEmail(db *gorm.DB, domain string) string {
	for {
		email := "admin_" + generateRandomString(4) + "@" + domain
		var count int64
		db.Model(&model.User{}).Where("email = ?", email).Count(&count)
		if count == 0 {
			return email
		}
	}
}

func promptPassword(reader *bufio.Reader) (string, error) {
	fmt.Print("Enter password: ")
	password1, _ := reader.ReadString('\n')
	password1 = strings.TrimSpace(password1)

	fmt.Print("Confirm password: ")
	password2, _ := reader.ReadString('\n')
	password2 = strings.TrimSpace(password2)

	if password1 != password2 {
		return "", errors.New("passwords do not match")
	}
	if len(password1) < 6 {
		return "", errors.New("password must be at least 6 characters")
	}
	return password1, nil
}

func main() {
	email := flag.String("email", "", "admin email, prompts for a password when set")
	name := flag.String("name", "Administrator", "admin display name")
	domain := flag.String("domain", "campus.local", "domain for generated emails")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.NewDBInstance(cfg.Database, config.AdminConfig{}, logger)
	if err != nil {
		logger.Fatal("database failed to initialize", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	var password string
	if *email != "" {
		password, err = promptPassword(bufio.NewReader(os.Stdin))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	} else {
		*email = generateUniqueEmail(db.DB, *domain)
		password = generateRandomString(8)
	}

	admin, err := database.CreateAdmin(db.DB, *name, *email, password)
	if err != nil {
		logger.Fatal("failed to create admin", zap.Error(err))
	}

	fmt.Println("Admin account created successfully!")
	fmt.Println("======================================")
	fmt.Printf("Email:    %s\n", admin.Email)
	fmt.Printf("Password: %s\n", password)
	fmt.Println("======================================")
}
