package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/talkready/opic-backend/internal/config"
	"github.com/talkready/opic-backend/internal/database"
	"github.com/talkready/opic-backend/internal/logger"
	"github.com/talkready/opic-backend/internal/model"
	"github.com/talkready/opic-backend/internal/repository"
	"github.com/talkready/opic-backend/internal/service"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	respondentRepo := repository.NewRespondentRepository(pool)
	authService := service.NewAuthService(cfg)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Respondent ===")

	// Name
	fmt.Print("Enter Full Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: Full name is required")
		return
	}

	// Email
	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	hash, err := authService.HashPassword(password)
	if err != nil {
		fmt.Printf("Error: Failed to hash password: %v\n", err)
		return
	}

	respondent := &model.Respondent{
		Email:        email,
		FullName:     name,
		PasswordHash: hash,
	}
	if err := respondentRepo.Create(ctx, respondent); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			fmt.Println("Error: A respondent with this email already exists")
			return
		}
		fmt.Printf("Error: Failed to create respondent: %v\n", err)
		return
	}

	// Issue a token so the account can be used immediately against the API.
	token, err := authService.GenerateRespondentToken(respondent.ID)
	if err != nil {
		fmt.Printf("Respondent #%d created, but token issuance failed: %v\n", respondent.ID, err)
		return
	}

	fmt.Printf("\nRespondent created (ID %d)\n", respondent.ID)
	fmt.Printf("Access token:\n%s\n", token)
}
