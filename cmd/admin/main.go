// Package main provides staff management utilities for Inkwell.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin promote <user_id> <role>   - Set a user's role (author, editor, admin, super_admin)")
	fmt.Println("  go run ./cmd/admin demote <user_id>           - Reset a user to subscriber")
	fmt.Println("  go run ./cmd/admin suspend <user_id>          - Mark a user inactive")
	fmt.Println("  go run ./cmd/admin restore <user_id>          - Mark a user active again")
	fmt.Println("  go run ./cmd/admin list-staff                 - List users above subscriber")
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	switch os.Args[1] {
	case "promote":
		if len(os.Args) < 4 {
			usage()
		}
		setRole(db, os.Args[2], models.UserRole(os.Args[3]))

	case "demote":
		if len(os.Args) < 3 {
			usage()
		}
		setRole(db, os.Args[2], models.RoleSubscriber)

	case "suspend":
		if len(os.Args) < 3 {
			usage()
		}
		setStatus(db, os.Args[2], models.UserStatusInactive)

	case "restore":
		if len(os.Args) < 3 {
			usage()
		}
		setStatus(db, os.Args[2], models.UserStatusActive)

	case "list-staff":
		listStaff(db)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

func lookupUser(db *gorm.DB, rawID string) *models.User {
	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		log.Fatalf("Invalid user ID %q", rawID)
	}

	var user models.User
	if err := db.First(&user, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("User %d not found", id)
		}
		log.Fatalf("Failed to load user %d: %v", id, err)
	}
	return &user
}

func setRole(db *gorm.DB, rawID string, role models.UserRole) {
	if !role.Valid() {
		log.Fatalf("Invalid role %q", role)
	}

	user := lookupUser(db, rawID)
	if err := db.Model(user).Update("role", string(role)).Error; err != nil {
		log.Fatalf("Failed to update role: %v", err)
	}
	fmt.Printf("User %d (%s) is now %s\n", user.ID, user.Username, role)
}

func setStatus(db *gorm.DB, rawID string, status models.UserStatus) {
	user := lookupUser(db, rawID)
	if err := db.Model(user).Update("status", string(status)).Error; err != nil {
		log.Fatalf("Failed to update status: %v", err)
	}
	fmt.Printf("User %d (%s) is now %s\n", user.ID, user.Username, status)
}

func listStaff(db *gorm.DB) {
	var users []models.User
	err := db.Where("role <> ?", string(models.RoleSubscriber)).
		Order("id").Find(&users).Error
	if err != nil {
		log.Fatalf("Failed to list staff: %v", err)
	}

	if len(users) == 0 {
		fmt.Println("No staff users found")
		return
	}
	for _, user := range users {
		fmt.Printf("%6d  %-12s %-10s %-24s %s\n",
			user.ID, user.Role, user.Status, user.Username, user.Email)
	}
}
