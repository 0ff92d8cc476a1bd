// Command admin manages account roles from the shell.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"devcamper/internal/config"
	"devcamper/internal/database"
	"devcamper/internal/repository"
	"devcamper/internal/service"

	"github.com/joho/godotenv"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  admin set-role <user_id> <user|publisher|admin>  - Change a user's role")
	fmt.Println("  admin list-admins                                - List all admins")
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	_ = godotenv.Load()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	users := service.NewUserService(userRepo, service.NewAuthService(userRepo, nil, nil), nil)
	ctx := context.Background()

	switch os.Args[1] {
	case "set-role":
		if len(os.Args) < 4 {
			usage()
		}
		id, err := strconv.ParseUint(os.Args[2], 10, 64)
		if err != nil {
			log.Fatalf("Invalid user ID %q", os.Args[2])
		}
		user, err := users.SetRole(ctx, uint(id), os.Args[3])
		if err != nil {
			log.Fatalf("Failed to set role: %v", err)
		}
		fmt.Printf("✅ %s (ID: %d) is now %s\n", user.Email, user.ID, user.Role)

	case "list-admins":
		admins, err := users.ListAdmins(ctx)
		if err != nil {
			log.Fatalf("Failed to fetch admins: %v", err)
		}
		if len(admins) == 0 {
			fmt.Println("No admins found in the system")
			return
		}
		fmt.Println("\n📋 Current Admins:")
		fmt.Println("─────────────────────────────────────")
		for _, a := range admins {
			fmt.Printf("ID: %d | Name: %s | Email: %s\n", a.ID, a.Name, a.Email)
		}
		fmt.Println("─────────────────────────────────────")

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		usage()
	}
}
