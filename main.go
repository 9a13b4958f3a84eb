package main

import (
	"context"
	"log"
	"os"

	"RoomLink/config"
	"RoomLink/routes"
	"RoomLink/utils"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	config.WarnInsecureDefaults()
	config.ConnectDB()
	if err := config.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	utils.InitRedis()

	if err := os.MkdirAll("uploads", 0o755); err != nil {
		log.Fatalf("Failed to create uploads directory: %v", err)
	}

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	routes.RegisterRoutes(e)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
