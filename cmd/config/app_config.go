package config

import (
	"SimpleMacro-Backend/internal/api/handlers"
	"SimpleMacro-Backend/internal/api/routes"
	"SimpleMacro-Backend/internal/middleware"
	"SimpleMacro-Backend/internal/utils"
	"SimpleMacro-Backend/internal/watch"
	"SimpleMacro-Backend/pkg/jwt"
	"SimpleMacro-Backend/pkg/macro"
	"SimpleMacro-Backend/pkg/mirror"
	"SimpleMacro-Backend/pkg/user"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// change notifications for the live queries
	hub := watch.NewHub()

	// Repository
	userRepository := user.NewUserRepository(db, hub)
	macroRepository := macro.NewMacroRepository(db, hub)

	// Service
	jwtService := jwt.NewJWTService()
	mirrorService := mirror.NewMirrorService()
	authProvider := user.NewGoogleAuthProvider()
	userService := user.NewUserService(userRepository, macroRepository, jwtService, authProvider, mirrorService)
	macroService := macro.NewMacroService(macroRepository, userRepository, mirrorService)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	macroHandler := handlers.NewMacroHandler(macroService, validator)

	// routes
	routesConfig := routes.Config{
		App:          app,
		UserHandler:  userHandler,
		MacroHandler: macroHandler,
		Middleware:   middlewares,
		JWTService:   jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
