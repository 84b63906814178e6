package routes

import (
	"SimpleMacro-Backend/internal/api/handlers"
	"SimpleMacro-Backend/internal/middleware"
	"SimpleMacro-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App          *fiber.App
	UserHandler  handlers.UserHandler
	MacroHandler handlers.MacroHandler
	Middleware   middleware.Middleware
	JWTService   jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Entries()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/login/google", c.UserHandler.LoginWithGoogle)
		user.Post("/guest", c.UserHandler.LoginAsGuest)
		user.Get("/me", auth, c.UserHandler.Me)
		user.Patch("/update", auth, c.UserHandler.UpdateProfile)
		user.Patch("/goals", auth, c.UserHandler.UpdateGoals)
		user.Patch("/preferences", auth, c.UserHandler.UpdatePreferences)
		user.Delete("/me", auth, c.UserHandler.DeleteAccount)
		user.Get("/watch/me", auth, c.UserHandler.WatchProfile)
	}
}

func (c *Config) Entries() {
	entries := c.App.Group("/api/v1/entries", c.Middleware.AuthMiddleware(c.JWTService))

	// Basic CRUD operations
	entries.Post("", c.MacroHandler.AddEntry)
	entries.Get("", c.MacroHandler.GetEntries)
	entries.Put("/:id", c.MacroHandler.UpdateEntry)
	entries.Delete("/:id", c.MacroHandler.DeleteEntry)

	// Summaries and live queries
	entries.Get("/summary/day", c.MacroHandler.GetDailySummary)
	entries.Get("/summary/range", c.MacroHandler.GetRangeSummary)
	entries.Get("/recent", c.MacroHandler.GetRecentEntries)
	entries.Get("/watch", c.MacroHandler.WatchEntries)
	entries.Get("/watch/day", c.MacroHandler.WatchDailySummary)
	entries.Get("/watch/range", c.MacroHandler.WatchRangeSummary)
	entries.Get("/watch/recent", c.MacroHandler.WatchRecentEntries)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
