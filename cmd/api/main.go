package main

import (
	"context"
	"log"
	"time"

	"aunt-joys-restaurant/internal/config"
	appmw "aunt-joys-restaurant/internal/middleware"
	"aunt-joys-restaurant/internal/models"
	"aunt-joys-restaurant/internal/modules/auth"
	"aunt-joys-restaurant/internal/modules/menu"
	"aunt-joys-restaurant/internal/modules/order"
	"aunt-joys-restaurant/internal/modules/reports"
	"aunt-joys-restaurant/internal/modules/users"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()

	issueToken := func(user *models.User) (string, error) {
		return appmw.NewToken(cfg.JWTSecret, user)
	}

	authHandler := auth.NewHandler(auth.NewService(auth.NewRepository(pool), issueToken))
	userHandler := users.NewHandler(users.NewService(users.NewRepository(pool)))
	menuHandler := menu.NewHandler(menu.NewService(menu.NewRepository(pool), menu.NewRedisCache(rdb)), cfg.UploadDir)
	orderHandler := order.NewHandler(order.NewService(order.NewRepository(pool)))
	reportHandler := reports.NewHandler(reports.NewService(reports.NewRepository(pool)))

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.ClientOrigin},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	e.Static("/uploads", cfg.UploadDir)

	api := e.Group("/api/v1")

	// Public: browse the menu, create an account, sign in.
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/meals", menuHandler.GetMeals)
	api.GET("/meals/:mealId", menuHandler.GetMeal)
	api.GET("/categories", menuHandler.GetCategories)

	jwt := appmw.JWT(cfg.JWTSecret)

	me := api.Group("/auth", jwt)
	me.GET("/me", authHandler.Me)

	// Customers place orders and read their own.
	customer := api.Group("", jwt, appmw.RequireRoles(models.RoleCustomer))
	customer.POST("/orders", orderHandler.PlaceOrder)
	customer.GET("/orders", orderHandler.ListMyOrders)
	customer.GET("/orders/:orderId", orderHandler.GetMyOrder)

	// Sales personnel work the fulfillment queue.
	staff := api.Group("/staff", jwt, appmw.RequireRoles(models.RoleSales, models.RoleAdministrator))
	staff.GET("/orders", orderHandler.ListOrders)
	staff.GET("/orders/:orderId", orderHandler.GetOrder)
	staff.PATCH("/orders/status", orderHandler.UpdateStatus)
	staff.GET("/meals", menuHandler.GetMeals)

	// Administrators manage the menu and accounts.
	admin := api.Group("/admin", jwt, appmw.RequireRoles(models.RoleAdministrator))
	admin.GET("/users", userHandler.ListUsers)
	admin.POST("/users", userHandler.SaveUser)
	admin.DELETE("/users/:userId", userHandler.DeleteUser)
	admin.POST("/meals", menuHandler.SaveMeal)
	admin.DELETE("/meals/:mealId", menuHandler.DeleteMeal)
	admin.GET("/categories", menuHandler.GetCategories)
	admin.POST("/categories", menuHandler.SaveCategory)
	admin.DELETE("/categories/:categoryId", menuHandler.DeleteCategory)

	// Managers read analytics.
	manager := api.Group("/manager", jwt, appmw.RequireRoles(models.RoleManager, models.RoleAdministrator))
	manager.GET("/reports", reportHandler.GetMonthlyReport)

	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
