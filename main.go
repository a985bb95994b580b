package main

import (
	"fmt"
	"os"

	bidding "auction-marketplace/internal/biddingService"
	"auction-marketplace/internal/config"
	items "auction-marketplace/internal/itemService"
	"auction-marketplace/internal/mailer"
	messages "auction-marketplace/internal/messageService"
	"auction-marketplace/internal/repository"
	"auction-marketplace/internal/server"
	"auction-marketplace/internal/storage"
	users "auction-marketplace/internal/userService"
	winner "auction-marketplace/internal/winnerJob"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	gin.SetMode(cfg.GinMode)

	db, err := repository.Connect(cfg.DSN())
	if err != nil {
		utils.Fatal("failed to connect to database", map[string]any{"error": err.Error()})
	}
	repo := repository.NewGormRepo(db)

	files, err := storage.NewLocalStore(cfg.MediaDir)
	if err != nil {
		utils.Fatal("failed to initialize media storage", map[string]any{"error": err.Error()})
	}

	smtp := mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)

	userSvc := users.NewUserService(repo, cfg.JWTSecret)
	itemSvc := items.NewItemService(repo)
	biddingSvc := bidding.NewBiddingService(repo)
	messageSvc := messages.NewMessageService(repo)

	scheduler := cron.New()
	if _, err := scheduler.AddJob(cfg.WinnerCron, winner.NewJob(repo, smtp)); err != nil {
		utils.Fatal("failed to schedule winner job", map[string]any{
			"schedule": cfg.WinnerCron,
			"error":    err.Error(),
		})
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := server.SetupRouter(server.Services{
		Users:    userSvc,
		Items:    itemSvc,
		Bidding:  biddingSvc,
		Messages: messageSvc,
		Files:    files,
		MediaDir: cfg.MediaDir,
	})

	addr := ":" + cfg.ServerPort
	utils.Info("starting auction marketplace server", map[string]any{"addr": addr})
	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}
