package server

import (
	"net/http"

	bidding "auction-marketplace/internal/biddingService"
	items "auction-marketplace/internal/itemService"
	messages "auction-marketplace/internal/messageService"
	"auction-marketplace/internal/storage"
	users "auction-marketplace/internal/userService"
	handler "auction-marketplace/services/marketplace/handler"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// Services bundles everything the router needs.
type Services struct {
	Users    *users.UserService
	Items    *items.ItemService
	Bidding  *bidding.BiddingService
	Messages *messages.MessageService
	Files    storage.FileStore
	MediaDir string
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(s Services) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		utils.JSONError(c, http.StatusMethodNotAllowed, "method not allowed")
	})
	router.NoRoute(func(c *gin.Context) {
		utils.JSONError(c, http.StatusNotFound, "not found")
	})

	userHandler := handler.NewUserHandler(s.Users, s.Files)
	itemHandler := handler.NewItemHandler(s.Items, s.Files)
	biddingHandler := handler.NewBiddingHandler(s.Bidding)
	messageHandler := handler.NewMessageHandler(s.Messages)

	auth := AuthRequired(s.Users)

	// public endpoints
	router.POST("/signup", userHandler.SignupHandler)
	router.POST("/login", userHandler.LoginHandler)
	router.POST("/token/refresh", userHandler.RefreshHandler)

	if s.MediaDir != "" {
		router.Static("/media", s.MediaDir)
	}

	itemRoutes := router.Group("/items")
	{
		itemRoutes.GET("", itemHandler.SearchItemsHandler)
		itemRoutes.GET("/:item_id", itemHandler.GetItemHandler)
		itemRoutes.GET("/:item_id/bids", biddingHandler.GetItemBidsHandler)
		itemRoutes.GET("/:item_id/highest-bid", biddingHandler.GetHighestBidHandler)
		itemRoutes.GET("/:item_id/messages", messageHandler.GetItemThreadHandler)

		itemRoutes.POST("/create", auth, itemHandler.CreateItemHandler)
		itemRoutes.PUT("/:item_id/update", auth, itemHandler.UpdateItemHandler)
		itemRoutes.DELETE("/:item_id/delete", auth, itemHandler.DeleteItemHandler)
		itemRoutes.POST("/:item_id/image", auth, itemHandler.UploadItemImageHandler)
		itemRoutes.DELETE("/:item_id/image", auth, itemHandler.DeleteItemImageHandler)
	}

	bidRoutes := router.Group("/bids", auth)
	{
		bidRoutes.POST("/create", biddingHandler.PlaceBidHandler)
		bidRoutes.DELETE("/:bid_id/delete", biddingHandler.DeleteBidHandler)
	}

	messageRoutes := router.Group("/messages", auth)
	{
		messageRoutes.POST("/create", messageHandler.CreateMessageHandler)
		messageRoutes.PUT("/:message_id/update", messageHandler.UpdateMessageHandler)
		messageRoutes.DELETE("/:message_id/delete", messageHandler.DeleteMessageHandler)
	}

	userRoutes := router.Group("/users", auth)
	{
		userRoutes.GET("/me", userHandler.GetMeHandler)
		userRoutes.PUT("/me/update", userHandler.UpdateMeHandler)
		userRoutes.POST("/me/profile-picture", userHandler.UploadProfilePictureHandler)
		userRoutes.DELETE("/me/profile-picture", userHandler.DeleteProfilePictureHandler)
		userRoutes.GET("/me/items", itemHandler.GetMyItemsHandler)
		userRoutes.GET("/me/bids", biddingHandler.GetMyBidsHandler)
		userRoutes.GET("/me/bidded-items", biddingHandler.GetMyBiddedItemsHandler)

		userRoutes.GET("/:user_id", userHandler.GetUserHandler)
		userRoutes.DELETE("/:user_id/delete", userHandler.DeleteUserHandler)
		userRoutes.GET("/:user_id/items", itemHandler.GetUserItemsHandler)
		userRoutes.GET("/:user_id/bidded-items", biddingHandler.GetBiddedItemsHandler)
	}

	return router
}
