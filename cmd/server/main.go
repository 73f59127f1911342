package main

import (
	"log"

	"github.com/studiable/studyspots-backend-go/internal/api"
	"github.com/studiable/studyspots-backend-go/internal/config"
	"github.com/studiable/studyspots-backend-go/internal/database"
	"github.com/studiable/studyspots-backend-go/internal/googlemaps"
	"github.com/studiable/studyspots-backend-go/internal/handler"
	"github.com/studiable/studyspots-backend-go/internal/repository"
	"github.com/studiable/studyspots-backend-go/internal/service"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化数据库
	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	// Google Maps 客户端（未配置密钥时相关接口返回 500）
	var spotHandler *handler.SpotHandler
	var geocodeHandler *handler.GeocodeHandler
	if cfg.GoogleMapsAPIKey != "" {
		client, err := googlemaps.New(cfg.GoogleMapsAPIKey)
		if err != nil {
			log.Fatal("Failed to create Google Maps client:", err)
		}
		spotHandler = handler.NewSpotHandler(service.NewSpotService(client, cfg.MaxResults), cfg.DefaultMaxDistanceKm)
		geocodeHandler = handler.NewGeocodeHandler(service.NewGeocodeService(client, cfg.AutocompleteCountry))
	} else {
		log.Println("GOOGLE_MAPS_API_KEY not set; search and geocoding endpoints disabled")
		spotHandler = handler.NewSpotHandler(nil, cfg.DefaultMaxDistanceKm)
		geocodeHandler = handler.NewGeocodeHandler(nil)
	}

	savedRepo := repository.NewSavedSpotRepository(database.GetDB())
	savedHandler := handler.NewSavedHandler(service.NewSavedSpotService(savedRepo))

	// 初始化路由
	router := api.SetupRouter(cfg, api.Handlers{
		Spots:   spotHandler,
		Geocode: geocodeHandler,
		Saved:   savedHandler,
	})

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
