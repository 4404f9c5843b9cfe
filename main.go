package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Yousuf-177/TaskFlow/config"
	"github.com/Yousuf-177/TaskFlow/handlers"
	"github.com/Yousuf-177/TaskFlow/logging"
	"github.com/Yousuf-177/TaskFlow/repositories"
	"github.com/Yousuf-177/TaskFlow/services"
	"github.com/Yousuf-177/TaskFlow/utils"

	gorillahandlers "github.com/gorilla/handlers"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const startupStepTimeout = 10 * time.Second

// startupStep runs fn under a deadline of its own, so a slow step cannot
// eat into the next one.
func startupStep(timeout time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return fn(ctx)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: %v", err)
	}

	logging.InitLogger(cfg.LogFile, cfg.LogLevel)
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting TaskFlow backend...")

	var client *mongo.Client
	err = startupStep(startupStepTimeout, func(ctx context.Context) error {
		var err error
		client, err = mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		return err
	})
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(context.Background())

	if err := startupStep(startupStepTimeout, func(ctx context.Context) error {
		return client.Ping(ctx, nil)
	}); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB database %s", cfg.MongoDBName)

	db := client.Database(cfg.MongoDBName)
	userRepo := repositories.NewUserRepository(db.Collection("users"))
	taskRepo := repositories.NewTaskRepository(db.Collection("tasks"))
	if err := startupStep(startupStepTimeout, userRepo.EnsureIndexes); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
	}

	var notificationStore services.NotificationStore
	if cfg.NotificationsEnabled() {
		notificationRepo, err := repositories.NewNotificationRepo(cfg.CassandraHost, cfg.CassandraKeyspace)
		if err != nil {
			logging.Logger.Fatalf("Event ID: CASSANDRA_CONNECTION_FAILED, Description: %v", err)
		}
		defer notificationRepo.CloseSession()
		if err := startupStep(startupStepTimeout, notificationRepo.CreateTable); err != nil {
			logging.Logger.Fatalf("Event ID: CASSANDRA_TABLE_FAILED, Description: %v", err)
		}
		notificationStore = notificationRepo
	} else {
		logging.Logger.Warn("Event ID: NOTIFICATIONS_DISABLED, Description: CASS_DB is not set, assignment notifications are off")
	}

	storage, err := utils.NewDiskStorage(cfg.UploadDir)
	if err != nil {
		logging.Logger.Fatalf("Event ID: UPLOAD_DIR_FAILED, Description: %v", err)
	}

	tokens := services.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	notifications := services.NewNotificationService(notificationStore, services.NewNotificationBreaker())

	router := handlers.NewRouter(handlers.Deps{
		Users:         services.NewUserService(userRepo, taskRepo, tokens, cfg.AdminInviteToken),
		Tasks:         services.NewTaskService(taskRepo, userRepo, notifications),
		Dashboards:    services.NewDashboardService(taskRepo),
		Reports:       services.NewReportService(taskRepo, userRepo),
		Notifications: notifications,
		Tokens:        tokens,
		Images:        storage,
		UploadDir:     cfg.UploadDir,
	})

	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins([]string{cfg.ClientURL}),
		gorillahandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	recovery := gorillahandlers.RecoveryHandler(gorillahandlers.RecoveryLogger(logging.Logger))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      recovery(cors(router)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
