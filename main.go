package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/beka-birhanu/vinom-mines/api"
	gameapi "github.com/beka-birhanu/vinom-mines/api/game"
	api_i "github.com/beka-birhanu/vinom-mines/api/i"
	"github.com/beka-birhanu/vinom-mines/config"
	"github.com/beka-birhanu/vinom-mines/infrastruture/leaderboard"
	logger "github.com/beka-birhanu/vinom-mines/infrastruture/log"
	"github.com/beka-birhanu/vinom-mines/infrastruture/repo"
	"github.com/beka-birhanu/vinom-mines/infrastruture/token"
	"github.com/beka-birhanu/vinom-mines/service"
	"github.com/beka-birhanu/vinom-mines/service/i"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Global variables for dependencies
var (
	envs               config.Config
	presets            config.Presets
	mongoClient        *mongo.Client
	redisClient        *redis.Client
	gameRepo           i.GameRepo
	scoreBoard         i.Leaderboard
	jwtTokenizer       i.Tokenizer
	gameSessionManager *service.GameSessionManager
	gameController     api_i.Controller
	router             *api.Router
	appLogger          i.Logger
)

func exitOn(err error, msg string) {
	if err != nil {
		appLogger.Error(fmt.Sprintf("%s: %v", msg, err))
		os.Exit(1)
	}
}

func initPresets() {
	var err error
	presets, err = config.LoadPresets(envs.PresetsFile)
	exitOn(err, "Loading board presets")
	appLogger.Info(fmt.Sprintf("Loaded %d board presets", len(presets)))
}

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", envs.DBUser, envs.DBPassword, envs.DBHost, envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	exitOn(err, "Failed to connect to MongoDB")
	exitOn(mongoClient.Ping(ctx, nil), "MongoDB ping failed")
	appLogger.Info("Connected to MongoDB")
}

func initGameRepo(client *mongo.Client) {
	gameRepo = repo.NewGameRepo(client, envs.DBName, "games")
	appLogger.Info("Game repository initialized")
}

func initRedis(ctx context.Context) {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     envs.RedisAddr,
		Password: envs.RedisPassword,
	})
	exitOn(redisClient.Ping(ctx).Err(), "Redis ping failed")
	appLogger.Info("Connected to Redis")
}

func initLeaderboard() {
	var err error
	scoreBoard, err = leaderboard.NewRedisLeaderboard(redisClient, envs.LeaderboardSize)
	exitOn(err, "Creating leaderboard")
	appLogger.Info("Leaderboard initialized")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(envs.JWTSecret, envs.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initSessionManager() {
	exitOn(os.MkdirAll(envs.SaveDir, 0o755), "Creating save directory")

	sessionLogger, err := logger.New("SESSION-MANAGER", config.ColorCyan, os.Stdout)
	exitOn(err, "Creating session manager logger")

	gameSessionManager, err = service.NewGameSessionManager(&service.Config{
		Presets:     presets,
		Repo:        gameRepo,
		Leaderboard: scoreBoard,
		SaveDir:     envs.SaveDir,
		Logger:      sessionLogger,
	})
	exitOn(err, "Creating session manager")
	appLogger.Info("Session manager initialized")
}

func initGameController() {
	var err error
	gameController, err = gameapi.NewGameController(gameSessionManager, jwtTokenizer, presets, 0)
	exitOn(err, "Creating game controller")
	appLogger.Info("Game controller initialized")
}

func initRouter(t i.Tokenizer) {
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", envs.HostIP, envs.RESTPort),
		BaseURL:                 "/api",
		Mode:                    envs.GinMode,
		Controllers:             []api_i.Controller{gameController},
		AuthorizationMiddleware: gameapi.Authorize(t),
	})
	appLogger.Info("Router initialized")
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel() // Ensure the context is always canceled

	// Initialize dependencies
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)
	envs = config.Load()

	initPresets()
	initMongo(ctx)
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()
	initGameRepo(mongoClient)

	initRedis(ctx)
	defer redisClient.Close()
	initLeaderboard()

	initJWTTokenizer()
	initSessionManager()
	defer gameSessionManager.CloseAll()
	initGameController()
	initRouter(jwtTokenizer)

	// Run HTTP server
	if err := router.Run(); err != nil {
		appLogger.Error(fmt.Sprintf("Starting server: %v", err))
		os.Exit(1)
	}
}
