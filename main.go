package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/beka-birhanu/vinom-structures/api"
	api_i "github.com/beka-birhanu/vinom-structures/api/i"
	layoutapi "github.com/beka-birhanu/vinom-structures/api/layout"
	"github.com/beka-birhanu/vinom-structures/catalog"
	"github.com/beka-birhanu/vinom-structures/config"
	dmn "github.com/beka-birhanu/vinom-structures/domain"
	"github.com/beka-birhanu/vinom-structures/emit"
	"github.com/beka-birhanu/vinom-structures/infrastruture/cache"
	logger "github.com/beka-birhanu/vinom-structures/infrastruture/log"
	"github.com/beka-birhanu/vinom-structures/infrastruture/repo"
	"github.com/beka-birhanu/vinom-structures/service"
	"github.com/beka-birhanu/vinom-structures/service/i"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const layoutsCollection = "layouts"

// Global variables for dependencies
var (
	mongoClient      *mongo.Client
	redisClient      *redis.Client
	structureCatalog *catalog.Catalog
	layoutRepo       i.LayoutRepo
	layoutCache      i.LayoutCache
	layoutService    *service.LayoutService
	emitter          *emit.Emitter
	layoutController api_i.Controller
	router           *api.Router
	appLogger        *logger.Logger
)

func initCatalog() {
	var err error
	structureCatalog, err = catalog.New(catalog.Reference())
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating structure catalog: %v", err))
		os.Exit(1)
	}
	appLogger.Info(fmt.Sprintf("Structure catalog initialized: %d structures, %d patterns", len(structureCatalog.Structures()), structureCatalog.Patterns()))
}

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error(fmt.Sprintf("MongoDB ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to MongoDB")
}

func initRedis(ctx context.Context) {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.Envs.RedisAddr,
		Password: config.Envs.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to Redis")
}

func initLayoutRepo(client *mongo.Client) {
	layoutRepo = repo.NewLayoutRepo(client, config.Envs.DBName, layoutsCollection)
	appLogger.Info("Layout repository initialized")
}

func initLayoutCache(client *redis.Client) {
	var err error
	layoutCache, err = cache.NewRedisLayoutCache(client, config.Envs.CacheTTLSeconds, config.Envs.CacheLockSeconds)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating layout cache: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Layout cache initialized")
}

func initLayoutService() {
	serviceLogger, err := logger.New("LAYOUT-SERVICE", config.ColorCyan, os.Stderr)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating layout service logger: %v", err))
		os.Exit(1)
	}

	layoutService, err = service.NewLayoutService(&service.Config{
		Catalog: structureCatalog,
		Repo:    layoutRepo,
		Cache:   layoutCache,
		Logger:  serviceLogger,
		Defaults: i.GenerateRequest{
			Width:           config.Envs.MazeWidth,
			Depth:           config.Envs.MazeDepth,
			Tries:           config.Envs.MazeTries,
			TrialMultiplier: config.Envs.MazeTrialMultiplier,
			Seed:            config.Envs.MazeSeed,
		},
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating layout service: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Layout service initialized")
}

func initEmitter() {
	emitter = emit.New(emit.Config{CellSize: config.Envs.CellSize})
}

func initLayoutController() {
	var err error
	layoutController, err = layoutapi.NewController(layoutService, emitter)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating layout controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Layout controller initialized")
}

func initRouter() {
	gin.SetMode(config.Envs.GinMode)
	router = api.NewRouter(api.Config{
		Addr:        fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:     "/api",
		Controllers: []api_i.Controller{layoutController},
	})
	appLogger.Info("Router initialized")
}

// drawLayout prints the wall grid recorded in a layout.
func drawLayout(l dmn.Layout) error {
	grid, err := l.Grid()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "try %d (seed %d)\n%s\n", l.Try, l.Seed, grid)
	return nil
}

func serve() {
	if err := config.Envs.RequireServer(); err != nil {
		appLogger.Error(err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	initMongo(ctx)
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()
	initRedis(ctx)
	defer redisClient.Close()

	initLayoutRepo(mongoClient)
	initLayoutCache(redisClient)
	initLayoutService()
	initLayoutController()
	initRouter()

	// Run HTTP server
	if err := router.Run(); err != nil {
		appLogger.Error(fmt.Sprintf("Starting server: %v", err))
		os.Exit(1)
	}
}

func generate(req i.GenerateRequest, draw bool) {
	initLayoutService()

	batch, err := layoutService.Generate(context.Background(), req)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Generating layouts: %v", err))
		os.Exit(1)
	}

	if draw {
		for _, l := range batch.Layouts {
			if err := drawLayout(l); err != nil {
				appLogger.Warning(fmt.Sprintf("Drawing try %d: %v", l.Try, err))
			}
		}
	}

	if err := emitter.WriteBatch(os.Stdout, layoutService.Structures(), batch); err != nil {
		appLogger.Error(fmt.Sprintf("Writing records: %v", err))
		os.Exit(1)
	}
}

func main() {
	serveFlag := flag.Bool("serve", false, "serve the layout API instead of printing records")
	seed := flag.Int64("seed", 0, "base random seed (0 uses MAZE_SEED or the clock)")
	tries := flag.Int("tries", 0, "number of independent layouts (0 uses MAZE_TRIES)")
	width := flag.Int("width", 0, "cells along x (0 uses MAZE_WIDTH)")
	depth := flag.Int("depth", 0, "cells along z (0 uses MAZE_DEPTH)")
	draw := flag.Bool("draw", false, "draw each layout to stderr")
	flag.Parse()

	// Records go to stdout, so every log line goes to stderr.
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stderr)

	initCatalog()
	initEmitter()

	if *serveFlag {
		serve()
		return
	}

	generate(i.GenerateRequest{
		Width: *width,
		Depth: *depth,
		Tries: *tries,
		Seed:  *seed,
	}, *draw)
}
