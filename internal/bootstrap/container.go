package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"emojiart-be/internal/config"
	"emojiart-be/internal/controller"
	"emojiart-be/internal/handler"
	"emojiart-be/internal/pkg/logger"
	"emojiart-be/internal/repository"
	"emojiart-be/internal/service"
	"emojiart-be/internal/websocket"
	"emojiart-be/pkg/clock"
	"emojiart-be/pkg/fetcher"
	"emojiart-be/pkg/imaging"
	pktNats "emojiart-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

const containerModule = "CONTAINER"

// AutosaveTopic is the in-process topic between the document service and
// the store writer.
const AutosaveTopic = "document.autosave"

type Container struct {
	// Controllers
	DocumentController controller.IDocumentController
	PaletteController  controller.IPaletteController

	// Live stream
	DocumentStreamHandler *handler.DocumentStreamHandler
	WebSocketHub          *websocket.Hub

	// Services
	DocumentService service.IDocumentService
	PaletteService  service.IPaletteService
	ConsumerService service.IConsumerService
	EventService    service.IEventService

	Logger logger.ILogger

	pubSub     *gochannel.GoChannel
	natsPub    *pktNats.Publisher
	rdb        *redis.Client
	closeStore func() error
	runCtx     context.Context
	cancel     context.CancelFunc
}

func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	runCtx, cancel := context.WithCancel(context.Background())

	c := &Container{Logger: sysLogger, runCtx: runCtx, cancel: cancel}

	// 2. Redis (optional: stream fan-out and the redis store)
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			sysLogger.Warn(containerModule, "Failed to parse Redis URL, using it as address", map[string]interface{}{"error": err})
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		c.rdb = redis.NewClient(opt)
		if err := c.rdb.Ping(runCtx).Err(); err != nil {
			sysLogger.Warn(containerModule, "Failed to connect to Redis", map[string]interface{}{"error": err})
		}
	}

	// 3. Snapshot store
	store, closeStore, err := repository.NewSnapshotRepository(cfg.Store, c.rdb)
	if err != nil {
		c.Close(context.Background())
		return nil, fmt.Errorf("snapshot store: %w", err)
	}
	c.closeStore = closeStore
	sysLogger.Info(containerModule, "Snapshot store ready", map[string]interface{}{"driver": cfg.Store.Driver})

	// 4. Autosave queue. Publish waits for the write so Close can flush.
	c.pubSub = gochannel.NewGoChannel(
		gochannel.Config{BlockPublishUntilSubscriberAck: true},
		watermill.NewStdLogger(false, false),
	)
	c.ConsumerService = service.NewConsumerService(c.pubSub, AutosaveTopic, store, sysLogger)
	if err := c.ConsumerService.Consume(runCtx); err != nil {
		c.Close(context.Background())
		return nil, fmt.Errorf("autosave consumer: %w", err)
	}
	autosaveWriter := service.NewPublisherService(AutosaveTopic, c.pubSub)

	// 5. Domain services
	c.DocumentService = service.NewDocumentService(
		runCtx,
		service.DocumentServiceConfig{
			AutosaveKey:      cfg.Document.AutosaveKey,
			AutosaveInterval: cfg.Document.AutosaveInterval,
			FetchTimeout:     cfg.Document.FetchTimeout,
			SaveTimeout:      cfg.Document.SaveTimeout,
		},
		store,
		autosaveWriter,
		fetcher.New(fetcher.Config{
			Timeout:  cfg.Document.FetchTimeout,
			MaxBytes: int64(cfg.Document.MaxBackgroundBytes),
		}),
		imaging.NewDecoder(cfg.Document.MaxBackgroundPixel),
		clock.New(),
		sysLogger,
	)

	seeds, err := service.LoadPaletteSeeds(cfg.Palette.SeedFile)
	if err != nil {
		sysLogger.Warn(containerModule, "Failed to load palette seeds, using defaults", map[string]interface{}{"error": err})
		seeds = nil
	}
	c.PaletteService = service.NewPaletteService(runCtx, cfg.Palette.StoreName, store, seeds, sysLogger)

	// 6. Event bus (optional)
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn(containerModule, "Failed to connect to NATS Publisher", map[string]interface{}{"error": err})
		} else {
			c.natsPub = natsPub
			c.EventService = service.NewEventService(natsPub, c.DocumentService, c.PaletteService, clock.New(), sysLogger)
		}
	}

	// 7. Live stream
	streamLogger := logger.NewIsolatedLogger(cfg.App.StreamLogFilePath)
	c.WebSocketHub = websocket.NewHub(streamLogger)
	c.DocumentStreamHandler = handler.NewDocumentStreamHandler(c.DocumentService, c.WebSocketHub, cfg.App.JwtSecret, streamLogger)

	// 8. Controllers
	c.DocumentController = controller.NewDocumentController(c.DocumentService, cfg.Document.DefaultEmojiSize, cfg.App.JwtSecret)
	c.PaletteController = controller.NewPaletteController(c.PaletteService, cfg.App.JwtSecret)

	return c, nil
}

// Start launches the hub and the observers of the document.
func (c *Container) Start() {
	go c.WebSocketHub.Run(c.runCtx)
	c.DocumentStreamHandler.Start(c.runCtx)
	if c.EventService != nil {
		c.EventService.Start()
	}
}

// Close stops observers, writes any pending autosave through the queue, then
// releases connections.
func (c *Container) Close(ctx context.Context) error {
	var errs []error

	if c.DocumentStreamHandler != nil {
		c.DocumentStreamHandler.Stop()
	}
	if c.EventService != nil {
		c.EventService.Close()
	}
	if c.DocumentService != nil {
		if err := c.DocumentService.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush autosave: %w", err))
		}
	}

	c.cancel()
	if c.pubSub != nil {
		if err := c.pubSub.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.closeStore != nil {
		if err := c.closeStore(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.rdb != nil {
		if err := c.rdb.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.Logger.Sync()

	return errors.Join(errs...)
}
