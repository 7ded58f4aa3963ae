package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go-cinema-booking/config"
	"go-cinema-booking/internal/cache"
	"go-cinema-booking/internal/database"
	"go-cinema-booking/internal/handler"
	"go-cinema-booking/internal/middleware"
	"go-cinema-booking/internal/queue"
	"go-cinema-booking/internal/repository"
	"go-cinema-booking/internal/service"
	"go-cinema-booking/internal/worker"
	"go-cinema-booking/pkg/logger"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	cfg := config.LoadConfig()

	defer logger.Sync()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	// Repositories
	seatRepo := repository.NewSeatRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	promoRepo := repository.NewPromotionRepository(pool)
	comboRepo := repository.NewComboRepository(pool)
	showtimeRepo := repository.NewShowtimeRepository(pool)

	// Cache and queue
	seatCache := cache.NewSeatMapCache(rdb, cfg.Booking.SeatCacheTTL)
	emailQueue, err := queue.NewRedisStreamEmailQueue(rdb, "", nil)
	if err != nil {
		log.Fatalf("Failed to initialize email queue: %v", err)
	}

	// Services
	holdService := service.NewHoldService(seatRepo, seatCache, cfg.Booking.HoldTTL)
	showtimeService := service.NewShowtimeService(pool, showtimeRepo, seatRepo, seatCache)
	promotionService := service.NewPromotionService(promoRepo)
	bookingService := service.NewBookingService(
		pool, bookingRepo, seatRepo, comboRepo, promoRepo,
		promotionService, seatCache, cfg.Booking.PendingBookingTTL,
	)
	paymentService := service.NewPaymentService(
		pool, bookingRepo, seatRepo, ticketRepo,
		emailQueue, service.NewLogTicketMailer(), cfg.Booking.PaymentToleranceCent,
	)
	ticketService := service.NewTicketService(ticketRepo, cfg.Booking.CheckInGrace)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background workers
	emailWorker := worker.NewEmailWorker(paymentService, emailQueue)
	if err := emailWorker.Start(ctx); err != nil {
		log.Fatalf("Failed to start email worker: %v", err)
	}
	sweeper := worker.NewSweeper(bookingService, cfg.Booking.SweepInterval)
	sweeper.Start(ctx)

	// HTTP routes
	auth := middleware.Auth(cfg.Auth.JWTSecret)
	staffOnly := middleware.RequireStaff()

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	handler.NewShowtimeHandler(showtimeService).RegisterRoutes(router, auth, staffOnly)
	handler.NewBookingHandler(bookingService, holdService).RegisterRoutes(router, auth)
	handler.NewPromotionHandler(promotionService).RegisterRoutes(router)
	handler.NewWebhookHandler(paymentService).RegisterRoutes(router)
	handler.NewTicketHandler(ticketService).RegisterRoutes(router, auth, staffOnly)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}
