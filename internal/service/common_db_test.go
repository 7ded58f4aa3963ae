package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-cinema-booking/config"
	"go-cinema-booking/internal/database"
	"go-cinema-booking/internal/model"
	"go-cinema-booking/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// testDB 連到 5433 的測試資料庫；連不上時維持 nil，DB 相關測試會跳過
var testDB *pgxpool.Pool

func TestMain(m *testing.M) {
	cfg := config.LoadTestConfig()

	db, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Printf("test database unavailable, DB-backed tests will be skipped: %v", err)
	} else if err := applyTestSchema(db); err != nil {
		log.Fatalf("Failed to apply test schema: %v", err)
	} else {
		testDB = db
	}

	code := m.Run()

	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

func applyTestSchema(pool *pgxpool.Pool) error {
	ddl, err := os.ReadFile(filepath.Join("..", "..", "migrations", "001_init.sql"))
	if err != nil {
		return err
	}
	_, err = pool.Exec(context.Background(), string(ddl))
	return err
}

func setupTestWithTruncate(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("test database not available, skipping")
	}
	_, err := testDB.Exec(context.Background(),
		"TRUNCATE tickets, booking_combos, bookings, seats, showtimes, promotions, combos, users RESTART IDENTITY CASCADE")
	require.NoError(t, err)
}

func createTestUser(t *testing.T, name, email string) int {
	t.Helper()
	var id int
	err := testDB.QueryRow(context.Background(),
		"INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id",
		name, email).Scan(&id)
	require.NoError(t, err)
	return id
}

// createTestShowtime 走正式的場次建立流程（含座位批次產生），回傳場次與座位編號
func createTestShowtime(t *testing.T, rows, cols int, basePriceCents int64) (int, []int) {
	t.Helper()

	svc := NewShowtimeService(testDB,
		repository.NewShowtimeRepository(testDB),
		repository.NewSeatRepository(testDB),
		nil)

	showtime, err := svc.Create(context.Background(), model.CreateShowtimeRequest{
		MovieTitle:     "Midnight Express",
		Auditorium:     "Hall 1",
		StartsAt:       time.Now().UTC().Add(24 * time.Hour),
		BasePriceCents: basePriceCents,
		Rows:           rows,
		Cols:           cols,
	})
	require.NoError(t, err)

	seats, err := repository.NewSeatRepository(testDB).ListByShowtime(context.Background(), showtime.ID)
	require.NoError(t, err)

	seatIDs := make([]int, 0, len(seats))
	for _, seat := range seats {
		seatIDs = append(seatIDs, seat.ID)
	}
	return showtime.ID, seatIDs
}

func createTestPromotion(t *testing.T, code string, percent int, minAmountCents int64, maxUsage int) int {
	t.Helper()
	var id int
	err := testDB.QueryRow(context.Background(), `
		INSERT INTO promotions (code, name, discount_percent, starts_at, ends_at, is_active, min_amount_cents, max_usage)
		VALUES ($1, $2, $3, NOW() - INTERVAL '1 day', NOW() + INTERVAL '1 day', TRUE, $4, $5)
		RETURNING id`,
		code, code, percent, minAmountCents, maxUsage).Scan(&id)
	require.NoError(t, err)
	return id
}

func newDBBookingService() BookingService {
	promoRepo := repository.NewPromotionRepository(testDB)
	return NewBookingService(testDB,
		repository.NewBookingRepository(testDB),
		repository.NewSeatRepository(testDB),
		repository.NewComboRepository(testDB),
		promoRepo,
		NewPromotionService(promoRepo),
		nil,
		15*time.Minute)
}

func newDBPaymentService(toleranceCent int64) PaymentService {
	return NewPaymentService(testDB,
		repository.NewBookingRepository(testDB),
		repository.NewSeatRepository(testDB),
		repository.NewTicketRepository(testDB),
		nil,
		NewLogTicketMailer(),
		toleranceCent)
}

func countRows(t *testing.T, query string, args ...interface{}) int {
	t.Helper()
	var n int
	err := testDB.QueryRow(context.Background(), query, args...).Scan(&n)
	require.NoError(t, err)
	return n
}

func bookingStatus(t *testing.T, bookingID int) model.BookingStatus {
	t.Helper()
	var status model.BookingStatus
	err := testDB.QueryRow(context.Background(),
		"SELECT status FROM bookings WHERE id = $1", bookingID).Scan(&status)
	require.NoError(t, err)
	return status
}

func webhookFor(bookingID int, amountCents int64) model.SepayWebhookRequest {
	return model.SepayWebhookRequest{
		Gateway:        "MBBank",
		Content:        fmt.Sprintf("GD 777 BOOKING %d", bookingID),
		TransferAmount: float64(amountCents) / 100,
		TransferType:   "in",
		ReferenceCode:  fmt.Sprintf("FT%d", bookingID),
	}
}
