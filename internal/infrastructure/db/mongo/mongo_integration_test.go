//go:build integration
// +build integration

package mongo

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Sowndhar-gif/halleyx/internal/core/domain"
	"github.com/Sowndhar-gif/halleyx/internal/core/ports"
)

// setupTestDB starts a MongoDB container and returns a database with indexes applied.
func setupTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatalf("Failed to start MongoDB container: %v", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	client, db, err := Connect(ctx, Config{URI: uri, Database: "storefront_test", Timeout: 30 * time.Second})
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	require.NoError(t, EnsureIndexes(ctx, db))
	return db
}

func TestIntegration_Mongo(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	t.Run("user email is unique", func(t *testing.T) {
		users := NewUserRepository(db)
		u, err := users.Create(ctx, &domain.User{FirstName: "Ann", Email: "Ann@Example.com", Role: domain.RoleCustomer})
		require.NoError(t, err)

		_, err = users.Create(ctx, &domain.User{FirstName: "Imposter", Email: "ann@example.com", Role: domain.RoleCustomer})
		assert.ErrorIs(t, err, domain.ErrEmailTaken)

		found, err := users.FindByEmail(ctx, "ANN@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, found.ID)

		list, total, err := users.List(ctx, ports.UserFilter{Role: domain.RoleCustomer, Search: "an"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Len(t, list, 1)

		_, err = users.FindByID(ctx, "not-hex")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)

		batch, err := users.FindByIDs(ctx, []string{u.ID, "64b64c2f9f1b2c0001a1a1a1"})
		require.NoError(t, err)
		require.Len(t, batch, 1)
		assert.Equal(t, "ann@example.com", batch[0].Email)
	})

	t.Run("product price round-trips as decimal", func(t *testing.T) {
		products := NewProductRepository(db)
		p, err := products.Create(ctx, &domain.Product{Name: "Lamp", Price: decimal.RequireFromString("19.99"), Stock: 2})
		require.NoError(t, err)

		got, err := products.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("19.99")))

		batch, err := products.FindByIDs(ctx, []string{p.ID, "not-hex", "64b64c2f9f1b2c0001a1a1a1"})
		require.NoError(t, err)
		require.Len(t, batch, 1)
		assert.Equal(t, "Lamp", batch[0].Name)

		none, err := products.FindByIDs(ctx, []string{"not-hex"})
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("adjust stock is conditional under concurrency", func(t *testing.T) {
		products := NewProductRepository(db)
		p, err := products.Create(ctx, &domain.Product{Name: "Chair", Price: decimal.NewFromInt(40), Stock: 10})
		require.NoError(t, err)

		var wg sync.WaitGroup
		var ok atomic.Int32
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := products.AdjustStock(ctx, p.ID, -3); err == nil {
					ok.Add(1)
				}
			}()
		}
		wg.Wait()

		got, _ := products.FindByID(ctx, p.ID)
		assert.EqualValues(t, 3, ok.Load())
		assert.Equal(t, 1, got.Stock)

		_, err = products.AdjustStock(ctx, p.ID, -2)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		_, err = products.AdjustStock(ctx, "64b64c2f9f1b2c0001a1a1a1", 1)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("orders list, count and delete", func(t *testing.T) {
		orders := NewOrderRepository(db)
		now := time.Now().UTC().Truncate(time.Millisecond)

		a, err := orders.Create(ctx, &domain.Order{UserID: "u1", ProductID: "p1", Quantity: 1, Status: domain.OrderStatusPending, CreatedAt: now.Add(-time.Hour), UpdatedAt: now})
		require.NoError(t, err)
		b, err := orders.Create(ctx, &domain.Order{UserID: "u1", ProductID: "p2", Quantity: 2, Status: domain.OrderStatusShipped, CreatedAt: now, UpdatedAt: now})
		require.NoError(t, err)

		list, total, err := orders.List(ctx, ports.OrderFilter{UserID: "u1", Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Equal(t, b.ID, list[0].ID)

		counts, err := orders.CountByStatus(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, counts[domain.OrderStatusShipped])

		b.Quantity = 4
		require.NoError(t, orders.Update(ctx, b, 2))
		b.Quantity = 3
		assert.ErrorIs(t, orders.Update(ctx, b, 2), domain.ErrOrderConflict)
		missing := *b
		missing.ID = "64b64c2f9f1b2c0001a1a1a1"
		assert.ErrorIs(t, orders.Update(ctx, &missing, 4), domain.ErrOrderNotFound)

		exists, err := orders.ExistsForProduct(ctx, "p1")
		require.NoError(t, err)
		assert.True(t, exists)

		removed, err := orders.Delete(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, removed.Quantity)

		// A removed order can be restored with its original id.
		restored, err := orders.Create(ctx, removed)
		require.NoError(t, err)
		assert.Equal(t, a.ID, restored.ID)
	})

	t.Run("audit events are stored", func(t *testing.T) {
		audit := NewAuditRepository(db)
		err := audit.InsertEvent(ctx, &domain.AuditEvent{
			Action: domain.AuditOrderPlaced, OrderID: "o1", ProductID: "p1", StockDelta: -2,
			ActorID: "u1", ImpersonatedBy: "a1", OccurredAt: time.Now(),
		})
		require.NoError(t, err)

		n, err := db.Collection(collectionEvents).CountDocuments(ctx, map[string]string{"order_id": "o1"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	})
}
