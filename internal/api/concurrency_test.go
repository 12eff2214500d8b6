package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jbweber/homelab/customercare/internal/config"
	"github.com/jbweber/homelab/customercare/internal/dto"
)

// Concurrent creates for one customer race between counting and inserting.
// The production DSN takes the write lock at BEGIN, so the limit holds.
func TestCreateDevice_ConcurrentLimit(t *testing.T) {
	const attempts = 20

	cfg := config.NewConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), "customercare.db")
	ds, err := cfg.InitializeDatabase()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, ds.Close())
	})

	h := NewAPI(ds, testDeviceLimit, zaptest.NewLogger(t)).Router()
	customerID := createCustomer(t, h)

	body, err := json.Marshal(dto.CreateDeviceRequest{CustomerID: customerID, Status: "ACTIVE", Color: "aabbcc"})
	require.NoError(t, err)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		codes = map[int]int{}
	)
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/devices", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			<-start
			h.ServeHTTP(w, req)

			mu.Lock()
			codes[w.Code]++
			mu.Unlock()
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, map[int]int{
		http.StatusCreated:    testDeviceLimit,
		http.StatusBadRequest: attempts - testDeviceLimit,
	}, codes)

	count, err := ds.Devices.CountByCustomerID(t.Context(), uuid.MustParse(customerID))
	require.NoError(t, err)
	assert.Equal(t, testDeviceLimit, count)
}
