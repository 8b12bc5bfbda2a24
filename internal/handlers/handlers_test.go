package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/grail/internal/logger"
	"github.com/nkiryanov/grail/internal/metrics"
	"github.com/nkiryanov/grail/internal/repository/memory"
	"github.com/nkiryanov/grail/internal/service/catalog"
	"github.com/nkiryanov/grail/internal/service/profile"
	"github.com/nkiryanov/grail/internal/service/purchase"
	"github.com/nkiryanov/grail/internal/service/wallet"
)

type testServer struct {
	URL       string
	wallet    *wallet.WalletService
	purchases *purchase.PurchaseService
}

// Run http server with production services over in-memory storage
// Wallet starts with the default seed: 750 DOV, 35 DIV
func startServer(t *testing.T, cfg purchase.Config) testServer {
	w, err := wallet.Open(t.Context(), memory.NewStorage(), uuid.New(), wallet.DefaultSeed(time.Now()))
	require.NoError(t, err)

	c := catalog.NewService(catalog.DefaultProducts())
	m := metrics.NewCollector()
	l := logger.NewNoOpLogger()
	p := purchase.NewService(cfg, c, w, m, l)
	pr := profile.NewService(profile.DefaultProfile(), profile.DefaultFeatured(), c, w)

	srv := httptest.NewServer(NewRouter(c, w, p, pr, m, l))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { require.NoError(t, p.Drain(context.Background())) })

	return testServer{URL: srv.URL, wallet: w, purchases: p}
}

func get(t *testing.T, url string) (int, string) {
	resp, err := http.Get(url)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode, string(body)
}

func post(t *testing.T, url string, data string) (int, string) {
	resp, err := http.Post(url, "application/json", strings.NewReader(data))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode, string(body)
}

func Test_CatalogHandlers(t *testing.T) {
	srv := startServer(t, purchase.Config{})

	t.Run("categories", func(t *testing.T) {
		code, body := get(t, srv.URL+"/api/categories")

		require.Equal(t, http.StatusOK, code)
		require.JSONEq(t, `["All", "Furniture", "Hotels", "Studios", "Decor", "Lifestyle"]`, body)
	})

	t.Run("list filtered", func(t *testing.T) {
		code, body := get(t, srv.URL+"/api/products?category=Furniture&search=CHAIR")

		require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", body)
		require.JSONEq(t, `[
			{
				"id": "5",
				"title": "Desk Chair",
				"image_url": "https://images.pexels.com/photos/1957478/pexels-photo-1957478.jpeg",
				"category": "Furniture",
				"price": {"div": 15, "dov": 150},
				"price_mxn": "300"
			}
		]`, body)
	})

	t.Run("list empty", func(t *testing.T) {
		code, body := get(t, srv.URL+"/api/products?search=spaceship")

		require.Equal(t, http.StatusOK, code)
		require.JSONEq(t, `[]`, body)
	})

	t.Run("product with details", func(t *testing.T) {
		code, body := get(t, srv.URL+"/api/products/3")

		require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", body)
		require.JSONEq(t, `{
			"id": "3",
			"title": "Luxury Hotel - 1 Night",
			"description": "Enjoy a luxurious night at one of our partner hotels. Includes breakfast and access to amenities.",
			"image_url": "https://images.pexels.com/photos/261102/pexels-photo-261102.jpeg",
			"category": "Hotels",
			"price": {"div": 30, "dov": 300},
			"price_mxn": "600",
			"features": ["King size bed", "Ocean view", "Complimentary breakfast", "Access to pool and spa"],
			"details": {
				"type": "hotel",
				"location": "Cancun, Mexico",
				"check_in": "3:00 PM",
				"check_out": "12:00 PM"
			}
		}`, body)
	})

	t.Run("unknown product", func(t *testing.T) {
		code, body := get(t, srv.URL+"/api/products/42")

		require.Equal(t, http.StatusNotFound, code)
		require.JSONEq(t, `{"error": "service_error", "message": "Product not found"}`, body)
	})
}

func Test_WalletHandlers(t *testing.T) {
	srv := startServer(t, purchase.Config{})

	t.Run("balance", func(t *testing.T) {
		code, body := get(t, srv.URL+"/api/wallet/balance")

		require.Equal(t, http.StatusOK, code)
		require.JSONEq(t, `{"dov": 750, "div": 35}`, body)
	})

	t.Run("transactions", func(t *testing.T) {
		tests := []struct {
			name  string
			query string
			count int
		}{
			{"all by default", "", 6},
			{"all", "?token=all", 6},
			{"earned", "?token=DOV", 3},
			{"purchased lower case", "?token=div", 3},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				code, body := get(t, srv.URL+"/api/wallet/transactions"+tc.query)
				require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", body)

				var transactions []map[string]any
				require.NoError(t, json.Unmarshal([]byte(body), &transactions))
				require.Len(t, transactions, tc.count)
			})
		}

		t.Run("newest first", func(t *testing.T) {
			_, body := get(t, srv.URL+"/api/wallet/transactions")

			var transactions []transactionResponse
			require.NoError(t, json.Unmarshal([]byte(body), &transactions))
			require.Equal(t, "Referral Bonus", transactions[0].Title)
			require.Equal(t, "Maria Lopez", transactions[2].Counterparty)
		})

		t.Run("unknown token", func(t *testing.T) {
			code, _ := get(t, srv.URL+"/api/wallet/transactions?token=BTC")

			require.Equal(t, http.StatusBadRequest, code)
		})
	})

	t.Run("quote", func(t *testing.T) {
		code, body := get(t, srv.URL+"/api/wallet/topup/quote?units=3")

		require.Equal(t, http.StatusOK, code)
		require.JSONEq(t, `{"units": 3, "cost": "60", "currency": "MXN"}`, body)
	})

	t.Run("quote invalid", func(t *testing.T) {
		tests := []struct {
			units string
			code  int
		}{
			{"0", http.StatusUnprocessableEntity},
			{"-1", http.StatusUnprocessableEntity},
			{"2.5", http.StatusUnprocessableEntity},
			{"three", http.StatusBadRequest},
			{"", http.StatusBadRequest},
		}

		for _, tc := range tests {
			t.Run(tc.units, func(t *testing.T) {
				code, _ := get(t, srv.URL+"/api/wallet/topup/quote?units="+tc.units)

				require.Equal(t, tc.code, code)
			})
		}
	})
}

func Test_PurchaseHandlers(t *testing.T) {
	t.Run("buy product", func(t *testing.T) {
		srv := startServer(t, purchase.Config{ProductDelay: 50 * time.Millisecond})

		code, body := post(t, srv.URL+"/api/purchases", `{"request_id": "req-1", "product_id": "2"}`)

		require.Equalf(t, http.StatusAccepted, code, "not expected code. Body: %s", body)
		var flow flowResponse
		require.NoError(t, json.Unmarshal([]byte(body), &flow))
		require.Equal(t, "req-1", flow.RequestID)
		require.Equal(t, purchase.StateProcessing, flow.State)

		// Same key while processing
		code, _ = post(t, srv.URL+"/api/purchases", `{"request_id": "req-1", "product_id": "2"}`)
		require.Equal(t, http.StatusConflict, code)

		require.NoError(t, srv.purchases.Drain(t.Context()))

		code, body = get(t, srv.URL+"/api/purchases/req-1")
		require.Equal(t, http.StatusOK, code)
		require.NoError(t, json.Unmarshal([]byte(body), &flow))
		require.Equal(t, purchase.StateCompleted, flow.State)
		require.NotNil(t, flow.Receipt)
		require.Equal(t, balanceResponse{DOV: 700, DIV: 25}, flow.Receipt.Balance)
		require.Len(t, flow.Receipt.Transactions, 2)

		code, body = get(t, srv.URL+"/api/wallet/balance")
		require.Equal(t, http.StatusOK, code)
		require.JSONEq(t, `{"dov": 700, "div": 25}`, body)
	})

	t.Run("retried request id", func(t *testing.T) {
		srv := startServer(t, purchase.Config{})

		code, first := post(t, srv.URL+"/api/purchases", `{"request_id": "retry-key", "product_id": "2"}`)
		require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", first)

		code, again := post(t, srv.URL+"/api/purchases", `{"request_id": "retry-key", "product_id": "2"}`)
		require.Equal(t, http.StatusOK, code)
		require.JSONEq(t, first, again, "the finished purchase is returned as is")

		code, body := post(t, srv.URL+"/api/purchases", `{"request_id": "retry-key", "product_id": "4"}`)
		require.Equal(t, http.StatusConflict, code)
		require.JSONEq(t, `{"error": "service_error", "message": "Request id already used for another request"}`, body)

		code, body = post(t, srv.URL+"/api/wallet/topup", `{"request_id": "retry-key", "units": 1}`)
		require.Equal(t, http.StatusConflict, code, body)

		code, body = get(t, srv.URL+"/api/wallet/balance")
		require.Equal(t, http.StatusOK, code)
		require.JSONEq(t, `{"dov": 700, "div": 25}`, body, "debited once")
	})

	t.Run("buy product errors", func(t *testing.T) {
		srv := startServer(t, purchase.Config{})

		tests := []struct {
			name string
			data string
			code int
		}{
			{"affordable", `{"product_id": "3"}`, http.StatusOK},
			{"unknown product", `{"product_id": "42"}`, http.StatusNotFound},
			{"no product", `{}`, http.StatusBadRequest},
			{"invalid json", `not-json`, http.StatusBadRequest},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				code, body := post(t, srv.URL+"/api/purchases", tc.data)

				require.Equalf(t, tc.code, code, "not expected code. Body: %s", body)
			})
		}
	})

	t.Run("insufficient funds", func(t *testing.T) {
		srv := startServer(t, purchase.Config{})

		// 35 DIV: the hotel takes 30, the sofa needs 25 more
		code, _ := post(t, srv.URL+"/api/purchases", `{"product_id": "3"}`)
		require.Equal(t, http.StatusOK, code)

		code, body := post(t, srv.URL+"/api/purchases", `{"request_id": "sofa", "product_id": "1"}`)

		require.Equal(t, http.StatusPaymentRequired, code)
		require.JSONEq(t, `{"error": "service_error", "message": "Insufficient balance"}`, body)

		code, body = get(t, srv.URL+"/api/purchases/sofa")
		require.Equal(t, http.StatusOK, code)
		var flow flowResponse
		require.NoError(t, json.Unmarshal([]byte(body), &flow))
		require.Equal(t, purchase.StateFailed, flow.State)
		require.Equal(t, "insufficient funds", flow.Error)
	})

	t.Run("top up", func(t *testing.T) {
		srv := startServer(t, purchase.Config{})

		code, body := post(t, srv.URL+"/api/wallet/topup", `{"request_id": "top", "units": 3, "payment_method": "crypto"}`)

		require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", body)
		var flow flowResponse
		require.NoError(t, json.Unmarshal([]byte(body), &flow))
		require.Equal(t, purchase.StateCompleted, flow.State)
		require.Equal(t, "crypto", flow.PaymentMethod)
		require.NotNil(t, flow.Quote)
		require.Equal(t, "60", flow.Quote.Cost.String())
		require.Equal(t, balanceResponse{DOV: 750, DIV: 38}, flow.Receipt.Balance)
	})

	t.Run("top up errors", func(t *testing.T) {
		srv := startServer(t, purchase.Config{})

		tests := []struct {
			name string
			data string
			code int
		}{
			{"zero units", `{"units": 0}`, http.StatusUnprocessableEntity},
			{"missing units", `{}`, http.StatusUnprocessableEntity},
			{"fractional units", `{"units": 1.5}`, http.StatusUnprocessableEntity},
			{"negative units", `{"units": -2}`, http.StatusUnprocessableEntity},
			{"unknown payment method", `{"units": 1, "payment_method": "cash"}`, http.StatusBadRequest},
			{"more than a balance holds", `{"units": 9223372036854775807}`, http.StatusUnprocessableEntity},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				code, body := post(t, srv.URL+"/api/wallet/topup", tc.data)

				require.Equalf(t, tc.code, code, "not expected code. Body: %s", body)
			})
		}

		balance, err := srv.wallet.Balances(t.Context())
		require.NoError(t, err)
		require.Equal(t, int64(35), balance.Purchased, "nothing credited")
	})

	t.Run("unknown purchase", func(t *testing.T) {
		srv := startServer(t, purchase.Config{})

		code, _ := get(t, srv.URL+"/api/purchases/nope")

		require.Equal(t, http.StatusNotFound, code)
	})
}

func Test_ProfileHandlers(t *testing.T) {
	t.Run("profile", func(t *testing.T) {
		srv := startServer(t, purchase.Config{})

		code, body := get(t, srv.URL+"/api/profile")

		require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", body)
		require.JSONEq(t, `{
			"name": "Alex Johnson",
			"email": "alex.johnson@example.com",
			"avatar_url": "https://images.pexels.com/photos/220453/pexels-photo-220453.jpeg",
			"membership": "Gold",
			"balance": {"dov": 750, "div": 35},
			"referral": {"token": "DOV", "reward": 50, "description": "Earn 50 DOV for each friend that joins Grail!"}
		}`, body)
	})

	t.Run("home", func(t *testing.T) {
		srv := startServer(t, purchase.Config{})

		code, body := get(t, srv.URL+"/api/home")

		require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", body)
		var home homeResponse
		require.NoError(t, json.Unmarshal([]byte(body), &home))
		require.Equal(t, "Alex", home.Name)
		require.Equal(t, balanceResponse{DOV: 750, DIV: 35}, home.Balance)
		require.Len(t, home.Featured, 3)
		require.Equal(t, "Modern Sofa", home.Featured[0].Title)
		require.Equal(t, priceResponse{DIV: 10, DOV: 50}, home.Featured[1].Price)
		require.Len(t, home.RecentActivity, 3)
		require.Equal(t, "Referral Bonus", home.RecentActivity[0].Title)
	})

	t.Run("home follows purchases", func(t *testing.T) {
		srv := startServer(t, purchase.Config{})
		code, _ := post(t, srv.URL+"/api/purchases", `{"product_id": "4"}`)
		require.Equal(t, http.StatusOK, code)

		code, body := get(t, srv.URL+"/api/home")

		require.Equal(t, http.StatusOK, code)
		var home homeResponse
		require.NoError(t, json.Unmarshal([]byte(body), &home))
		require.Equal(t, balanceResponse{DOV: 675, DIV: 30}, home.Balance)
		require.Equal(t, "Ceramic Vase", home.RecentActivity[0].Title)
	})
}

func Test_Metrics(t *testing.T) {
	srv := startServer(t, purchase.Config{})

	code, _ := get(t, srv.URL+"/api/products/1")
	require.Equal(t, http.StatusOK, code)

	code, body := get(t, srv.URL+"/metrics")

	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, `grail_http_requests_total{endpoint="GET /api/products/{id}",method="GET",status="200"} 1`)
}
