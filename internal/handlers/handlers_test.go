package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yaveenp/DevSecOps18-FProject/internal/database"
	"github.com/Yaveenp/DevSecOps18-FProject/internal/models"
	"github.com/Yaveenp/DevSecOps18-FProject/internal/service"
)

type fakeStore struct {
	users         map[string]database.UserRow
	nextUserID    int64
	sessions      map[string]database.SessionRow
	holdings      map[int64]database.HoldingRow
	nextHoldingID int64
	snapshots     map[int64]map[string][]byte
	failSnapshot  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     map[string]database.UserRow{},
		sessions:  map[string]database.SessionRow{},
		holdings:  map[int64]database.HoldingRow{},
		snapshots: map[int64]map[string][]byte{},
	}
}

func (f *fakeStore) CreateUser(_ context.Context, username, passwordHash, firstName, lastName string) (int64, error) {
	if _, ok := f.users[username]; ok {
		return 0, database.ErrUsernameTaken
	}
	f.nextUserID++
	f.users[username] = database.UserRow{
		UserID:       f.nextUserID,
		Username:     username,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
	}
	return f.nextUserID, nil
}

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (database.UserRow, error) {
	u, ok := f.users[username]
	if !ok {
		return database.UserRow{}, database.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) TouchLogin(context.Context, int64) error { return nil }

func (f *fakeStore) CreateSession(_ context.Context, userID int64, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	f.sessions[token] = database.SessionRow{Token: token, UserID: userID, ExpiresAt: time.Now().UTC().Add(ttl)}
	return token, nil
}

func (f *fakeStore) GetSession(_ context.Context, token string) (database.SessionRow, error) {
	s, ok := f.sessions[token]
	if !ok || !s.ExpiresAt.After(time.Now().UTC()) {
		delete(f.sessions, token)
		return database.SessionRow{}, database.ErrNotFound
	}
	return s, nil
}

func (f *fakeStore) ExtendSession(_ context.Context, token string, ttl time.Duration) error {
	s, ok := f.sessions[token]
	if !ok {
		return database.ErrNotFound
	}
	s.ExpiresAt = time.Now().UTC().Add(ttl)
	f.sessions[token] = s
	return nil
}

func (f *fakeStore) DeleteSession(_ context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func (f *fakeStore) ListHoldings(_ context.Context, userID int64) ([]database.HoldingRow, error) {
	res := []database.HoldingRow{}
	for _, h := range f.holdings {
		if h.UserID == userID {
			res = append(res, h)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (f *fakeStore) AddHolding(_ context.Context, userID int64, ticker string, quantity, buyPrice decimal.Decimal) (database.HoldingRow, error) {
	f.nextHoldingID++
	row := database.HoldingRow{
		ID:       f.nextHoldingID,
		UserID:   userID,
		Ticker:   ticker,
		Quantity: quantity,
		BuyPrice: buyPrice,
	}
	f.holdings[row.ID] = row
	return row, nil
}

func (f *fakeStore) UpdateHolding(_ context.Context, userID, id int64, quantity, buyPrice *decimal.Decimal) (database.HoldingRow, error) {
	row, ok := f.holdings[id]
	if !ok || row.UserID != userID {
		return database.HoldingRow{}, database.ErrNotFound
	}
	if quantity != nil {
		row.Quantity = *quantity
	}
	if buyPrice != nil {
		row.BuyPrice = *buyPrice
	}
	f.holdings[id] = row
	return row, nil
}

func (f *fakeStore) DeleteHolding(_ context.Context, userID, id int64) (string, error) {
	row, ok := f.holdings[id]
	if !ok || row.UserID != userID {
		return "", database.ErrNotFound
	}
	delete(f.holdings, id)
	return row.Ticker, nil
}

func (f *fakeStore) UpdateHoldingQuote(_ context.Context, id int64, price, value, gain decimal.Decimal, changePercent, companyName string) error {
	row, ok := f.holdings[id]
	if !ok {
		return database.ErrNotFound
	}
	row.CurrentPrice = price
	row.Value = value
	row.Gain = gain
	row.ChangePercent = changePercent
	row.CompanyName = companyName
	f.holdings[id] = row
	return nil
}

func (f *fakeStore) SaveSnapshot(_ context.Context, userID int64, date time.Time, summary []byte) error {
	if f.failSnapshot {
		return errors.New("snapshot store down")
	}
	if f.snapshots[userID] == nil {
		f.snapshots[userID] = map[string][]byte{}
	}
	f.snapshots[userID][date.UTC().Format("2006-01-02")] = summary
	return nil
}

func (f *fakeStore) ListSnapshots(_ context.Context, userID int64) ([]database.SnapshotRow, error) {
	dates := []string{}
	for d := range f.snapshots[userID] {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	res := []database.SnapshotRow{}
	for _, d := range dates {
		day, _ := time.Parse("2006-01-02", d)
		res = append(res, database.SnapshotRow{UserID: userID, SnapshotDate: day, Summary: f.snapshots[userID][d]})
	}
	return res, nil
}

type stubQuotes struct {
	quotes map[string]models.Quote
	errs   map[string]error
}

func (s *stubQuotes) GetQuote(_ context.Context, ticker string) (models.Quote, error) {
	if err, ok := s.errs[ticker]; ok {
		return models.Quote{}, err
	}
	q, ok := s.quotes[ticker]
	if !ok {
		return models.Quote{}, &service.APIError{StatusCode: http.StatusNotFound, Message: "no data found for ticker", Symbol: ticker}
	}
	return q, nil
}

func (s *stubQuotes) TopGainers(context.Context) ([]models.MarketMover, error) {
	return []models.MarketMover{{Ticker: "ABCD", Price: 4.36, ChangeAmount: 1.82, ChangePercentage: "71.65%", Volume: 1000}}, nil
}

func newTestServer(t *testing.T) (*gin.Engine, *fakeStore, *stubQuotes) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	store := newFakeStore()
	quotes := &stubQuotes{quotes: map[string]models.Quote{}, errs: map[string]error{}}
	h := NewHandler(store, quotes, service.NewEnricher(quotes, log), service.NewAggregator(log), log)

	r := gin.New()
	r.POST("/api/portfolio/signup", h.Signup)
	r.POST("/api/portfolio/signin", h.Signin)
	r.POST("/api/portfolio/logout", h.Logout)
	auth := r.Group("/api", h.RequireSession())
	auth.GET("/portfolio", h.ListPortfolio)
	auth.POST("/portfolio", h.AddInvestment)
	auth.PUT("/portfolio/:id", h.UpdateInvestment)
	auth.DELETE("/portfolio/:id", h.DeleteInvestment)
	auth.GET("/portfolio/analytics", h.GetAnalytics)
	auth.GET("/portfolio/analytics/history", h.GetAnalyticsHistory)
	auth.GET("/stocks/:ticker", h.GetTicker)
	auth.GET("/stocks/market/trends", h.GetMarketTrends)
	return r, store, quotes
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signupAndSignin(t *testing.T, r *gin.Engine, username string) *http.Cookie {
	t.Helper()
	w := doRequest(t, r, http.MethodPost, "/api/portfolio/signup", gin.H{
		"username": username, "password": "secret1", "first_name": "test", "last_name": "user",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/portfolio/signin", gin.H{
		"username": username, "password": "secret1",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, c := range w.Result().Cookies() {
		if c.Name == "session_token" && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie set on signin")
	return nil
}

func TestAuthFlow(t *testing.T) {
	r, _, _ := newTestServer(t)

	// protected surface requires a session
	w := doRequest(t, r, http.MethodGet, "/api/portfolio", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	cookie := signupAndSignin(t, r, "chenh")

	// duplicate username is rejected
	w = doRequest(t, r, http.MethodPost, "/api/portfolio/signup", gin.H{
		"username": "chenh", "password": "another", "first_name": "a", "last_name": "b",
	}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// wrong password
	w = doRequest(t, r, http.MethodPost, "/api/portfolio/signin", gin.H{
		"username": "chenh", "password": "wrongpass",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// valid session gets through
	w = doRequest(t, r, http.MethodGet, "/api/portfolio", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	// logout invalidates the session
	w = doRequest(t, r, http.MethodPost, "/api/portfolio/logout", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, r, http.MethodGet, "/api/portfolio", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireSession_SlidesExpiry(t *testing.T) {
	r, store, _ := newTestServer(t)
	cookie := signupAndSignin(t, r, "slider")

	// session is one second from dying; an authenticated request renews it
	sess := store.sessions[cookie.Value]
	sess.ExpiresAt = time.Now().UTC().Add(time.Second)
	store.sessions[cookie.Value] = sess

	w := doRequest(t, r, http.MethodGet, "/api/portfolio", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, store.sessions[cookie.Value].ExpiresAt.After(time.Now().UTC().Add(10*time.Minute)),
		"expected expiry pushed forward by the full TTL")
}

func TestSignup_RejectsMalformedCredentials(t *testing.T) {
	r, _, _ := newTestServer(t)

	for _, body := range []gin.H{
		{"username": "ab", "password": "secret1"},        // too short
		{"username": "chenh", "password": "ab"},          // too short
		{"username": "чен", "password": "secret1"},       // non-ASCII
		{"username": "chenh", "password": "пароль-long"}, // non-ASCII
	} {
		w := doRequest(t, r, http.MethodPost, "/api/portfolio/signup", body, nil)
		assert.Equal(t, http.StatusForbidden, w.Code, "body %v", body)
	}
}

func TestAddInvestment_CoercesStringNumbers(t *testing.T) {
	r, store, _ := newTestServer(t)
	cookie := signupAndSignin(t, r, "adder")

	w := doRequest(t, r, http.MethodPost, "/api/portfolio", gin.H{
		"ticker": "aapl", "quantity": "10", "buy_price": "150.50",
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message string         `json:"message"`
		Holding models.Holding `json:"holding"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AAPL added.", resp.Message)
	assert.Equal(t, "AAPL", resp.Holding.Ticker)
	assert.Equal(t, 10.0, resp.Holding.Quantity)
	assert.Equal(t, 150.5, resp.Holding.BuyPrice)

	row := store.holdings[resp.Holding.ID]
	assert.True(t, row.Quantity.Equal(decimal.NewFromInt(10)))
}

func TestAddInvestment_NewLotPerAdd(t *testing.T) {
	r, store, _ := newTestServer(t)
	cookie := signupAndSignin(t, r, "rebuyer")

	for _, price := range []float64{100, 200} {
		w := doRequest(t, r, http.MethodPost, "/api/portfolio", gin.H{
			"ticker": "AAPL", "quantity": 1, "buy_price": price,
		}, cookie)
		require.Equal(t, http.StatusOK, w.Code)
	}

	rows, err := store.ListHoldings(context.Background(), 1)
	require.NoError(t, err)
	// re-buys append lots, cost bases are never averaged
	require.Len(t, rows, 2)
	assert.True(t, rows[0].BuyPrice.Equal(decimal.NewFromInt(100)))
	assert.True(t, rows[1].BuyPrice.Equal(decimal.NewFromInt(200)))
}

func TestAddInvestment_Validation(t *testing.T) {
	r, _, _ := newTestServer(t)
	cookie := signupAndSignin(t, r, "validator")

	for _, body := range []gin.H{
		{"ticker": "", "quantity": 1, "buy_price": 1},
		{"ticker": "AAPL", "buy_price": 1},                        // missing quantity
		{"ticker": "AAPL", "quantity": -1, "buy_price": 1},        // negative
		{"ticker": "AAPL", "quantity": 1, "buy_price": -0.5},      // negative
		{"ticker": "AAPL", "quantity": "ten", "buy_price": "1.0"},  // non-numeric
		{"ticker": "AAPL", "quantity": "NaN", "buy_price": "1.0"},  // non-finite
		{"ticker": "AAPL", "quantity": 1, "buy_price": "Inf"},      // non-finite
		{"ticker": "AAPL", "quantity": "-Inf", "buy_price": "1.0"}, // non-finite
	} {
		w := doRequest(t, r, http.MethodPost, "/api/portfolio", body, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %v", body)
	}
}

func TestUpdateAndDeleteInvestment(t *testing.T) {
	r, store, _ := newTestServer(t)
	cookie := signupAndSignin(t, r, "updater")

	w := doRequest(t, r, http.MethodPost, "/api/portfolio", gin.H{
		"ticker": "MSFT", "quantity": 3, "buy_price": 300,
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodPut, "/api/portfolio/1", gin.H{"quantity": 5}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, store.holdings[1].Quantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, store.holdings[1].BuyPrice.Equal(decimal.NewFromInt(300)))

	w = doRequest(t, r, http.MethodPut, "/api/portfolio/99", gin.H{"quantity": 5}, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, r, http.MethodPut, "/api/portfolio/1", gin.H{"quantity": "NaN"}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPut, "/api/portfolio/1", gin.H{}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodDelete, "/api/portfolio/1", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "MSFT removed.")

	w = doRequest(t, r, http.MethodDelete, "/api/portfolio/1", nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListPortfolio_EnrichesAndTotals(t *testing.T) {
	r, store, quotes := newTestServer(t)
	cookie := signupAndSignin(t, r, "lister")

	quotes.quotes["AAPL"] = models.Quote{Symbol: "AAPL", Price: 150, ChangePercent: "1.00%"}
	quotes.quotes["MSFT"] = models.Quote{Symbol: "MSFT", Price: 300, ChangePercent: "-0.50%"}

	for _, body := range []gin.H{
		{"ticker": "AAPL", "quantity": 10, "buy_price": 100},
		{"ticker": "MSFT", "quantity": 2, "buy_price": 350},
	} {
		w := doRequest(t, r, http.MethodPost, "/api/portfolio", body, cookie)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doRequest(t, r, http.MethodGet, "/api/portfolio", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Holdings        []models.Holding `json:"holdings"`
		TotalValue      float64          `json:"total_value"`
		TotalInvestment float64          `json:"total_investment"`
		TotalGainLoss   float64          `json:"total_gain_loss"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Holdings, 2)
	assert.Equal(t, 1500.0, resp.Holdings[0].Value)
	assert.Equal(t, 500.0, resp.Holdings[0].Gain)
	assert.Equal(t, 2100.0, resp.TotalValue)
	assert.Equal(t, 1700.0, resp.TotalInvestment)
	assert.Equal(t, 400.0, resp.TotalGainLoss)

	// enrichment wrote the quote cache back
	assert.True(t, store.holdings[1].CurrentPrice.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, "1.00%", store.holdings[1].ChangePercent)
}

func TestGetAnalytics_SummaryAndSnapshot(t *testing.T) {
	r, store, quotes := newTestServer(t)
	cookie := signupAndSignin(t, r, "analyst")

	quotes.quotes["AAPL"] = models.Quote{Symbol: "AAPL", Price: 150, ChangePercent: "2.50%"}
	quotes.quotes["MSFT"] = models.Quote{Symbol: "MSFT", Price: 300, ChangePercent: "-0.50%"}
	for _, body := range []gin.H{
		{"ticker": "AAPL", "quantity": 10, "buy_price": 100}, // value 1500, gain 500
		{"ticker": "MSFT", "quantity": 2, "buy_price": 350},  // value 600, gain -100
	} {
		w := doRequest(t, r, http.MethodPost, "/api/portfolio", body, cookie)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doRequest(t, r, http.MethodGet, "/api/portfolio/analytics", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var sum models.AnalyticsSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
	assert.Equal(t, 2, sum.PortfolioOverview.TotalStocks)
	assert.Equal(t, 2100.0, sum.PortfolioOverview.TotalValue)
	assert.Equal(t, 1700.0, sum.PortfolioOverview.TotalInvestment)
	assert.Equal(t, 400.0, sum.PortfolioOverview.TotalGainLoss)
	assert.Equal(t, "AAPL", sum.PerformanceMetrics.BestPerformer.Ticker)
	assert.Equal(t, "MSFT", sum.PerformanceMetrics.WorstPerformer.Ticker)
	assert.Equal(t, "High", sum.RiskMetrics.ConcentrationRisk)

	// the snapshot was persisted for today
	today := time.Now().UTC().Format("2006-01-02")
	require.Contains(t, store.snapshots[1], today)

	// and the history endpoint reads it back
	w = doRequest(t, r, http.MethodGet, "/api/portfolio/analytics/history", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var hist struct {
		Snapshots []models.AnalyticsSnapshot `json:"snapshots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hist))
	require.Len(t, hist.Snapshots, 1)
	assert.Equal(t, today, hist.Snapshots[0].Date)
	assert.Equal(t, 2100.0, hist.Snapshots[0].Summary.PortfolioOverview.TotalValue)
}

func TestGetAnalytics_EmptyPortfolioSentinel(t *testing.T) {
	r, _, _ := newTestServer(t)
	cookie := signupAndSignin(t, r, "empty")

	w := doRequest(t, r, http.MethodGet, "/api/portfolio/analytics", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var sum models.AnalyticsSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
	assert.Equal(t, "No portfolio data available", sum.Error)
	assert.Equal(t, 0, sum.PortfolioOverview.TotalStocks)
	assert.Equal(t, 0.0, sum.PortfolioOverview.TotalValue)
}

func TestGetAnalytics_SnapshotFailureIsNonFatal(t *testing.T) {
	r, store, quotes := newTestServer(t)
	cookie := signupAndSignin(t, r, "unlucky")
	store.failSnapshot = true

	quotes.quotes["AAPL"] = models.Quote{Symbol: "AAPL", Price: 150, ChangePercent: "1.00%"}
	w := doRequest(t, r, http.MethodPost, "/api/portfolio", gin.H{
		"ticker": "AAPL", "quantity": 1, "buy_price": 100,
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/portfolio/analytics", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var sum models.AnalyticsSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
	assert.Equal(t, 150.0, sum.PortfolioOverview.TotalValue)
	assert.Empty(t, store.snapshots[1])
}

func TestGetTicker(t *testing.T) {
	r, _, quotes := newTestServer(t)
	cookie := signupAndSignin(t, r, "quoter")

	quotes.quotes["IBM"] = models.Quote{Symbol: "IBM", Price: 166.55, ChangePercent: "-1.25%"}

	w := doRequest(t, r, http.MethodGet, "/api/stocks/ibm", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var quote models.Quote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
	assert.Equal(t, "IBM", quote.Symbol)

	w = doRequest(t, r, http.MethodGet, "/api/stocks/NOPE", nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No data found for ticker.")

	quotes.errs["DOWN"] = errors.New("connection refused")
	w = doRequest(t, r, http.MethodGet, "/api/stocks/DOWN", nil, cookie)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGetMarketTrends(t *testing.T) {
	r, _, _ := newTestServer(t)
	cookie := signupAndSignin(t, r, "trender")

	w := doRequest(t, r, http.MethodGet, "/api/stocks/market/trends", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		TopGainers []models.MarketMover `json:"top_gainers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.TopGainers, 1)
	assert.Equal(t, "ABCD", resp.TopGainers[0].Ticker)
}

func TestUsersAreIsolated(t *testing.T) {
	r, _, quotes := newTestServer(t)
	quotes.quotes["AAPL"] = models.Quote{Symbol: "AAPL", Price: 150, ChangePercent: "1.00%"}

	alice := signupAndSignin(t, r, "alice")
	bob := signupAndSignin(t, r, "bobby")

	w := doRequest(t, r, http.MethodPost, "/api/portfolio", gin.H{
		"ticker": "AAPL", "quantity": 1, "buy_price": 100,
	}, alice)
	require.Equal(t, http.StatusOK, w.Code)

	// bob cannot see or mutate alice's holding
	w = doRequest(t, r, http.MethodGet, "/api/portfolio", nil, bob)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Holdings []models.Holding `json:"holdings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Holdings)

	w = doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/portfolio/%d", 1), nil, bob)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
