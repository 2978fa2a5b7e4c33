package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/rental_fx/internal/apperrors"
	"github.com/SscSPs/rental_fx/internal/core/domain"
	portssvc "github.com/SscSPs/rental_fx/internal/core/ports/services"
	"github.com/SscSPs/rental_fx/internal/core/services"
	"github.com/SscSPs/rental_fx/internal/dto"
	"github.com/SscSPs/rental_fx/internal/handlers"
	"github.com/SscSPs/rental_fx/internal/middleware"
	"github.com/SscSPs/rental_fx/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ExchangeRateService ---
type MockExchangeRateService struct {
	mock.Mock
}

func (m *MockExchangeRateService) GetAllRates(ctx context.Context) ([]domain.ExchangeRateRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRateRecord), args.Error(1)
}

func (m *MockExchangeRateService) GetRate(ctx context.Context, currency domain.CurrencyCode) (*domain.ExchangeRateRecord, error) {
	args := m.Called(ctx, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRateRecord), args.Error(1)
}

func (m *MockExchangeRateService) GetLatestFetchedAt(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockExchangeRateService) GetRateHistory(ctx context.Context, currency domain.CurrencyCode, limit int, nextToken *string) (*domain.RateHistoryPage, error) {
	args := m.Called(ctx, currency, limit, nextToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateHistoryPage), args.Error(1)
}

func (m *MockExchangeRateService) GetRatesSnapshot(ctx context.Context) (domain.RatesSnapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.RatesSnapshot), args.Error(1)
}

func (m *MockExchangeRateService) RefreshRates(ctx context.Context) ([]domain.ExchangeRateRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRateRecord), args.Error(1)
}

func (m *MockExchangeRateService) PruneHistory(ctx context.Context, retention time.Duration) (int64, error) {
	args := m.Called(ctx, retention)
	return args.Get(0).(int64), args.Error(1)
}

var _ portssvc.ExchangeRateSvcFacade = (*MockExchangeRateService)(nil)

// --- Mock RateCache ---
type MockRateCache struct {
	mock.Mock
}

func (m *MockRateCache) GetRates(ctx context.Context) domain.RatesSnapshot {
	args := m.Called(ctx)
	return args.Get(0).(domain.RatesSnapshot)
}

// --- Mock ConversionService ---
type MockConversionService struct {
	mock.Mock
}

func (m *MockConversionService) Convert(ctx context.Context, amount decimal.Decimal, from, to domain.CurrencyCode, rates *domain.RatesSnapshot) (decimal.Decimal, error) {
	args := m.Called(ctx, amount, from, to, rates)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockConversionService) Quote(ctx context.Context, amount decimal.Decimal, from, to domain.CurrencyCode) (*domain.ConversionQuote, error) {
	args := m.Called(ctx, amount, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConversionQuote), args.Error(1)
}

// --- Mock Refresher ---
type MockRefresher struct {
	mock.Mock
}

func (m *MockRefresher) Trigger(ctx context.Context) ([]domain.ExchangeRateRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRateRecord), args.Error(1)
}

// --- Test Suite ---
type HandlersTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockRates      *MockExchangeRateService
	mockCache      *MockRateCache
	mockConversion *MockConversionService
	mockRefresher  *MockRefresher
	jwtSecret      string
	fetchedAt      time.Time
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.fetchedAt = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	suite.mockRates = new(MockExchangeRateService)
	suite.mockCache = new(MockRateCache)
	suite.mockConversion = new(MockConversionService)
	suite.mockRefresher = new(MockRefresher)

	cfg := &config.Config{
		IsProduction:       true,
		JWTSecret:          suite.jwtSecret,
		RateLimit:          "1000-M",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}
	container := &portssvc.ServiceContainer{
		Currency:     services.NewCurrencyService(),
		ExchangeRate: suite.mockRates,
		RateCache:    suite.mockCache,
		Conversion:   suite.mockConversion,
		Refresher:    suite.mockRefresher,
	}

	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	err := handlers.RegisterRoutes(suite.router, cfg, container, prometheus.NewRegistry())
	suite.Require().NoError(err)
}

func (suite *HandlersTestSuite) generateTestToken(subject string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "fx-test",
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlersTestSuite) do(method, url, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) record(code domain.CurrencyCode, rate string) domain.ExchangeRateRecord {
	return domain.NewExchangeRateRecord(code, decimal.RequireFromString(rate), services.DefaultMarginPercent, suite.fetchedAt)
}

// --- Test Cases ---

func (suite *HandlersTestSuite) TestHealthAndMetrics() {
	w := suite.do(http.MethodGet, "/health", "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
	suite.NotEmpty(w.Header().Get("X-Request-ID"))

	w = suite.do(http.MethodGet, "/", "")
	suite.Equal(http.StatusOK, w.Code)
	var home map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &home))
	suite.Equal("KRW", home["base"])
	suite.Len(home["currencies"], 5)

	w = suite.do(http.MethodGet, "/metrics", "")
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlersTestSuite) TestListExchangeRates() {
	records := []domain.ExchangeRateRecord{suite.record(domain.USD, "0.00074"), suite.record(domain.JPY, "0.11")}
	suite.mockRates.On("GetAllRates", mock.Anything).Return(records, nil).Once()
	suite.mockRates.On("GetLatestFetchedAt", mock.Anything).Return(&suite.fetchedAt, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/exchange-rates", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.NotEmpty(w.Header().Get("X-RateLimit-Limit"))
	var body dto.ListExchangeRatesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("KRW", body.Base)
	suite.Require().NotNil(body.LatestFetchedAt)
	suite.True(suite.fetchedAt.Equal(*body.LatestFetchedAt))
	suite.Require().Len(body.Rates, 2)
	suite.Equal("USD", body.Rates[0].Currency)
	suite.True(decimal.RequireFromString("0.0007215").Equal(body.Rates[0].DisplayRate))
}

func (suite *HandlersTestSuite) TestListExchangeRates_ServiceError() {
	suite.mockRates.On("GetAllRates", mock.Anything).Return(nil, fmt.Errorf("pool closed")).Once()

	w := suite.do(http.MethodGet, "/api/v1/exchange-rates", "")

	suite.Equal(http.StatusInternalServerError, w.Code)
}

func (suite *HandlersTestSuite) TestGetExchangeRate() {
	usd := suite.record(domain.USD, "0.00074")
	suite.mockRates.On("GetRate", mock.Anything, domain.USD).Return(&usd, nil).Once()
	suite.mockRates.On("GetRate", mock.Anything, domain.EUR).Return(nil, apperrors.NewNotFoundError("no rate for EUR")).Once()
	suite.mockRates.On("GetRate", mock.Anything, domain.KRW).Return(nil, apperrors.NewValidationError("KRW is the base currency")).Once()

	w := suite.do(http.MethodGet, "/api/v1/exchange-rates/usd", "")
	suite.Equal(http.StatusOK, w.Code)
	var body dto.ExchangeRateResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("USD", body.Currency)
	suite.True(decimal.RequireFromString("1351.3514").Equal(body.InverseRate))

	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/v1/exchange-rates/EUR", "").Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/exchange-rates/KRW", "").Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/exchange-rates/GBP", "").Code)

	suite.mockRates.AssertExpectations(suite.T())
	suite.mockRates.AssertNotCalled(suite.T(), "GetRate", mock.Anything, domain.CurrencyCode("GBP"))
}

func (suite *HandlersTestSuite) TestListExchangeRateHistory() {
	next := "cursor-2"
	page := &domain.RateHistoryPage{
		Currency: domain.USD,
		Entries: []domain.ExchangeRateHistoryEntry{
			{HistoryID: "h-2", Currency: domain.USD, Rate: decimal.RequireFromString("0.00074"), DisplayRate: decimal.RequireFromString("0.0007215"), FetchedAt: suite.fetchedAt},
		},
		NextToken: &next,
	}
	suite.mockRates.On("GetRateHistory", mock.Anything, domain.USD, 1, (*string)(nil)).Return(page, nil).Once()
	token := "cursor-1"
	suite.mockRates.On("GetRateHistory", mock.Anything, domain.USD, 0, &token).
		Return(&domain.RateHistoryPage{Currency: domain.USD, Entries: []domain.ExchangeRateHistoryEntry{}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/exchange-rates/usd/history?limit=1", "")
	suite.Equal(http.StatusOK, w.Code)
	var body dto.ListRateHistoryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("USD", body.Currency)
	suite.Require().Len(body.Entries, 1)
	suite.Equal("h-2", body.Entries[0].HistoryID)
	suite.Require().NotNil(body.NextToken)
	suite.Equal(next, *body.NextToken)

	w = suite.do(http.MethodGet, "/api/v1/exchange-rates/USD/history?nextToken=cursor-1", "")
	suite.Equal(http.StatusOK, w.Code)
	body = dto.ListRateHistoryResponse{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Empty(body.Entries)
	suite.Nil(body.NextToken)

	suite.mockRates.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestListExchangeRateHistory_BadRequests() {
	suite.mockRates.On("GetRateHistory", mock.Anything, domain.JPY, 0, mock.Anything).
		Return(nil, apperrors.NewAppError(http.StatusBadRequest, "invalid nextToken", apperrors.ErrValidation)).Once()
	suite.mockRates.On("GetRateHistory", mock.Anything, domain.EUR, 0, (*string)(nil)).
		Return(nil, fmt.Errorf("pool closed")).Once()

	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/exchange-rates/GBP/history", "").Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/exchange-rates/USD/history?limit=500", "").Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/exchange-rates/JPY/history?nextToken=%21%21", "").Code)
	suite.Equal(http.StatusInternalServerError, suite.do(http.MethodGet, "/api/v1/exchange-rates/EUR/history", "").Code)

	suite.mockRates.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestGetRatesSnapshot() {
	snap := domain.RatesSnapshot{
		Base:      domain.KRW,
		Rates:     map[domain.CurrencyCode]decimal.Decimal{domain.USD: decimal.RequireFromString("0.0007215")},
		UpdatedAt: suite.fetchedAt,
		CachedAt:  suite.fetchedAt.Add(time.Minute),
		Source:    domain.RateSourceStaleCache,
	}
	suite.mockCache.On("GetRates", mock.Anything).Return(snap).Once()

	w := suite.do(http.MethodGet, "/api/v1/exchange-rates/snapshot", "")

	suite.Equal(http.StatusOK, w.Code)
	var body dto.RatesSnapshotResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("stale-cache", body.Source)
	suite.True(decimal.RequireFromString("0.0007215").Equal(body.Rates["USD"]))
	suite.mockRates.AssertNotCalled(suite.T(), "GetRate", mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestGetRatesSnapshot_BootstrapHasNullTimestamps() {
	suite.mockCache.On("GetRates", mock.Anything).Return(domain.BootstrapSnapshot()).Once()

	w := suite.do(http.MethodGet, "/api/v1/exchange-rates/snapshot", "")

	suite.Equal(http.StatusOK, w.Code)
	var body map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("bootstrap", body["source"])
	suite.Nil(body["updatedAt"])
	suite.Nil(body["cachedAt"])
}

func (suite *HandlersTestSuite) TestRefresh_RequiresToken() {
	w := suite.do(http.MethodPost, "/api/v1/exchange-rates/refresh", "")

	suite.Equal(http.StatusUnauthorized, w.Code)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "ops",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	signed, err := expired.SignedString([]byte(suite.jwtSecret))
	suite.Require().NoError(err)
	w = suite.do(http.MethodPost, "/api/v1/exchange-rates/refresh", signed)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "expired")

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "ops"})
	signed, err = noExpiry.SignedString([]byte(suite.jwtSecret))
	suite.Require().NoError(err)
	suite.Equal(http.StatusUnauthorized, suite.do(http.MethodPost, "/api/v1/exchange-rates/refresh", signed).Code)

	wrongKey := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "ops",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err = wrongKey.SignedString([]byte("some-other-secret"))
	suite.Require().NoError(err)
	suite.Equal(http.StatusUnauthorized, suite.do(http.MethodPost, "/api/v1/exchange-rates/refresh", signed).Code)

	suite.mockRefresher.AssertNotCalled(suite.T(), "Trigger", mock.Anything)
}

func (suite *HandlersTestSuite) TestRefresh_Success() {
	records := []domain.ExchangeRateRecord{
		suite.record(domain.USD, "0.00074"), suite.record(domain.JPY, "0.11"),
		suite.record(domain.CNY, "0.0053"), suite.record(domain.EUR, "0.00068"),
	}
	suite.mockRefresher.On("Trigger", mock.Anything).Return(records, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/exchange-rates/refresh", suite.generateTestToken("ops"))

	suite.Equal(http.StatusOK, w.Code)
	var body dto.RefreshRatesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(4, body.Updated)
	suite.Empty(body.Error)
}

func (suite *HandlersTestSuite) TestRefresh_PartialFailureStillOK() {
	records := []domain.ExchangeRateRecord{suite.record(domain.JPY, "0.11")}
	suite.mockRefresher.On("Trigger", mock.Anything).Return(records, fmt.Errorf("upsert USD: connection reset")).Once()

	w := suite.do(http.MethodPost, "/api/v1/exchange-rates/refresh", suite.generateTestToken("ops"))

	suite.Equal(http.StatusOK, w.Code)
	var body dto.RefreshRatesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(1, body.Updated)
	suite.Contains(body.Error, "upsert USD")
}

func (suite *HandlersTestSuite) TestRefresh_Errors() {
	token := suite.generateTestToken("ops")

	suite.mockRefresher.On("Trigger", mock.Anything).Return(nil, apperrors.ErrRefreshInProgress).Once()
	suite.Equal(http.StatusConflict, suite.do(http.MethodPost, "/api/v1/exchange-rates/refresh", token).Code)

	suite.mockRefresher.On("Trigger", mock.Anything).
		Return(nil, fmt.Errorf("failed to refresh: %w", apperrors.ErrProviderUnavailable)).Once()
	suite.Equal(http.StatusBadGateway, suite.do(http.MethodPost, "/api/v1/exchange-rates/refresh", token).Code)

	suite.mockRefresher.On("Trigger", mock.Anything).Return(nil, fmt.Errorf("boom")).Once()
	suite.Equal(http.StatusInternalServerError, suite.do(http.MethodPost, "/api/v1/exchange-rates/refresh", token).Code)
}

func (suite *HandlersTestSuite) TestConvert() {
	quote := &domain.ConversionQuote{
		Amount:    decimal.RequireFromString("1500000"),
		From:      domain.KRW,
		To:        domain.USD,
		Result:    decimal.RequireFromString("1082.25"),
		Formatted: "$1,082.25",
		Source:    domain.RateSourceFreshCache,
	}
	suite.mockConversion.On("Quote", mock.Anything, mock.MatchedBy(func(a decimal.Decimal) bool {
		return a.Equal(decimal.NewFromInt(1500000))
	}), domain.KRW, domain.USD).Return(quote, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/convert?amount=1500000&from=krw&to=USD", "")

	suite.Equal(http.StatusOK, w.Code)
	var body dto.ConversionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("$1,082.25", body.Formatted)
	suite.Equal("fresh-cache", body.Source)
	suite.Nil(body.RatesUpdatedAt)
	suite.mockConversion.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestConvert_BadRequests() {
	cases := []string{
		"/api/v1/convert?from=KRW&to=USD",
		"/api/v1/convert?amount=abc&from=KRW&to=USD",
		"/api/v1/convert?amount=10&from=GBP&to=USD",
		"/api/v1/convert?amount=10&from=KRW",
	}
	for _, url := range cases {
		suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, url, "").Code, url)
	}
	suite.mockConversion.AssertNotCalled(suite.T(), "Quote", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestCurrencies() {
	w := suite.do(http.MethodGet, "/api/v1/currencies", "")
	suite.Equal(http.StatusOK, w.Code)
	var list []dto.CurrencyResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &list))
	suite.Len(list, 5)
	suite.Equal("KRW", list[0].Code)
	suite.True(list[0].IsBase)

	w = suite.do(http.MethodGet, "/api/v1/currencies/eur", "")
	suite.Equal(http.StatusOK, w.Code)
	var eur dto.CurrencyResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &eur))
	suite.Equal("€", eur.Symbol)
	suite.True(eur.SymbolAfter)
	suite.False(eur.IsBase)

	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/v1/currencies/GBP", "").Code)
}

// --- Run Test Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
