package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bilalmirza74/fides/internal/cache"
	"github.com/bilalmirza74/fides/internal/config"
	"github.com/bilalmirza74/fides/internal/database"
	"github.com/bilalmirza74/fides/internal/models"
	"github.com/bilalmirza74/fides/internal/service"
	"github.com/bilalmirza74/fides/internal/service/mocks"
	"github.com/bilalmirza74/fides/internal/serviceerror"
)

const testSigningKey = "test-signing-key"

type routerFixture struct {
	engine          *gin.Engine
	mockDB          sqlmock.Sqlmock
	consentRequests *mocks.MockConsentRequestStore
	identities      *mocks.MockIdentityStore
	notices         *mocks.MockNoticeHistoryStore
	preferences     *mocks.MockPreferenceStore
	codes           *cache.VerificationCodeStore
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	sqlDB, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	db := database.NewFromSQLDB(sqlDB, "sqlmock", logger)
	mockDB.MatchExpectationsInOrder(false)

	cfg := &config.Config{
		Security: config.SecurityConfig{
			SubjectIdentityVerificationRequired: true,
			IdentityVerificationAttemptLimit:    3,
			VerificationCodeTTL:                 10 * time.Minute,
			JWTSigningKey:                       testSigningKey,
		},
	}

	f := &routerFixture{
		mockDB:          mockDB,
		consentRequests: new(mocks.MockConsentRequestStore),
		identities:      new(mocks.MockIdentityStore),
		notices:         new(mocks.MockNoticeHistoryStore),
		preferences:     new(mocks.MockPreferenceStore),
		codes:           cache.NewVerificationCodeStore(10*time.Minute, 3, logger),
	}

	preferenceService := service.NewPreferenceService(db, f.notices, f.preferences, logger)
	consentService := service.NewConsentService(
		f.consentRequests, f.identities, f.codes, preferenceService, nil, &cfg.Security, logger)

	f.engine = SetupRouter(cfg, db, consentService, preferenceService, logger)
	return f
}

func signedToken(t *testing.T, roles, scopes []string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":    "user-1",
		"roles":  roles,
		"scopes": scopes,
		"exp":    time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSigningKey))
	require.NoError(t, err)
	return token
}

func doRequest(f *routerFixture, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	f := newRouterFixture(t)

	w := doRequest(f, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestHistoricalPreferences_NoToken(t *testing.T) {
	f := newRouterFixture(t)

	w := doRequest(f, http.MethodGet, "/api/v1/historical-privacy-preferences", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHistoricalPreferences_BadToken(t *testing.T) {
	f := newRouterFixture(t)

	w := doRequest(f, http.MethodGet, "/api/v1/historical-privacy-preferences", "not-a-jwt", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHistoricalPreferences_RoleMatrix(t *testing.T) {
	cases := []struct {
		role     string
		expected int
	}{
		{"owner", http.StatusOK},
		{"contributor", http.StatusOK},
		{"viewer", http.StatusForbidden},
		{"approver", http.StatusForbidden},
		{"viewer_and_approver", http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			f := newRouterFixture(t)
			if tc.expected == http.StatusOK {
				f.preferences.On("SearchHistorical", mock.Anything, mock.Anything).
					Return([]models.HistoricalPreferenceRow{}, 0, nil)
			}

			token := signedToken(t, []string{tc.role}, nil)
			w := doRequest(f, http.MethodGet, "/api/v1/historical-privacy-preferences", token, nil)

			assert.Equal(t, tc.expected, w.Code)
		})
	}
}

func TestHistoricalPreferences_ExplicitScope(t *testing.T) {
	f := newRouterFixture(t)
	f.preferences.On("SearchHistorical", mock.Anything, mock.Anything).
		Return([]models.HistoricalPreferenceRow{}, 0, nil)

	token := signedToken(t, nil, []string{ScopeHistoricalPreferenceRead})
	w := doRequest(f, http.MethodGet, "/api/v1/historical-privacy-preferences", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHistoricalPreferences_InvertedRange(t *testing.T) {
	f := newRouterFixture(t)

	token := signedToken(t, []string{"owner"}, nil)
	path := "/api/v1/historical-privacy-preferences" +
		"?request_timestamp_lt=2021-01-01T00:00:00.000000&request_timestamp_gt=2021-01-02T00:00:00.000000"
	w := doRequest(f, http.MethodGet, path, token, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "must be after")
}

func TestCurrentPreferences_Envelope(t *testing.T) {
	f := newRouterFixture(t)
	f.preferences.On("SearchCurrent", mock.Anything, mock.Anything).
		Return([]models.CurrentPrivacyPreference{{
			CurrentPreferenceID: "CUR-1",
			IdentityID:          "IDN-1",
			NoticeHistoryID:     "NTH-1",
			PreferenceHistoryID: "PRH-1",
			Preference:          "opt_in",
		}}, 1, nil)
	f.notices.On("GetByIDs", mock.Anything, []string{"NTH-1"}).
		Return(map[string]*models.PrivacyNoticeHistory{
			"NTH-1": {NoticeHistoryID: "NTH-1", NoticeID: "NTC-1", Name: "Data Sales", Version: 1.0},
		}, nil)

	token := signedToken(t, []string{"contributor"}, nil)
	w := doRequest(f, http.MethodGet, "/api/v1/current-privacy-preferences", token, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Items []models.CurrentPreferenceResponse `json:"items"`
		Total int                                `json:"total"`
		Page  int                                `json:"page"`
		Size  int                                `json:"size"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Total)
	assert.Equal(t, 1, envelope.Page)
	assert.Equal(t, 50, envelope.Size)
	require.Len(t, envelope.Items, 1)
	assert.Equal(t, "CUR-1", envelope.Items[0].ID)
	require.NotNil(t, envelope.Items[0].PrivacyNoticeHistory)
	assert.Equal(t, "NTC-1", envelope.Items[0].PrivacyNoticeHistory.NoticeID)
}

func TestSavePreferences_UnknownConsentRequest(t *testing.T) {
	f := newRouterFixture(t)
	f.consentRequests.On("GetByID", mock.Anything, "CRQ-missing").
		Return(nil, serviceerror.Annotate(serviceerror.ErrNotFound, "consent request not found: CRQ-missing"))
	f.codes.CacheCode("CRQ-missing", "123456")

	body := map[string]interface{}{
		"code": "123456",
		"preferences": []map[string]string{
			{"privacy_notice_history_id": "NTH-1", "preference": "opt_in"},
		},
	}
	w := doRequest(f, http.MethodPatch, "/api/v1/consent-request/CRQ-missing/privacy-preferences", "", body)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSavePreferences_InvalidPreferenceValue(t *testing.T) {
	f := newRouterFixture(t)

	body := map[string]interface{}{
		"code": "123456",
		"preferences": []map[string]string{
			{"privacy_notice_history_id": "NTH-1", "preference": "maybe"},
		},
	}
	w := doRequest(f, http.MethodPatch, "/api/v1/consent-request/CRQ-1/privacy-preferences", "", body)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSavePreferences_IncorrectCode(t *testing.T) {
	f := newRouterFixture(t)
	f.consentRequests.On("GetByID", mock.Anything, "CRQ-1").
		Return(&models.ConsentRequest{ConsentRequestID: "CRQ-1", IdentityID: "IDN-1"}, nil)
	f.codes.CacheCode("CRQ-1", "123456")

	body := map[string]interface{}{
		"code": "999999",
		"preferences": []map[string]string{
			{"privacy_notice_history_id": "NTH-1", "preference": "opt_in"},
		},
	}
	w := doRequest(f, http.MethodPatch, "/api/v1/consent-request/CRQ-1/privacy-preferences", "", body)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Incorrect identification code")
}

func TestVerifyConsentRequest_MissingCode(t *testing.T) {
	f := newRouterFixture(t)

	w := doRequest(f, http.MethodPost, "/api/v1/consent-request/CRQ-1/privacy-preferences/verify", "", map[string]string{})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestVerifyConsentRequest_ExpiredCode(t *testing.T) {
	f := newRouterFixture(t)
	f.consentRequests.On("GetByID", mock.Anything, "CRQ-1").
		Return(&models.ConsentRequest{ConsentRequestID: "CRQ-1", IdentityID: "IDN-1"}, nil)

	body := map[string]string{"code": "123456"}
	w := doRequest(f, http.MethodPost, "/api/v1/consent-request/CRQ-1/privacy-preferences/verify", "", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestCreateConsentRequest(t *testing.T) {
	f := newRouterFixture(t)
	f.identities.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.consentRequests.On("Create", mock.Anything, mock.Anything).Return(nil)

	body := map[string]interface{}{"identity": map[string]string{"email": "subject@example.com"}}
	w := doRequest(f, http.MethodPost, "/api/v1/consent-request", "", body)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp models.CreateConsentRequestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ConsentRequestID)
	assert.Len(t, f.codes.GetCode(resp.ConsentRequestID), 6)
}
