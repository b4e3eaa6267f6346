package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/jleignadier/nueva-generacion-sub000/internal/constants"
	"github.com/jleignadier/nueva-generacion-sub000/internal/database"
	"github.com/jleignadier/nueva-generacion-sub000/internal/middleware"
	"github.com/jleignadier/nueva-generacion-sub000/internal/models"
	"github.com/jleignadier/nueva-generacion-sub000/internal/repository"
	"github.com/jleignadier/nueva-generacion-sub000/internal/services"
	"github.com/jleignadier/nueva-generacion-sub000/internal/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testQRSecret = "test-qr-secret"

type eventTestEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	authService *services.AuthService
}

func setupEventTestEnv(t *testing.T) eventTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Event{},
		&models.Registration{},
		&models.Attendance{},
		&models.UserPoints{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	authService := services.NewAuthService(userRepo, nil)
	eventService := services.NewEventService(eventRepo, userRepo, nil)

	authHandler := NewAuthHandler(authService)
	eventHandler := NewEventHandler(eventService, testQRSecret)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	r.POST("/api/auth/login", authHandler.Login)

	events := r.Group("/api/events")
	events.Use(middleware.RequireAuth())
	{
		events.POST("/:id/register", middleware.RequireEvent(), eventHandler.Register)
		events.POST("/:id/checkin", middleware.RequireEvent(), eventHandler.CheckIn)
		events.GET("/:id/status", middleware.RequireEvent(), eventHandler.GetStatus)
		events.GET("/:id/attendees", middleware.RequireAdmin(), middleware.RequireEvent(), eventHandler.ListAttendees)
		events.GET("/:id/calendar", middleware.RequireEvent(), eventHandler.DownloadCalendar)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return eventTestEnv{
		db:          db,
		router:      r,
		authService: authService,
	}
}

func (env eventTestEnv) createUser(t *testing.T, email string, role models.UserRole) *models.User {
	t.Helper()

	user, err := env.authService.Signup(services.SignupInput{
		Email:       email,
		Password:    "password123",
		DisplayName: email,
	})
	require.NoError(t, err)

	if role != models.RoleVolunteer {
		require.NoError(t, env.db.Model(user).Update("role", role).Error)
	}
	return user
}

func (env eventTestEnv) login(t *testing.T, email string) []*http.Cookie {
	t.Helper()

	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	return w.Result().Cookies()
}

func (env eventTestEnv) createEvent(t *testing.T, creatorID uint64, points int64) *models.Event {
	t.Helper()

	event := &models.Event{
		Title:          "Beach Cleanup",
		StartsAt:       time.Now().Add(time.Hour),
		EndsAt:         time.Now().Add(4 * time.Hour),
		PointsEarned:   points,
		VolunteerHours: 4,
		CreatedByID:    creatorID,
	}
	require.NoError(t, env.db.Create(event).Error)
	return event
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, payload any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestEventHandler_RegisterIsIdempotent(t *testing.T) {
	env := setupEventTestEnv(t)
	user := env.createUser(t, "volunteer@example.com", models.RoleVolunteer)
	event := env.createEvent(t, user.ID, 50)
	cookies := env.login(t, user.Email)

	path := fmt.Sprintf("/api/events/%d/register", event.ID)

	w := doJSON(t, env.router, http.MethodPost, path, nil, cookies)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, env.router, http.MethodPost, path, nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, true, resp["already_registered"])
}

func TestEventHandler_RegisterRequiresAuth(t *testing.T) {
	env := setupEventTestEnv(t)
	user := env.createUser(t, "volunteer@example.com", models.RoleVolunteer)
	event := env.createEvent(t, user.ID, 50)

	w := doJSON(t, env.router, http.MethodPost, fmt.Sprintf("/api/events/%d/register", event.ID), nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEventHandler_CheckInWithQRToken(t *testing.T) {
	env := setupEventTestEnv(t)
	user := env.createUser(t, "volunteer@example.com", models.RoleVolunteer)
	event := env.createEvent(t, user.ID, 50)
	cookies := env.login(t, user.Email)

	token, err := utils.SignQRToken(testQRSecret, event.ID, event.EndsAt)
	require.NoError(t, err)

	path := fmt.Sprintf("/api/events/%d/checkin", event.ID)
	payload := map[string]string{"method": "qr_scan", "token": token}

	w := doJSON(t, env.router, http.MethodPost, path, payload, cookies)
	require.Equal(t, http.StatusCreated, w.Code)

	// Scanning again returns the existing record, not a second award.
	w = doJSON(t, env.router, http.MethodPost, path, payload, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, true, resp["already_checked_in"])

	var points models.UserPoints
	require.NoError(t, env.db.Where("user_id = ?", user.ID).First(&points).Error)
	require.Equal(t, int64(50), points.Points)
}

func TestEventHandler_CheckInRejectsTokenForOtherEvent(t *testing.T) {
	env := setupEventTestEnv(t)
	user := env.createUser(t, "volunteer@example.com", models.RoleVolunteer)
	event := env.createEvent(t, user.ID, 50)
	other := env.createEvent(t, user.ID, 10)
	cookies := env.login(t, user.Email)

	token, err := utils.SignQRToken(testQRSecret, other.ID, other.EndsAt)
	require.NoError(t, err)

	w := doJSON(t, env.router, http.MethodPost,
		fmt.Sprintf("/api/events/%d/checkin", event.ID),
		map[string]string{"method": "qr_scan", "token": token},
		cookies,
	)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventHandler_ManualCheckInForbiddenForVolunteers(t *testing.T) {
	env := setupEventTestEnv(t)
	user := env.createUser(t, "volunteer@example.com", models.RoleVolunteer)
	target := env.createUser(t, "target@example.com", models.RoleVolunteer)
	event := env.createEvent(t, user.ID, 50)
	cookies := env.login(t, user.Email)

	w := doJSON(t, env.router, http.MethodPost,
		fmt.Sprintf("/api/events/%d/checkin", event.ID),
		map[string]any{"method": "manual", "user_id": target.ID},
		cookies,
	)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestEventHandler_ManualCheckInByAdmin(t *testing.T) {
	env := setupEventTestEnv(t)
	admin := env.createUser(t, "admin@example.com", models.RoleAdmin)
	target := env.createUser(t, "target@example.com", models.RoleVolunteer)
	event := env.createEvent(t, admin.ID, 25)
	cookies := env.login(t, admin.Email)

	w := doJSON(t, env.router, http.MethodPost,
		fmt.Sprintf("/api/events/%d/checkin", event.ID),
		map[string]any{"method": "manual", "user_id": target.ID},
		cookies,
	)
	require.Equal(t, http.StatusCreated, w.Code)

	var points models.UserPoints
	require.NoError(t, env.db.Where("user_id = ?", target.ID).First(&points).Error)
	require.Equal(t, int64(25), points.Points)
}

func TestEventHandler_AttendeesRequiresAdmin(t *testing.T) {
	env := setupEventTestEnv(t)
	user := env.createUser(t, "volunteer@example.com", models.RoleVolunteer)
	event := env.createEvent(t, user.ID, 50)
	cookies := env.login(t, user.Email)

	w := doJSON(t, env.router, http.MethodGet, fmt.Sprintf("/api/events/%d/attendees", event.ID), nil, cookies)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestEventHandler_DownloadCalendar(t *testing.T) {
	env := setupEventTestEnv(t)
	user := env.createUser(t, "volunteer@example.com", models.RoleVolunteer)
	event := env.createEvent(t, user.ID, 50)
	cookies := env.login(t, user.Email)

	w := doJSON(t, env.router, http.MethodGet, fmt.Sprintf("/api/events/%d/calendar", event.ID), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/calendar")
	require.Contains(t, w.Body.String(), "BEGIN:VEVENT")
}

func TestEventHandler_UnknownEvent(t *testing.T) {
	env := setupEventTestEnv(t)
	user := env.createUser(t, "volunteer@example.com", models.RoleVolunteer)
	cookies := env.login(t, user.Email)

	w := doJSON(t, env.router, http.MethodGet, "/api/events/99999/status", nil, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)
}
