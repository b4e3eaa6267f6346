package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/jleignadier/nueva-generacion-sub000/internal/constants"
	"github.com/jleignadier/nueva-generacion-sub000/internal/database"
	"github.com/jleignadier/nueva-generacion-sub000/internal/dto"
	"github.com/jleignadier/nueva-generacion-sub000/internal/middleware"
	"github.com/jleignadier/nueva-generacion-sub000/internal/models"
	"github.com/jleignadier/nueva-generacion-sub000/internal/repository"
	"github.com/jleignadier/nueva-generacion-sub000/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	authService *services.AuthService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.UserPoints{},
		&models.OrganizationPoints{},
		&models.RoleAudit{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	authService := services.NewAuthService(repository.NewUserRepository(db), nil)
	handler := NewAuthHandler(authService)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	r.POST("/api/auth/signup", handler.Signup)
	r.POST("/api/auth/login", handler.Login)
	r.POST("/api/auth/logout", handler.Logout)
	r.GET("/api/auth/me", middleware.RequireAuth(), handler.GetCurrentUser)
	r.PATCH("/api/users/:id/role", middleware.RequireAuth(), middleware.RequireAdmin(), handler.UpdateUserRole)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		router:      r,
		authService: authService,
	}
}

func (env authTestEnv) login(t *testing.T, email, password string) []*http.Cookie {
	t.Helper()

	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	return w.Result().Cookies()
}

func TestAuthHandler_Signup(t *testing.T) {
	env := setupAuthTestEnv(t)

	payload := map[string]any{
		"email":        "newuser@example.com",
		"password":     "supersecret",
		"display_name": "New User",
	}

	w := doJSON(t, env.router, http.MethodPost, "/api/auth/signup", payload, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "newuser@example.com", response.Email)
	require.Equal(t, models.RoleVolunteer, response.Role)
}

func TestAuthHandler_SignupDuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t)

	payload := map[string]any{
		"email":        "newuser@example.com",
		"password":     "supersecret",
		"display_name": "New User",
	}

	w := doJSON(t, env.router, http.MethodPost, "/api/auth/signup", payload, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, env.router, http.MethodPost, "/api/auth/signup", payload, nil)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_LoginAndMe(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(services.SignupInput{
		Email:       "existing@example.com",
		Password:    "supersecret",
		DisplayName: "Existing",
	})
	require.NoError(t, err)

	cookies := env.login(t, "existing@example.com", "supersecret")

	w := doJSON(t, env.router, http.MethodGet, "/api/auth/me", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var profile dto.UserProfileDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	require.Equal(t, "existing@example.com", profile.Email)
	require.Equal(t, int64(0), profile.Points)
}

func TestAuthHandler_LoginWrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(services.SignupInput{
		Email:       "existing@example.com",
		Password:    "supersecret",
		DisplayName: "Existing",
	})
	require.NoError(t, err)

	payload := map[string]string{"email": "existing@example.com", "password": "wrong"}
	w := doJSON(t, env.router, http.MethodPost, "/api/auth/login", payload, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_MeRequiresSession(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := doJSON(t, env.router, http.MethodGet, "/api/auth/me", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_UpdateUserRole(t *testing.T) {
	env := setupAuthTestEnv(t)

	admin, err := env.authService.Signup(services.SignupInput{
		Email:       "admin@example.com",
		Password:    "supersecret",
		DisplayName: "Admin",
	})
	require.NoError(t, err)
	require.NoError(t, env.db.Model(admin).Update("role", models.RoleAdmin).Error)

	target, err := env.authService.Signup(services.SignupInput{
		Email:       "target@example.com",
		Password:    "supersecret",
		DisplayName: "Target",
	})
	require.NoError(t, err)

	cookies := env.login(t, "admin@example.com", "supersecret")

	w := doJSON(t, env.router, http.MethodPatch,
		fmt.Sprintf("/api/users/%d/role", target.ID),
		map[string]string{"role": "admin", "reason": "second organizer"},
		cookies,
	)
	require.Equal(t, http.StatusOK, w.Code)

	// Self-demotion is blocked even for admins.
	w = doJSON(t, env.router, http.MethodPatch,
		fmt.Sprintf("/api/users/%d/role", admin.ID),
		map[string]string{"role": "volunteer"},
		cookies,
	)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthHandler_UpdateUserRoleRequiresAdmin(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Signup(services.SignupInput{
		Email:       "volunteer@example.com",
		Password:    "supersecret",
		DisplayName: "Volunteer",
	})
	require.NoError(t, err)

	cookies := env.login(t, "volunteer@example.com", "supersecret")

	w := doJSON(t, env.router, http.MethodPatch, "/api/users/1/role",
		map[string]string{"role": "admin"}, cookies)
	require.Equal(t, http.StatusForbidden, w.Code)
}
