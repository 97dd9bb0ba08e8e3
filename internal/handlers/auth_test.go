package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/believerchat/backend/internal/database"
	"github.com/believerchat/backend/internal/models"
	"github.com/believerchat/backend/internal/storage"
	"github.com/believerchat/backend/pkg/auth"
	"github.com/believerchat/backend/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init()
}

func testDB(t *testing.T) *database.Database {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, _ := gdb.DB()
		sqlDB.Close()
	})

	db := database.NewDatabase(gdb)
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testStore(t *testing.T) *storage.UploadStore {
	t.Helper()
	store, err := storage.NewUploadStore(t.TempDir(), "http://localhost:8080")
	if err != nil {
		t.Fatalf("upload store: %v", err)
	}
	return store
}

func seedUser(t *testing.T, db *database.Database, u models.User) *models.User {
	t.Helper()

	if u.Password == "" {
		hash, _ := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
		u.Password = string(hash)
	}
	if err := db.SaveUser(&u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &u
}

func registerForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	w.Close()
	return body, w.FormDataContentType()
}

func validRegisterFields() map[string]string {
	return map[string]string{
		"name":          "Jane Doe",
		"phone":         "+14155551234",
		"email":         "jane@example.com",
		"password":      "secret123",
		"age":           "25",
		"gender":        "female",
		"city":          "Austin",
		"state":         "TX",
		"country":       "USA",
		"church_name":   "Grace Chapel",
		"social_status": "single",
	}
}

func authRouter(t *testing.T, db *database.Database) (*gin.Engine, *AuthHandler) {
	t.Helper()

	jwtMgr := auth.NewJWTManager("test-secret", time.Hour)
	h := NewAuthHandler(db, jwtMgr, nil, testStore(t))

	r := gin.New()
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	return r, h
}

func TestRegister(t *testing.T) {
	db := testDB(t)
	r, _ := authRouter(t, db)

	body, contentType := registerForm(t, validRegisterFields())
	req := httptest.NewRequest(http.MethodPost, "/register", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["is_verified"] != false {
		t.Error("new accounts must start unverified")
	}
	if _, leaked := resp["password"]; leaked {
		t.Error("password must never appear in responses")
	}
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(map[string]string)
		wantStatus int
	}{
		{"missing password", func(f map[string]string) { delete(f, "password") }, http.StatusBadRequest},
		{"under age", func(f map[string]string) { f["age"] = "17" }, http.StatusBadRequest},
		{"over age", func(f map[string]string) { f["age"] = "36" }, http.StatusBadRequest},
		{"bad gender", func(f map[string]string) { f["gender"] = "other" }, http.StatusBadRequest},
		{"bad phone", func(f map[string]string) { f["phone"] = "12ab" }, http.StatusBadRequest},
		{"bad email", func(f map[string]string) { f["email"] = "not-an-email" }, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testDB(t)
			r, _ := authRouter(t, db)

			fields := validRegisterFields()
			tt.mutate(fields)

			body, contentType := registerForm(t, fields)
			req := httptest.NewRequest(http.MethodPost, "/register", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d, body = %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestRegister_DuplicatePhone(t *testing.T) {
	db := testDB(t)
	r, _ := authRouter(t, db)

	seedUser(t, db, models.User{
		Name: "First", Phone: "+14155551234", Email: "first@example.com",
		Age: 24, Gender: "male", City: "Austin", State: "TX", Country: "USA",
		ChurchName: "Grace", SocialStatus: "single",
	})

	body, contentType := registerForm(t, validRegisterFields())
	req := httptest.NewRequest(http.MethodPost, "/register", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409, body = %s", w.Code, w.Body.String())
	}
}

func TestLogin(t *testing.T) {
	db := testDB(t)
	r, _ := authRouter(t, db)

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	seedUser(t, db, models.User{
		Name: "Jane", Phone: "+14155551234", Email: "jane@example.com",
		Password: string(hash), Age: 25, Gender: "female", City: "Austin",
		State: "TX", Country: "USA", ChurchName: "Grace",
		SocialStatus: "single", IsVerified: true,
	})

	login := func(email, password string) *httptest.ResponseRecorder {
		payload, _ := json.Marshal(map[string]string{"email": email, "password": password})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := login("jane@example.com", "secret123"); w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	} else {
		var resp map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &resp)
		if resp["token"] == nil || resp["token"] == "" {
			t.Error("login response missing token")
		}
	}

	if w := login("nobody@example.com", "secret123"); w.Code != http.StatusUnauthorized {
		t.Errorf("unknown email: status = %d, want 401", w.Code)
	}
	if w := login("jane@example.com", "wrong"); w.Code != http.StatusUnauthorized {
		t.Errorf("bad password: status = %d, want 401", w.Code)
	}
}

func TestLogin_ModerationGates(t *testing.T) {
	db := testDB(t)
	r, _ := authRouter(t, db)

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	seedUser(t, db, models.User{
		Name: "Unverified", Phone: "+14155550001", Email: "unverified@example.com",
		Password: string(hash), Age: 25, Gender: "female", City: "Austin",
		State: "TX", Country: "USA", ChurchName: "Grace", SocialStatus: "single",
	})
	seedUser(t, db, models.User{
		Name: "Blocked", Phone: "+14155550002", Email: "blocked@example.com",
		Password: string(hash), Age: 25, Gender: "female", City: "Austin",
		State: "TX", Country: "USA", ChurchName: "Grace", SocialStatus: "single",
		IsVerified: true, IsBlocked: true,
	})

	login := func(email string) *httptest.ResponseRecorder {
		payload, _ := json.Marshal(map[string]string{"email": email, "password": "secret123"})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := login("unverified@example.com"); w.Code != http.StatusForbidden {
		t.Errorf("unverified: status = %d, want 403", w.Code)
	}
	if w := login("blocked@example.com"); w.Code != http.StatusForbidden {
		t.Errorf("blocked: status = %d, want 403", w.Code)
	}
}
