package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/believerchat/backend/internal/database"
	"github.com/believerchat/backend/internal/middleware"
	"github.com/believerchat/backend/internal/models"
)

// asUser fakes the auth middleware's context values.
func asUser(userID uint, isAdmin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Set(middleware.IsAdminKey, isAdmin)
		c.Next()
	}
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func chatRouter(t *testing.T, db *database.Database, userID uint) *gin.Engine {
	t.Helper()

	h := NewChatHandler(db, testStore(t))
	r := gin.New()
	r.Use(asUser(userID, false))
	r.POST("/send", h.Send)
	r.GET("/history/:userId", h.History)
	r.GET("/unread-senders", h.UnreadSenders)
	return r
}

func TestSend_Direct(t *testing.T) {
	db := testDB(t)
	alice := seedUser(t, db, models.User{Name: "Alice", Phone: "+14155550001", Email: "a@x.com", Age: 25, Gender: "female"})
	bob := seedUser(t, db, models.User{Name: "Bob", Phone: "+14155550002", Email: "b@x.com", Age: 26, Gender: "male"})

	r := chatRouter(t, db, alice.ID)
	w := postJSON(t, r, "/send", map[string]interface{}{
		"receiver_id":  bob.ID,
		"message_text": "hello <b>there</b>",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["message_text"] != "hello there" {
		t.Errorf("message_text = %q, want sanitized text", resp["message_text"])
	}
	if resp["is_read"] != false {
		t.Error("new messages must start unread")
	}
}

func TestSend_ExactlyOneDestination(t *testing.T) {
	db := testDB(t)
	alice := seedUser(t, db, models.User{Name: "Alice", Phone: "+14155550001", Email: "a@x.com", Age: 25, Gender: "female"})
	r := chatRouter(t, db, alice.ID)

	if w := postJSON(t, r, "/send", map[string]interface{}{"message_text": "hi"}); w.Code != http.StatusBadRequest {
		t.Errorf("no destination: status = %d, want 400", w.Code)
	}
	if w := postJSON(t, r, "/send", map[string]interface{}{
		"receiver_id": 1, "group_id": 1, "message_text": "hi",
	}); w.Code != http.StatusBadRequest {
		t.Errorf("both destinations: status = %d, want 400", w.Code)
	}
	if w := postJSON(t, r, "/send", map[string]interface{}{"receiver_id": 1}); w.Code != http.StatusBadRequest {
		t.Errorf("empty text: status = %d, want 400", w.Code)
	}
}

func TestSend_GroupRequiresMembership(t *testing.T) {
	db := testDB(t)
	creator := seedUser(t, db, models.User{Name: "Creator", Phone: "+14155550001", Email: "c@x.com", Age: 25, Gender: "male"})
	outsider := seedUser(t, db, models.User{Name: "Outsider", Phone: "+14155550002", Email: "o@x.com", Age: 25, Gender: "female"})

	group := &models.Group{Name: "Bible Study", InviteToken: "tok-1", CreatedBy: creator.ID}
	if err := db.CreateGroup(group); err != nil {
		t.Fatalf("create group: %v", err)
	}

	payload := map[string]interface{}{"group_id": group.ID, "message_text": "hi all"}

	if w := postJSON(t, chatRouter(t, db, outsider.ID), "/send", payload); w.Code != http.StatusForbidden {
		t.Errorf("non-member: status = %d, want 403, body = %s", w.Code, w.Body.String())
	}
	if w := postJSON(t, chatRouter(t, db, creator.ID), "/send", payload); w.Code != http.StatusCreated {
		t.Errorf("member: status = %d, want 201, body = %s", w.Code, w.Body.String())
	}
}

func TestUnreadSenders_EmptyIsArray(t *testing.T) {
	db := testDB(t)
	alice := seedUser(t, db, models.User{Name: "Alice", Phone: "+14155550001", Email: "a@x.com", Age: 25, Gender: "female"})

	r := chatRouter(t, db, alice.ID)
	req := httptest.NewRequest(http.MethodGet, "/unread-senders", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		SenderIDs []uint `json:"senderIds"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.SenderIDs == nil {
		t.Error("senderIds must be an empty array, not null")
	}
}

func TestCreateGroup_FreshInviteTokens(t *testing.T) {
	db := testDB(t)
	creator := seedUser(t, db, models.User{Name: "Creator", Phone: "+14155550001", Email: "c@x.com", Age: 25, Gender: "male"})

	h := NewGroupHandler(db, testStore(t))
	r := gin.New()
	r.Use(asUser(creator.ID, false))
	r.POST("/create", h.Create)

	createGroup := func(name string) string {
		w := postJSON(t, r, "/create", map[string]string{"name": name})
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		var resp map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &resp)
		token, _ := resp["invite_token"].(string)
		if token == "" {
			t.Fatal("create response missing invite_token")
		}
		return token
	}

	if createGroup("First") == createGroup("Second") {
		t.Error("successive groups must get distinct invite tokens")
	}
}

func TestGroupGet_InviteTokenVisibility(t *testing.T) {
	db := testDB(t)
	creator := seedUser(t, db, models.User{Name: "Creator", Phone: "+14155550001", Email: "c@x.com", Age: 25, Gender: "male"})
	member := seedUser(t, db, models.User{Name: "Member", Phone: "+14155550002", Email: "m@x.com", Age: 25, Gender: "female"})

	group := &models.Group{Name: "Choir", InviteToken: "tok-secret", CreatedBy: creator.ID}
	if err := db.CreateGroup(group); err != nil {
		t.Fatalf("create group: %v", err)
	}

	get := func(userID uint, isAdmin bool) map[string]interface{} {
		h := NewGroupHandler(db, testStore(t))
		r := gin.New()
		r.Use(asUser(userID, isAdmin))
		r.GET("/groups/:id", h.Get)

		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/groups/%d", group.ID), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var resp map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &resp)
		return resp
	}

	if _, ok := get(creator.ID, false)["invite_token"]; !ok {
		t.Error("creator should see the invite token")
	}
	if _, ok := get(member.ID, true)["invite_token"]; !ok {
		t.Error("admin should see the invite token")
	}
	if _, ok := get(member.ID, false)["invite_token"]; ok {
		t.Error("regular users must not see the invite token")
	}
}
