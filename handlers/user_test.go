package handlers

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"RoomLink/models"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedUser(t *testing.T, users *fakeUserStore, u models.User) *models.User {
	t.Helper()
	if err := users.Create(context.Background(), &u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	stored, err := users.FindByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return stored
}

func TestUpdateProfileNameOnlyKeepsAvatar(t *testing.T) {
	e := echo.New()
	users := newFakeUserStore()
	uc := NewUserController(users, newFakePropertyStore())

	user := seedUser(t, users, models.User{
		Email: "alice@example.com", Name: "Alice", Avatar: "/uploads/old.png",
		UserType: models.UserTypeRoomSeeker, IsActive: true,
	})

	req := httptest.NewRequest(http.MethodPut, "/api/users/me", strings.NewReader("name=Alex"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", user)

	if err := uc.UpdateProfile(c); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["name"] != "Alex" {
		t.Errorf("expected name Alex, got %v", body["name"])
	}
	if body["avatar"] != "/uploads/old.png" {
		t.Errorf("avatar changed without a file: %v", body["avatar"])
	}

	stored, _ := users.FindByID(context.Background(), user.ID)
	if stored.Name != "Alex" {
		t.Errorf("store not updated, name is %q", stored.Name)
	}
	if stored.Avatar != "/uploads/old.png" {
		t.Errorf("stored avatar changed: %q", stored.Avatar)
	}
}

func TestUpdateProfileKeepsPasswordHash(t *testing.T) {
	e := echo.New()
	users := newFakeUserStore()
	uc := NewUserController(users, newFakePropertyStore())

	user := seedUser(t, users, models.User{
		Email: "alice@example.com", Name: "Alice",
		Password: "$2a$10$BzYexisting.hash.value",
		UserType: models.UserTypeRoomSeeker, IsActive: true,
	})

	// The auth middleware attaches a copy with the password cleared.
	attached := *user
	attached.Password = ""

	req := httptest.NewRequest(http.MethodPut, "/api/users/me", strings.NewReader("name=Alex"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", &attached)

	if err := uc.UpdateProfile(c); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if decodeBody(t, rec)["password"] != nil {
		t.Error("password leaked in the response")
	}

	stored, _ := users.FindByID(context.Background(), user.ID)
	if stored.Name != "Alex" {
		t.Errorf("store not updated, name is %q", stored.Name)
	}
	if stored.Password != "$2a$10$BzYexisting.hash.value" {
		t.Errorf("stored password hash changed by profile update: %q", stored.Password)
	}
}

func TestUpdateProfileMultipartAvatarAndPreferences(t *testing.T) {
	e := echo.New()
	users := newFakeUserStore()
	uc := NewUserController(users, newFakePropertyStore())
	uc.uploadDir = t.TempDir()

	user := seedUser(t, users, models.User{
		Email: "alice@example.com", Name: "Alice",
		UserType: models.UserTypeRoomSeeker, IsActive: true,
	})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.WriteField("bio", "Looking for a quiet place")
	writer.WriteField("preferences", `{"locations":["Austin"],"budgetMax":1200,"roomType":"private"}`)
	part, err := writer.CreateFormFile("avatar", "me.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write([]byte("\x89PNG\r\n\x1a\nfakeimagedata"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPut, "/api/users/me", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", user)

	if err := uc.UpdateProfile(c); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	stored, _ := users.FindByID(context.Background(), user.ID)
	if stored.Bio != "Looking for a quiet place" {
		t.Errorf("bio not updated: %q", stored.Bio)
	}
	if stored.Preferences.BudgetMax != 1200 || stored.Preferences.RoomType != "private" {
		t.Errorf("preferences not recovered from form: %+v", stored.Preferences)
	}
	if !strings.HasPrefix(stored.Avatar, "/uploads/") || !strings.HasSuffix(stored.Avatar, ".png") {
		t.Errorf("unexpected avatar path %q", stored.Avatar)
	}
}

func TestUpdateProfileRejectsNonImage(t *testing.T) {
	e := echo.New()
	users := newFakeUserStore()
	uc := NewUserController(users, newFakePropertyStore())
	uc.uploadDir = t.TempDir()

	user := seedUser(t, users, models.User{
		Email: "alice@example.com", Name: "Alice",
		UserType: models.UserTypeRoomSeeker, IsActive: true,
	})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, _ := writer.CreateFormFile("avatar", "notes.txt")
	part.Write([]byte("plain text"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPut, "/api/users/me", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", user)

	if err := uc.UpdateProfile(c); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-image upload, got %d", rec.Code)
	}
}

func TestGetUserNotFound(t *testing.T) {
	e := echo.New()
	uc := NewUserController(newFakeUserStore(), newFakePropertyStore())

	for _, id := range []string{"not-a-hex-id", "64b0c0ffee64b0c0ffee64b0"} {
		req := httptest.NewRequest(http.MethodGet, "/api/users/"+id, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(id)

		if err := uc.GetUser(c); err != nil {
			t.Fatalf("get user: %v", err)
		}
		if rec.Code != http.StatusNotFound {
			t.Fatalf("id %q: expected 404, got %d", id, rec.Code)
		}
		if msg := decodeBody(t, rec)["msg"]; msg != "User not found" {
			t.Errorf("id %q: expected msg \"User not found\", got %v", id, msg)
		}
	}
}

func TestGetUserRedactsPrivateFields(t *testing.T) {
	e := echo.New()
	users := newFakeUserStore()
	uc := NewUserController(users, newFakePropertyStore())

	user := seedUser(t, users, models.User{
		Email: "alice@example.com", Name: "Alice", Password: "hashed-secret",
		UserType: models.UserTypeRoomSeeker, IsActive: true,
		Notifications: []models.Notification{{Content: "private"}},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users/"+user.ID.Hex(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(user.ID.Hex())

	if err := uc.GetUser(c); err != nil {
		t.Fatalf("get user: %v", err)
	}
	body := decodeBody(t, rec)
	if body["password"] != nil {
		t.Error("password leaked on public view")
	}
	if body["notifications"] != nil {
		t.Error("notifications leaked on public view")
	}
}

func TestListUsersSearchPagination(t *testing.T) {
	e := echo.New()
	users := newFakeUserStore()
	uc := NewUserController(users, newFakePropertyStore())

	for i := 0; i < 12; i++ {
		seedUser(t, users, models.User{
			Email:    fmt.Sprintf("loft%d@example.com", i),
			Name:     fmt.Sprintf("Loft Fan %d", i),
			Bio:      "dreaming of a loft downtown",
			UserType: models.UserTypeRoomSeeker,
			IsActive: true,
		})
	}
	for i := 0; i < 3; i++ {
		seedUser(t, users, models.User{
			Email:    fmt.Sprintf("other%d@example.com", i),
			Name:     fmt.Sprintf("Other %d", i),
			Bio:      "no matching keyword here",
			UserType: models.UserTypeRoomSeeker,
			IsActive: true,
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users?search=loft&page=2&limit=5", nil)
	rec := httptest.NewRecorder()
	if err := uc.ListUsers(e.NewContext(req, rec)); err != nil {
		t.Fatalf("list users: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	results, _ := body["users"].([]interface{})
	if len(results) > 5 {
		t.Errorf("expected at most 5 users, got %d", len(results))
	}
	pagination, _ := body["pagination"].(map[string]interface{})
	if pagination["pages"] != float64(3) {
		t.Errorf("expected pages=ceil(12/5)=3, got %v", pagination["pages"])
	}
	if pagination["total"] != float64(12) {
		t.Errorf("expected total=12, got %v", pagination["total"])
	}
}

func TestListUsersClampsLimit(t *testing.T) {
	e := echo.New()
	users := newFakeUserStore()
	uc := NewUserController(users, newFakePropertyStore())

	for i := 0; i < 3; i++ {
		seedUser(t, users, models.User{
			Email:    fmt.Sprintf("user%d@example.com", i),
			Name:     fmt.Sprintf("User %d", i),
			UserType: models.UserTypeRoomSeeker,
			IsActive: true,
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users?limit=500", nil)
	rec := httptest.NewRecorder()
	if err := uc.ListUsers(e.NewContext(req, rec)); err != nil {
		t.Fatalf("list users: %v", err)
	}

	body := decodeBody(t, rec)
	pagination, _ := body["pagination"].(map[string]interface{})
	if pagination["limit"] != float64(100) {
		t.Errorf("expected limit capped at 100, got %v", pagination["limit"])
	}
	if pagination["pages"] != float64(1) {
		t.Errorf("expected pages=1 at the capped limit, got %v", pagination["pages"])
	}
}

func TestNotifications(t *testing.T) {
	e := echo.New()
	users := newFakeUserStore()
	uc := NewUserController(users, newFakePropertyStore())

	user := seedUser(t, users, models.User{
		Email: "alice@example.com", Name: "Alice",
		UserType: models.UserTypeRoomSeeker, IsActive: true,
	})
	n := models.Notification{
		ID:      primitive.NewObjectID(),
		Type:    models.NotificationTypeSystem,
		Content: "welcome",
	}
	users.PushNotification(context.Background(), user.ID, n)

	req := httptest.NewRequest(http.MethodPut, "/api/users/notifications/"+n.ID.Hex(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", user)
	c.SetParamNames("id")
	c.SetParamValues(n.ID.Hex())

	if err := uc.MarkNotificationRead(c); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	stored, _ := users.FindByID(context.Background(), user.ID)
	if len(stored.Notifications) != 1 || !stored.Notifications[0].Read {
		t.Errorf("notification not marked read: %+v", stored.Notifications)
	}
}

func TestSaveAndUnsaveProperty(t *testing.T) {
	e := echo.New()
	users := newFakeUserStore()
	properties := newFakePropertyStore()
	uc := NewUserController(users, properties)

	user := seedUser(t, users, models.User{
		Email: "alice@example.com", Name: "Alice",
		UserType: models.UserTypeRoomSeeker, IsActive: true,
	})
	property := &models.Property{
		Title: "Sunny loft", PropertyType: "apartment", ListingType: "room",
		Price:   models.Price{Amount: 900},
		Address: models.Address{City: "Austin"},
		Status:  models.PropertyStatusActive,
	}
	properties.Create(context.Background(), property)

	save := func(method, handlerName string, handler echo.HandlerFunc) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/api/users/me/saved/"+property.ID.Hex(), nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("user", user)
		c.SetParamNames("propertyId")
		c.SetParamValues(property.ID.Hex())
		if err := handler(c); err != nil {
			t.Fatalf("%s: %v", handlerName, err)
		}
		return rec
	}

	if rec := save(http.MethodPost, "save", uc.SaveProperty); rec.Code != http.StatusOK {
		t.Fatalf("save: expected 200, got %d", rec.Code)
	}
	if p, _ := properties.FindByID(context.Background(), property.ID); p.Saves != 1 {
		t.Errorf("expected saves=1, got %d", p.Saves)
	}

	// Saving twice must not double-count.
	save(http.MethodPost, "save again", uc.SaveProperty)
	if p, _ := properties.FindByID(context.Background(), property.ID); p.Saves != 1 {
		t.Errorf("duplicate save inflated counter to %d", p.Saves)
	}

	if rec := save(http.MethodDelete, "unsave", uc.UnsaveProperty); rec.Code != http.StatusOK {
		t.Fatalf("unsave: expected 200, got %d", rec.Code)
	}
	if p, _ := properties.FindByID(context.Background(), property.ID); p.Saves != 0 {
		t.Errorf("expected saves back to 0, got %d", p.Saves)
	}
}
