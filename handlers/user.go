package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"RoomLink/models"
	"RoomLink/store"
	"RoomLink/utils"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserController struct {
	users      store.UserStore
	properties store.PropertyStore
	uploadDir  string
}

func NewUserController(users store.UserStore, properties store.PropertyStore) *UserController {
	return &UserController{
		users:      users,
		properties: properties,
		uploadDir:  "uploads",
	}
}

func (uc *UserController) GetProfile(c echo.Context) error {
	user := currentUser(c)
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile accepts JSON or multipart form bodies. Multipart submissions
// carry nested values (preferences) as JSON-encoded strings, recovered by the
// form normalizer, plus an optional avatar image of at most 5MB.
func (uc *UserController) UpdateProfile(c echo.Context) error {
	caller := currentUser(c)
	ctx := c.Request().Context()

	// The context copy is redacted; reload the record so the stored
	// password hash survives the replace.
	user, err := uc.users.FindByID(ctx, caller.ID)
	if err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "User not found"})
		}
		log.Printf("load user: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	var body map[string]interface{}
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(ctype, echo.MIMEApplicationJSON) {
		if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": []string{"Invalid request body"}})
		}
	} else {
		form, err := c.FormParams()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": []string{"Invalid form data"}})
		}
		body = utils.ParseRequestBody(form, "preferences")
	}

	var errs []string
	if v, ok := body["name"].(string); ok {
		if v == "" {
			errs = append(errs, "Name cannot be empty")
		} else {
			user.Name = v
		}
	}
	if v, ok := body["phone"].(string); ok {
		if v != "" && !utils.ValidPhone(v) {
			errs = append(errs, "Invalid phone number")
		} else {
			user.Phone = v
		}
	}
	if v, ok := body["bio"].(string); ok {
		user.Bio = v
	}
	if v, ok := body["userType"].(string); ok {
		if !models.IsValidUserType(v) {
			errs = append(errs, "Invalid userType")
		} else {
			user.UserType = v
		}
	}
	if raw, ok := body["preferences"]; ok {
		encoded, err := json.Marshal(raw)
		var prefs models.Preferences
		if err != nil || json.Unmarshal(encoded, &prefs) != nil {
			errs = append(errs, "Invalid preferences")
		} else {
			user.Preferences = prefs
		}
	}
	if len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	if file, err := c.FormFile("avatar"); err == nil && file != nil {
		url, err := utils.SaveAvatar(file, uc.uploadDir)
		if err == utils.ErrFileTooLarge || err == utils.ErrNotAnImage {
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": []string{err.Error()}})
		}
		if err != nil {
			log.Printf("save avatar: %v", err)
			return c.String(http.StatusInternalServerError, "Internal Server Error")
		}
		user.Avatar = url
	}

	if err := uc.users.Update(ctx, user); err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "User not found"})
		}
		log.Printf("update user: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	user.Redact(false)
	return c.JSON(http.StatusOK, user)
}

func (uc *UserController) GetUser(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"msg": "User not found"})
	}

	user, err := uc.users.FindByID(c.Request().Context(), id)
	if err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "User not found"})
		}
		log.Printf("find user: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	user.Redact(true)
	return c.JSON(http.StatusOK, user)
}

func (uc *UserController) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	page := 1
	limit := 10
	if p := c.QueryParam("page"); p != "" {
		if num, err := strconv.Atoi(p); err == nil && num > 0 {
			page = num
		}
	}
	if l := c.QueryParam("limit"); l != "" {
		if num, err := strconv.Atoi(l); err == nil && num > 0 {
			limit = num
		}
	}
	if limit > store.MaxPageSize {
		limit = store.MaxPageSize
	}

	query := store.UserSearch{
		UserType: c.QueryParam("userType"),
		City:     c.QueryParam("city"),
		Search:   c.QueryParam("search"),
		Page:     page,
		Limit:    limit,
	}

	cacheKey := utils.GenerateQueryCacheKey("users", map[string]string{
		"userType": query.UserType,
		"city":     query.City,
		"search":   query.Search,
		"page":     strconv.Itoa(page),
		"limit":    strconv.Itoa(limit),
	})
	var cached map[string]interface{}
	if hit, err := utils.GetCached(ctx, cacheKey, &cached); err == nil && hit {
		return c.JSON(http.StatusOK, cached)
	}

	users, total, err := uc.users.Search(ctx, query)
	if err != nil {
		log.Printf("search users: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}
	for i := range users {
		users[i].Redact(true)
	}
	if users == nil {
		users = []models.User{}
	}

	pages := (total + int64(limit) - 1) / int64(limit)
	resp := echo.Map{
		"users": users,
		"pagination": echo.Map{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": pages,
		},
	}

	if err := utils.SetCached(ctx, cacheKey, resp, time.Minute); err != nil {
		log.Printf("cache users: %v", err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (uc *UserController) GetNotifications(c echo.Context) error {
	user := currentUser(c)
	notifications := user.Notifications
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": notifications})
}

func (uc *UserController) MarkNotificationRead(c echo.Context) error {
	user := currentUser(c)

	notificationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"msg": "Notification not found"})
	}

	err = uc.users.MarkNotificationRead(c.Request().Context(), user.ID, notificationID)
	if err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "Notification not found"})
		}
		log.Printf("mark notification read: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Notification marked as read"})
}

func (uc *UserController) SaveProperty(c echo.Context) error {
	user := currentUser(c)
	ctx := c.Request().Context()

	propertyID, err := primitive.ObjectIDFromHex(c.Param("propertyId"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"msg": "Property not found"})
	}

	if _, err := uc.properties.FindByID(ctx, propertyID); err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "Property not found"})
		}
		log.Printf("find property: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	added, err := uc.users.AddSavedProperty(ctx, user.ID, propertyID)
	if err != nil {
		log.Printf("save property: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}
	if added {
		if err := uc.properties.AdjustSaves(ctx, propertyID, 1); err != nil {
			log.Printf("adjust saves: %v", err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Property saved"})
}

func (uc *UserController) UnsaveProperty(c echo.Context) error {
	user := currentUser(c)
	ctx := c.Request().Context()

	propertyID, err := primitive.ObjectIDFromHex(c.Param("propertyId"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"msg": "Property not found"})
	}

	removed, err := uc.users.RemoveSavedProperty(ctx, user.ID, propertyID)
	if err != nil {
		log.Printf("unsave property: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}
	if removed {
		if err := uc.properties.AdjustSaves(ctx, propertyID, -1); err != nil {
			log.Printf("adjust saves: %v", err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Property removed from saved"})
}

func (uc *UserController) GetSavedProperties(c echo.Context) error {
	user := currentUser(c)

	properties, err := uc.properties.FindByIDs(c.Request().Context(), user.SavedProperties)
	if err != nil {
		log.Printf("find saved properties: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	return c.JSON(http.StatusOK, echo.Map{"properties": properties})
}
