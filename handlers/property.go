package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"RoomLink/models"
	"RoomLink/store"
	"RoomLink/utils"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const propertyCachePrefix = "properties"

type PropertyController struct {
	properties store.PropertyStore
	users      store.UserStore
}

func NewPropertyController(properties store.PropertyStore, users store.UserStore) *PropertyController {
	return &PropertyController{properties: properties, users: users}
}

func validateProperty(p *models.Property) []string {
	var errs []string
	if p.Title == "" {
		errs = append(errs, "Title is required")
	}
	if p.PropertyType == "" {
		errs = append(errs, "propertyType is required")
	}
	if p.ListingType == "" {
		errs = append(errs, "listingType is required")
	}
	if p.Price.Amount <= 0 {
		errs = append(errs, "Price amount must be positive")
	}
	if p.Address.City == "" {
		errs = append(errs, "City is required")
	}
	if p.Status != "" && !models.IsValidPropertyStatus(p.Status) {
		errs = append(errs, "Invalid status")
	}
	return errs
}

func (pc *PropertyController) CreateProperty(c echo.Context) error {
	user := currentUser(c)
	ctx := c.Request().Context()

	var property models.Property
	if err := c.Bind(&property); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": []string{"Invalid request body"}})
	}

	if errs := validateProperty(&property); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	// The owner is always the authenticated caller, never client-supplied.
	property.ID = primitive.NilObjectID
	property.OwnerID = user.ID
	if property.Status == "" {
		property.Status = models.PropertyStatusActive
	}
	property.Views = 0
	property.Saves = 0

	if err := pc.properties.Create(ctx, &property); err != nil {
		log.Printf("create property: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	utils.InvalidateCache(ctx, propertyCachePrefix)
	return c.JSON(http.StatusCreated, property)
}

func (pc *PropertyController) GetProperty(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"msg": "Property not found"})
	}

	ctx := c.Request().Context()
	property, err := pc.properties.FindByID(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "Property not found"})
		}
		log.Printf("find property: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	if err := pc.properties.IncrementViews(ctx, id); err != nil {
		log.Printf("increment views: %v", err)
	} else {
		property.Views++
	}

	return c.JSON(http.StatusOK, property)
}

func (pc *PropertyController) UpdateProperty(c echo.Context) error {
	user := currentUser(c)
	ctx := c.Request().Context()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"msg": "Property not found"})
	}

	property, err := pc.properties.FindByID(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "Property not found"})
		}
		log.Printf("find property: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	if property.OwnerID != user.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You are not authorized to update this property"})
	}

	var update models.Property
	if err := c.Bind(&update); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": []string{"Invalid request body"}})
	}

	if errs := validateProperty(&update); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	property.Title = update.Title
	property.Description = update.Description
	property.PropertyType = update.PropertyType
	property.ListingType = update.ListingType
	property.Address = update.Address
	property.Price = update.Price
	property.Availability = update.Availability
	property.Features = update.Features
	property.Images = update.Images
	property.Occupancy = update.Occupancy
	property.SeekerPrefs = update.SeekerPrefs
	if update.Status != "" {
		property.Status = update.Status
	}

	if err := pc.properties.Update(ctx, property); err != nil {
		log.Printf("update property: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		Type:      models.NotificationTypePropertyUpdate,
		Content:   "A property you saved was updated: " + property.Title,
		RelatedID: &property.ID,
		CreatedAt: time.Now(),
	}
	if err := pc.users.PushNotificationToSavers(ctx, property.ID, notification); err != nil {
		log.Printf("notify savers: %v", err)
	}

	utils.InvalidateCache(ctx, propertyCachePrefix)
	return c.JSON(http.StatusOK, property)
}

func (pc *PropertyController) DeleteProperty(c echo.Context) error {
	user := currentUser(c)
	ctx := c.Request().Context()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"msg": "Property not found"})
	}

	property, err := pc.properties.FindByID(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "Property not found"})
		}
		log.Printf("find property: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	if property.OwnerID != user.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "You are not authorized to delete this property"})
	}

	if err := pc.properties.Delete(ctx, id); err != nil {
		log.Printf("delete property: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	utils.InvalidateCache(ctx, propertyCachePrefix)
	return c.JSON(http.StatusOK, echo.Map{"message": "Property deleted successfully"})
}

func (pc *PropertyController) ListProperties(c echo.Context) error {
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

	query := store.PropertySearch{
		City:         c.QueryParam("city"),
		PropertyType: c.QueryParam("propertyType"),
		ListingType:  c.QueryParam("listingType"),
		Status:       c.QueryParam("status"),
		Search:       c.QueryParam("search"),
		Page:         page,
		Limit:        limit,
	}
	if priceMin := c.QueryParam("price_min"); priceMin != "" {
		if min, err := strconv.ParseFloat(priceMin, 64); err == nil {
			query.PriceMin = min
		}
	}
	if priceMax := c.QueryParam("price_max"); priceMax != "" {
		if max, err := strconv.ParseFloat(priceMax, 64); err == nil {
			query.PriceMax = max
		}
	}
	if bedrooms := c.QueryParam("bedrooms"); bedrooms != "" {
		if num, err := strconv.Atoi(bedrooms); err == nil {
			query.Bedrooms = num
		}
	}

	cacheKey := utils.GenerateQueryCacheKey(propertyCachePrefix, map[string]string{
		"city":         query.City,
		"propertyType": query.PropertyType,
		"listingType":  query.ListingType,
		"status":       query.Status,
		"search":       query.Search,
		"price_min":    c.QueryParam("price_min"),
		"price_max":    c.QueryParam("price_max"),
		"bedrooms":     c.QueryParam("bedrooms"),
		"page":         strconv.Itoa(page),
		"limit":        strconv.Itoa(limit),
	})
	var cached map[string]interface{}
	if hit, err := utils.GetCached(ctx, cacheKey, &cached); err == nil && hit {
		return c.JSON(http.StatusOK, cached)
	}

	properties, total, err := pc.properties.Search(ctx, query)
	if err != nil {
		log.Printf("search properties: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}
	if properties == nil {
		properties = []models.Property{}
	}

	pages := (total + int64(limit) - 1) / int64(limit)
	resp := echo.Map{
		"properties": properties,
		"pagination": echo.Map{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": pages,
		},
	}

	if err := utils.SetCached(ctx, cacheKey, resp, time.Minute); err != nil {
		log.Printf("cache properties: %v", err)
	}

	return c.JSON(http.StatusOK, resp)
}
