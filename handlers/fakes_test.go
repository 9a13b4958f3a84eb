package handlers

import (
	"context"
	"sort"
	"strings"
	"time"

	"RoomLink/models"
	"RoomLink/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory store fakes, used by every handler test in this package.

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
	calls int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, u *models.User) error {
	f.calls++
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return store.ErrDuplicateEmail
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	f.calls++
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	f.calls++
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) Search(ctx context.Context, q store.UserSearch) ([]models.User, int64, error) {
	f.calls++
	var matched []models.User
	for _, u := range f.users {
		if q.UserType != "" && u.UserType != q.UserType {
			continue
		}
		if q.City != "" {
			found := false
			for _, loc := range u.Preferences.Locations {
				if strings.Contains(strings.ToLower(loc), strings.ToLower(q.City)) {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if q.Search != "" {
			needle := strings.ToLower(q.Search)
			if !strings.Contains(strings.ToLower(u.Name), needle) &&
				!strings.Contains(strings.ToLower(u.Bio), needle) {
				continue
			}
		}
		matched = append(matched, *u)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	page, limit := fakePage(q.Page, q.Limit)
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func fakePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > store.MaxPageSize {
		limit = store.MaxPageSize
	}
	return page, limit
}

func (f *fakeUserStore) Update(ctx context.Context, u *models.User) error {
	f.calls++
	if _, ok := f.users[u.ID]; !ok {
		return store.ErrNotFound
	}
	u.UpdatedAt = time.Now()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) AddSavedProperty(ctx context.Context, userID, propertyID primitive.ObjectID) (bool, error) {
	f.calls++
	u, ok := f.users[userID]
	if !ok {
		return false, store.ErrNotFound
	}
	for _, saved := range u.SavedProperties {
		if saved == propertyID {
			return false, nil
		}
	}
	u.SavedProperties = append(u.SavedProperties, propertyID)
	return true, nil
}

func (f *fakeUserStore) RemoveSavedProperty(ctx context.Context, userID, propertyID primitive.ObjectID) (bool, error) {
	f.calls++
	u, ok := f.users[userID]
	if !ok {
		return false, store.ErrNotFound
	}
	for i, saved := range u.SavedProperties {
		if saved == propertyID {
			u.SavedProperties = append(u.SavedProperties[:i], u.SavedProperties[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) PushNotification(ctx context.Context, userID primitive.ObjectID, n models.Notification) error {
	f.calls++
	u, ok := f.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	u.Notifications = append(u.Notifications, n)
	return nil
}

func (f *fakeUserStore) PushNotificationToSavers(ctx context.Context, propertyID primitive.ObjectID, n models.Notification) error {
	f.calls++
	for _, u := range f.users {
		for _, saved := range u.SavedProperties {
			if saved == propertyID {
				u.Notifications = append(u.Notifications, n)
				break
			}
		}
	}
	return nil
}

func (f *fakeUserStore) MarkNotificationRead(ctx context.Context, userID, notificationID primitive.ObjectID) error {
	f.calls++
	u, ok := f.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	for i := range u.Notifications {
		if u.Notifications[i].ID == notificationID {
			u.Notifications[i].Read = true
			return nil
		}
	}
	return store.ErrNotFound
}

type fakePropertyStore struct {
	properties map[primitive.ObjectID]*models.Property
}

func newFakePropertyStore() *fakePropertyStore {
	return &fakePropertyStore{properties: make(map[primitive.ObjectID]*models.Property)}
}

func (f *fakePropertyStore) Create(ctx context.Context, p *models.Property) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	f.properties[p.ID] = &cp
	return nil
}

func (f *fakePropertyStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	p, ok := f.properties[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePropertyStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Property, error) {
	result := []models.Property{}
	for _, id := range ids {
		if p, ok := f.properties[id]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (f *fakePropertyStore) Search(ctx context.Context, q store.PropertySearch) ([]models.Property, int64, error) {
	var matched []models.Property
	for _, p := range f.properties {
		if q.City != "" && !strings.Contains(strings.ToLower(p.Address.City), strings.ToLower(q.City)) {
			continue
		}
		if q.PropertyType != "" && p.PropertyType != q.PropertyType {
			continue
		}
		if q.ListingType != "" && p.ListingType != q.ListingType {
			continue
		}
		if q.Status != "" && p.Status != q.Status {
			continue
		}
		if q.Search != "" {
			needle := strings.ToLower(q.Search)
			if !strings.Contains(strings.ToLower(p.Title), needle) &&
				!strings.Contains(strings.ToLower(p.Description), needle) {
				continue
			}
		}
		if q.PriceMin > 0 && p.Price.Amount < q.PriceMin {
			continue
		}
		if q.PriceMax > 0 && p.Price.Amount > q.PriceMax {
			continue
		}
		if q.Bedrooms > 0 && p.Features.Bedrooms != q.Bedrooms {
			continue
		}
		matched = append(matched, *p)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	page, limit := fakePage(q.Page, q.Limit)
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakePropertyStore) Update(ctx context.Context, p *models.Property) error {
	if _, ok := f.properties[p.ID]; !ok {
		return store.ErrNotFound
	}
	p.UpdatedAt = time.Now()
	cp := *p
	f.properties[p.ID] = &cp
	return nil
}

func (f *fakePropertyStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.properties[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.properties, id)
	return nil
}

func (f *fakePropertyStore) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	if p, ok := f.properties[id]; ok {
		p.Views++
	}
	return nil
}

func (f *fakePropertyStore) AdjustSaves(ctx context.Context, id primitive.ObjectID, delta int64) error {
	if p, ok := f.properties[id]; ok {
		p.Saves += delta
	}
	return nil
}

type fakeConversationStore struct {
	conversations map[primitive.ObjectID]*models.Conversation
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{conversations: make(map[primitive.ObjectID]*models.Conversation)}
}

func sameParticipants(a, b []primitive.ObjectID) bool {
	if len(a) != len(b) {
		return false
	}
	for _, x := range a {
		found := false
		for _, y := range b {
			if x == y {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (f *fakeConversationStore) CreateOrGet(ctx context.Context, participants []primitive.ObjectID, propertyID *primitive.ObjectID) (*models.Conversation, bool, error) {
	for _, c := range f.conversations {
		if !sameParticipants(c.Participants, participants) {
			continue
		}
		if (c.PropertyID == nil) != (propertyID == nil) {
			continue
		}
		if c.PropertyID != nil && *c.PropertyID != *propertyID {
			continue
		}
		cp := *c
		return &cp, false, nil
	}

	now := time.Now()
	unread := make(map[string]int64, len(participants))
	for _, p := range participants {
		unread[p.Hex()] = 0
	}
	conversation := &models.Conversation{
		ID:           primitive.NewObjectID(),
		Participants: participants,
		PropertyID:   propertyID,
		UnreadCounts: unread,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.conversations[conversation.ID] = conversation
	cp := *conversation
	return &cp, true, nil
}

func (f *fakeConversationStore) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error) {
	var result []models.Conversation
	for _, c := range f.conversations {
		if c.HasParticipant(userID) {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (f *fakeConversationStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error) {
	c, ok := f.conversations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeConversationStore) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	c, ok := f.conversations[id]
	if !ok {
		return store.ErrNotFound
	}
	c.UnreadCounts[userID.Hex()] = 0
	c.UpdatedAt = time.Now()
	return nil
}

func (f *fakeConversationStore) TouchLastMessage(ctx context.Context, id, senderID, messageID primitive.ObjectID) error {
	c, ok := f.conversations[id]
	if !ok {
		return store.ErrNotFound
	}
	c.LastMessageID = &messageID
	for _, p := range c.Participants {
		if p != senderID {
			c.UnreadCounts[p.Hex()]++
		}
	}
	c.UpdatedAt = time.Now()
	return nil
}

type fakeOTPStore struct {
	records []models.OTP
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{}
}

func (f *fakeOTPStore) Create(ctx context.Context, otp *models.OTP) error {
	if otp.ID.IsZero() {
		otp.ID = primitive.NewObjectID()
	}
	if otp.CreatedAt.IsZero() {
		otp.CreatedAt = time.Now()
	}
	f.records = append(f.records, *otp)
	return nil
}

func (f *fakeOTPStore) FindLatestByEmail(ctx context.Context, email string) (*models.OTP, error) {
	var latest *models.OTP
	for i := range f.records {
		if f.records[i].Email != email {
			continue
		}
		if latest == nil || f.records[i].CreatedAt.After(latest.CreatedAt) {
			latest = &f.records[i]
		}
	}
	if latest == nil {
		return nil, store.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeOTPStore) DeleteForEmail(ctx context.Context, email string) error {
	kept := f.records[:0]
	for _, r := range f.records {
		if r.Email != email {
			kept = append(kept, r)
		}
	}
	f.records = kept
	return nil
}
