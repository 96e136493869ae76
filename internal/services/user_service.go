package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"

	"atlas/internal/models"
	"atlas/internal/repositories"
	"atlas/pkg/rabbitmq"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// The categories of update keys accepted by UpdateUser. Keys outside these
// sets are ignored, the way a strong-parameters filter would drop them.
var profileStringFields = map[string]string{
	"name":             "name",
	"last_name":        "last_name",
	"website":          "website",
	"description":      "description",
	"location":         "location",
	"twitter_username": "twitter_username",
	"disqus_shortname": "disqus_shortname",
}

// ValidationErrors collects field-level validation failures, keyed by the
// payload field name. All rules are evaluated before it is returned, so the
// caller can fix every problem in one round trip.
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e))
}

// UserUpdate is the staged field map of a partial user update. Each value is
// kept as raw JSON so three states stay distinguishable: key absent (leave
// the field untouched), key present with null (clear the field) and key
// present with a value (set the field).
type UserUpdate map[string]json.RawMessage

// Has reports whether the field was present in the payload at all.
func (u UserUpdate) Has(field string) bool {
	_, ok := u[field]
	return ok
}

// IsNull reports whether the field was present with an explicit null value.
func (u UserUpdate) IsNull(field string) bool {
	raw, ok := u[field]
	return ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// stringValue unmarshals a present, non-null field into a string.
func (u UserUpdate) stringValue(field string) (string, error) {
	var s string
	if err := json.Unmarshal(u[field], &s); err != nil {
		return "", fmt.Errorf("field %s is not a string", field)
	}
	return s, nil
}

// UserService handles business logic for reading and updating user accounts
// and profiles.
type UserService struct {
	userRepo         repositories.UserRepository
	notificationRepo repositories.NotificationRepository
	mqClient         *rabbitmq.Client
	validate         *validator.Validate
	defaultBasemap   map[string]interface{}
}

// NewUserService creates a new UserService. The mqClient may be nil, in which
// case update events are not published.
func NewUserService(
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
	mqClient *rabbitmq.Client,
	defaultBasemap map[string]interface{},
) *UserService {
	return &UserService{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		mqClient:         mqClient,
		validate:         validator.New(),
		defaultBasemap:   defaultBasemap,
	}
}

// Me assembles the payload of the "me" endpoint: the user's public
// representation plus the derived fields the dashboard needs.
func (s *UserService) Me(user *models.User) (map[string]interface{}, error) {
	notifications, err := s.notificationRepo.ListByCategory(user.ID, "dashboard")
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard notifications: %w", err)
	}

	payload := user.Presentation()
	payload["default_fallback_basemap"] = s.defaultBasemap
	payload["dashboard_notifications"] = notifications
	return payload, nil
}

// UpdateUser applies a partial update to the user. Fields absent from the
// update are left untouched; fields present with null are cleared. Every
// validation rule runs before anything is persisted, and on success all
// staged columns are written in a single statement. Returns ValidationErrors
// when one or more fields are rejected.
func (s *UserService) UpdateUser(user *models.User, update UserUpdate) (*models.User, error) {
	columns := make(map[string]interface{})
	validationErrs := make(ValidationErrors)

	s.stageAccountFields(user, update, columns, validationErrs)
	s.stageProfileFields(update, columns, validationErrs)

	if len(validationErrs) > 0 {
		return nil, validationErrs
	}

	if err := s.userRepo.UpdateFields(user.ID, columns); err != nil {
		return nil, fmt.Errorf("failed to persist user update: %w", err)
	}

	updated, err := s.userRepo.GetByID(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user %s: %w", user.ID, err)
	}

	s.publishUserUpdated(updated, columns)
	return updated, nil
}

// stageAccountFields validates and stages the credential fields: email and
// the old/new/confirm password triple.
func (s *UserService) stageAccountFields(user *models.User, update UserUpdate, columns map[string]interface{}, validationErrs ValidationErrors) {
	if update.Has("email") {
		email, err := update.stringValue("email")
		if err != nil || s.validate.Var(email, "required,email") != nil {
			validationErrs["email"] = "is not a valid email address"
		} else {
			columns["email"] = email
		}
	}

	if !update.Has("new_password") {
		return
	}

	oldPassword, _ := update.stringValue("old_password")
	newPassword, _ := update.stringValue("new_password")
	confirmPassword, _ := update.stringValue("confirm_password")

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		validationErrs["old_password"] = "does not match the current password"
	}
	if newPassword != confirmPassword {
		validationErrs["new_password"] = "does not match the password confirmation"
	} else if len(newPassword) < 6 {
		validationErrs["new_password"] = "must be at least 6 characters long"
	}

	if _, ok := validationErrs["old_password"]; ok {
		return
	}
	if _, ok := validationErrs["new_password"]; ok {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		validationErrs["new_password"] = "could not be processed"
		return
	}
	columns["password"] = string(hashed)
}

// stageProfileFields stages the nullable profile attributes. An explicit null
// stages a NULL column write; boolean fields get the same tri-state handling
// as string fields.
func (s *UserService) stageProfileFields(update UserUpdate, columns map[string]interface{}, validationErrs ValidationErrors) {
	for field, column := range profileStringFields {
		if !update.Has(field) {
			continue
		}
		if update.IsNull(field) {
			columns[column] = nil
			continue
		}
		value, err := update.stringValue(field)
		if err != nil {
			validationErrs[field] = "must be a string"
			continue
		}
		columns[column] = value
	}

	if update.Has("available_for_hire") {
		if update.IsNull("available_for_hire") {
			columns["available_for_hire"] = nil
		} else {
			var available bool
			if err := json.Unmarshal(update["available_for_hire"], &available); err != nil {
				validationErrs["available_for_hire"] = "must be a boolean"
			} else {
				columns["available_for_hire"] = available
			}
		}
	}
}

// publishUserUpdated emits a user.updated event with the names of the changed
// columns. Publication failures are logged, not propagated: the update itself
// already succeeded.
func (s *UserService) publishUserUpdated(user *models.User, columns map[string]interface{}) {
	if s.mqClient == nil {
		log.Println("RabbitMQ client is not initialized. Skipping message publication.")
		return
	}

	changed := make([]string, 0, len(columns))
	for column := range columns {
		changed = append(changed, column)
	}

	event := map[string]interface{}{
		"event":    "user.updated",
		"user_id":  user.ID,
		"username": user.Username,
		"changed":  changed,
	}
	if err := s.mqClient.PublishUserUpdated(event); err != nil {
		log.Printf("Warning: Failed to publish user updated event for user %s: %v", user.ID, err)
	}
}
