package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	emailCharsRe = regexp.MustCompile(`^[a-zA-Z0-9@.]+$`)
	emailShapeRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	personNameRe = regexp.MustCompile(`^[a-zA-Zа-яА-Я]+$`)
	letterRe     = regexp.MustCompile(`[a-zA-Z]`)
)

type RegisterRequest struct {
	Username   string `json:"username" validate:"required,min=8,max=30,alphanum"`
	Email      string `json:"email" validate:"required,min=8,max=50,emailaddr"`
	Password   string `json:"password" validate:"required,min=8,max=30,alphanum,hasletter"`
	FirstName  string `json:"firstName" validate:"required,min=2,personname"`
	LastName   string `json:"lastName" validate:"required,min=2,personname"`
	Patronymic string `json:"patronymic" validate:"omitempty,min=2,personname"`
	Avatar     string `json:"avatar"`
}

// AddUserRequest is the admin form; unlike self-registration it picks a role.
type AddUserRequest struct {
	RegisterRequest
	Role string `json:"role" validate:"omitempty,oneof=admin user"`
}

// UpdateUserRequest is a partial profile update; nil fields are left alone.
type UpdateUserRequest struct {
	Username   *string `json:"username" validate:"omitempty,min=8,max=30,alphanum"`
	Email      *string `json:"email" validate:"omitempty,min=8,max=50,emailaddr"`
	Password   *string `json:"password" validate:"omitempty,min=8,max=30,alphanum,hasletter"`
	FirstName  *string `json:"firstName" validate:"omitempty,min=2,personname"`
	LastName   *string `json:"lastName" validate:"omitempty,min=2,personname"`
	Patronymic *string `json:"patronymic" validate:"omitempty,min=2,personname"`
	Avatar     *string `json:"avatar"`
	Role       *string `json:"role" validate:"omitempty,oneof=admin user"`
}

type CreateBoardRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type AttachmentInput struct {
	Name       string `json:"name" validate:"required,max=255"`
	Size       int64  `json:"size" validate:"min=0"`
	MimeType   string `json:"mimeType" validate:"required"`
	ContentRef string `json:"contentRef" validate:"required"`
}

type VoiceMessageInput struct {
	ContentRef string        `json:"contentRef" validate:"required"`
	Duration   time.Duration `json:"duration" validate:"min=0"`
}

type CreateTaskRequest struct {
	// BoardID defaults to the session's current board.
	BoardID     string `json:"boardId"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"omitempty,oneof=created in-progress completed"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	// AssigneeIDs defaults to the creator when nil.
	AssigneeIDs   []string            `json:"assigneeIds"`
	Deadline      *time.Time          `json:"deadline"`
	IsPinned      bool                `json:"isPinned"`
	Attachments   []AttachmentInput   `json:"attachments" validate:"dive"`
	VoiceMessages []VoiceMessageInput `json:"voiceMessages" validate:"dive"`
}

// UpdateTaskRequest is a partial task update; nil fields are left alone.
// Comments, when set, replaces the whole comment list.
type UpdateTaskRequest struct {
	Title         *string          `json:"title"`
	Description   *string          `json:"description"`
	Status        *string          `json:"status" validate:"omitempty,oneof=created in-progress completed"`
	Priority      *string          `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssigneeIDs   *[]string        `json:"assigneeIds"`
	Deadline      *time.Time       `json:"deadline"`
	ClearDeadline bool             `json:"clearDeadline"`
	IsPinned      *bool            `json:"isPinned"`
	Comments      *[]CommentRecord `json:"comments"`
}

// CommentRecord is a comment as the client sends it back in a full-list
// replacement. Unknown ids are minted fresh.
type CommentRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

var fieldMessages = map[string]string{
	"required":   "is required",
	"min":        "is too short",
	"max":        "is too long",
	"alphanum":   "must contain only English letters and digits",
	"hasletter":  "must contain at least one letter",
	"emailaddr":  "must be a valid email address made of English letters, digits, @ and .",
	"personname": "must contain only letters",
	"oneof":      "has an unsupported value",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("emailaddr", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return emailCharsRe.MatchString(s) && emailShapeRe.MatchString(s)
	})
	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return personNameRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("hasletter", func(fl validator.FieldLevel) bool {
		return letterRe.MatchString(fl.Field().String())
	})
	return v
}

// check runs struct validation and converts the first failure.
func (a *App) check(req any) error {
	err := a.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	fe := verrs[0]
	msg, ok := fieldMessages[fe.Tag()]
	if !ok {
		msg = "is invalid"
	}
	return &ValidationError{Field: fe.Field(), Message: msg}
}
