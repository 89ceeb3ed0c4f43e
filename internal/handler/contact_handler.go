package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contactform/internal/model"
	"contactform/internal/service/contact"
	"contactform/pkg/logger"
)

// Form keys posted by the site's contact form.
const (
	FieldName    = "Client-Name"
	FieldEmail   = "Client-Email"
	FieldMessage = "Client-s-Message"
	FieldService = "services"
	FieldPhone   = "field-5"
)

const (
	msgSubmitted       = "Form submitted successfully"
	msgLoggedIn        = "Login successful"
	msgInvalidIdentity = "Invalid email or phone number"
	msgMissingFields   = "Name, email, and message are required."
	msgInvalidBody     = "Invalid request body"
)

// LoginSucceededKey is set on the gin context once /login matched a stored identity.
const LoginSucceededKey = "login_succeeded"

type loginRequest struct {
	Email       jsonText `json:"email"`
	PhoneNumber jsonText `json:"phone_number"`
}

func (r loginRequest) identity() model.Identity {
	return model.Identity{Email: string(r.Email), PhoneNumber: string(r.PhoneNumber)}
}

// jsonText accepts a JSON string or number. Numbers keep their literal text, so a
// phone number sent as 5551111 matches the stored "5551111". null reads as "".
type jsonText string

func (t *jsonText) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = jsonText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected a string or a number, got %s", b)
	}
	*t = jsonText(n.String())
	return nil
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func success(message string) statusResponse {
	return statusResponse{Status: "success", Message: message}
}

func failure(message string) statusResponse {
	return statusResponse{Status: "error", Message: message}
}

type ContactHandler struct {
	contactService *contact.Service
	logger         *zap.Logger
}

func NewContactHandler(contactService *contact.Service, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		logger:         logger,
	}
}

// SubmitForm handles POST /submit-form
func (h *ContactHandler) SubmitForm(c *gin.Context) {
	sub := &model.Submission{
		Name:        c.PostForm(FieldName),
		Email:       c.PostForm(FieldEmail),
		Message:     c.PostForm(FieldMessage),
		Service:     c.PostForm(FieldService),
		PhoneNumber: c.PostForm(FieldPhone),
	}

	err := h.contactService.Submit(c.Request.Context(), sub)
	switch {
	case err == nil:
		logger.WithTrace(c.Request.Context(), h.logger).Info("Submission stored",
			zap.Int64("submission_id", sub.ID))
		c.JSON(http.StatusOK, success(msgSubmitted))
	case errors.Is(err, contact.ErrInvalidIdentity):
		c.JSON(http.StatusOK, failure(msgInvalidIdentity))
	case errors.Is(err, contact.ErrMissingFields):
		c.JSON(http.StatusOK, failure(msgMissingFields))
	default:
		h.internalError(c, "Submission failed", err)
	}
}

// Login handles POST /login
func (h *ContactHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, failure(msgInvalidBody))
		return
	}

	err := h.contactService.Login(c.Request.Context(), req.identity())
	switch {
	case err == nil:
		c.Set(LoginSucceededKey, true)
		c.JSON(http.StatusOK, success(msgLoggedIn))
	case errors.Is(err, contact.ErrInvalidIdentity):
		c.JSON(http.StatusOK, failure(msgInvalidIdentity))
	default:
		h.internalError(c, "Login check failed", err)
	}
}

// internalError answers with a bare 500; details only go to the log.
func (h *ContactHandler) internalError(c *gin.Context, msg string, err error) {
	logger.WithTrace(c.Request.Context(), h.logger).Error(msg,
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.AbortWithStatus(http.StatusInternalServerError)
}
