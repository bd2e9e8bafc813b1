package handlers

import (
	"net/http"

	"headstone-api/internal/services"
	"headstone-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EmailHandler struct {
	service services.NotificationService
	logger  *zap.Logger
}

func NewEmailHandler(service services.NotificationService, logger *zap.Logger) *EmailHandler {
	return &EmailHandler{service: service, logger: logger.Named("emails")}
}

// SendEmails godoc
// @Summary      Email customers
// @Description  Sends one templated email per customer. Placeholders such as {{first_name}} and {{customer_name}} are filled per recipient.
// @Description  Returns 200 when nothing failed, 207 on partial failure and 502 when every attempted send failed.
// @Tags         emails
// @Accept       json
// @Produce      json
// @Param        email  body      dto.SendEmailsRequest  true  "Recipients and template"
// @Success      200 {object}  dto.SendEmailsResponse
// @Success      207 {object}  dto.SendEmailsResponse
// @Failure      400 {object}  map[string]interface{} "Validation failed or unknown customer ids"
// @Failure      502 {object}  dto.SendEmailsResponse
// @Router       /emails/send/ [post]
// @Security     BearerAuth
func (h *EmailHandler) SendEmails(c *gin.Context) {
	var req dto.SendEmailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	resp, err := h.service.SendCustomerEmails(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "send emails")
		return
	}
	c.JSON(emailStatus(resp), resp)
}

func emailStatus(resp *dto.SendEmailsResponse) int {
	switch {
	case resp.FailedCount == 0:
		return http.StatusOK
	case resp.SentCount == 0 && resp.SkippedCount == 0:
		return http.StatusBadGateway
	default:
		return http.StatusMultiStatus
	}
}
