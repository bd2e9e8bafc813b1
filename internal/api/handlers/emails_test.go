package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"headstone-api/internal/api/handlers"
	"headstone-api/internal/services"
	"headstone-api/internal/transport/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestEmailHandler_SendEmails(t *testing.T) {
	router := newTestRouter()
	mockService := new(MockNotificationService)
	router.POST("/emails/send/", handlers.NewEmailHandler(mockService, zap.NewNop()).SendEmails)
	body := `{"customer_ids": [1, 2], "subject": "Spring cleaning", "body": "Hello {{first_name}}"}`

	cases := []struct {
		name     string
		resp     *dto.SendEmailsResponse
		wantCode int
	}{
		{"All Sent", &dto.SendEmailsResponse{OK: true, SentCount: 2}, http.StatusOK},
		{"Sent And Skipped", &dto.SendEmailsResponse{OK: true, SentCount: 1, SkippedCount: 1}, http.StatusOK},
		{"Partial Failure", &dto.SendEmailsResponse{SentCount: 1, FailedCount: 1}, http.StatusMultiStatus},
		{"Skipped And Failed", &dto.SendEmailsResponse{SkippedCount: 1, FailedCount: 1}, http.StatusMultiStatus},
		{"All Failed", &dto.SendEmailsResponse{FailedCount: 2}, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockService.On("SendCustomerEmails", mock.Anything, mock.MatchedBy(func(req *dto.SendEmailsRequest) bool {
				return len(req.CustomerIDs) == 2 && req.Subject == "Spring cleaning"
			})).Return(tc.resp, nil).Once()

			recorder := perform(router, http.MethodPost, "/emails/send/", body)

			assert.Equal(t, tc.wantCode, recorder.Code)
			assert.Contains(t, recorder.Body.String(), fmt.Sprintf(`"failed_count":%d`, tc.resp.FailedCount))
		})
	}

	t.Run("Unknown Customers", func(t *testing.T) {
		err := &services.ValidationError{Fields: map[string]string{"customer_ids": "Unknown customer ids: 2"}}
		mockService.On("SendCustomerEmails", mock.Anything, mock.Anything).Return(nil, err).Once()

		recorder := perform(router, http.MethodPost, "/emails/send/", body)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Unknown customer ids: 2")
	})
	mockService.AssertExpectations(t)
}
