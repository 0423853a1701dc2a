package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/dcalderon/example-users-api/internal/models"
	"github.com/dcalderon/example-users-api/internal/services"
)

func TestGetUsersHandler(t *testing.T) {
	tests := []struct {
		name         string
		records      []models.UserRecord
		listErr      error
		expectedCode int
		expectedBody map[string]any
	}{
		{
			name: "users found",
			records: []models.UserRecord{
				{Username: "ana", TargetID: "42", DateBirth: "1990-05-04", Type: "Administrador", State: true},
			},
			expectedCode: 200,
			expectedBody: map[string]any{
				"status":  true,
				"message": "Successful.",
				"data": []any{
					map[string]any{
						"username":   "ana",
						"target_id":  "42",
						"date_birth": "1990-05-04",
						"type":       "Administrador",
						"state":      true,
					},
				},
			},
		},
		{
			name:         "no users",
			records:      nil,
			expectedCode: 200,
			expectedBody: map[string]any{
				"status":  false,
				"message": "Users Not Found.",
				"data":    []any{},
			},
		},
		{
			name:         "store failure",
			listErr:      errors.New("db down"),
			expectedCode: 500,
			expectedBody: map[string]any{"error": "Internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockSvc := NewMockUserLister(ctrl)
			mockSvc.EXPECT().List(gomock.Any()).Return(tt.records, tt.listErr)

			handler := NewGetUsersHandler(mockSvc)

			req := httptest.NewRequest(http.MethodGet, "/example-crud/data", nil)
			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))

			var resp map[string]any
			err := json.Unmarshal(rr.Body.Bytes(), &resp)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, resp)
		})
	}
}

func TestCreateUserHandler(t *testing.T) {
	tests := []struct {
		name         string
		reqBody      models.CreateUserRequest
		rawBody      string
		mockSetup    func(m *MockUserCreator)
		expectedCode int
		expectedBody map[string]any
	}{
		{
			name:    "success",
			reqBody: models.CreateUserRequest{TargetID: "42", Username: "ana", Type: "Administrador"},
			mockSetup: func(m *MockUserCreator) {
				m.EXPECT().
					Create(gomock.Any(), models.CreateUserRequest{TargetID: "42", Username: "ana", Type: "Administrador"}).
					Return(nil)
			},
			expectedCode: 201,
			expectedBody: map[string]any{
				"status":  true,
				"message": "The user ana was created successfully.",
			},
		},
		{
			name:    "missing required fields",
			reqBody: models.CreateUserRequest{Username: "ana"},
			mockSetup: func(m *MockUserCreator) {
				m.EXPECT().Create(gomock.Any(), gomock.Any()).Return(services.ErrMissingRequiredFields)
			},
			expectedCode: 400,
			expectedBody: map[string]any{"error": "Bad Request. 'target_id' & 'username' are required."},
		},
		{
			name:    "duplicate",
			reqBody: models.CreateUserRequest{TargetID: "42", Username: "ana"},
			mockSetup: func(m *MockUserCreator) {
				m.EXPECT().Create(gomock.Any(), gomock.Any()).Return(services.ErrUserAlreadyExists)
			},
			expectedCode: 400,
			expectedBody: map[string]any{"error": "Bad Request. User already exists."},
		},
		{
			name:    "invalid format",
			reqBody: models.CreateUserRequest{TargetID: "12345678901", Username: "ana"},
			mockSetup: func(m *MockUserCreator) {
				m.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(&services.ValidationError{Reason: "Target id 12345678901 it's not allowed."})
			},
			expectedCode: 400,
			expectedBody: map[string]any{"error": "Bad Request. Target id 12345678901 it's not allowed."},
		},
		{
			name:    "store failure",
			reqBody: models.CreateUserRequest{TargetID: "42", Username: "ana"},
			mockSetup: func(m *MockUserCreator) {
				m.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			expectedCode: 500,
			expectedBody: map[string]any{"error": "Internal server error"},
		},
		{
			name:         "invalid json",
			rawBody:      "{invalid json}",
			expectedCode: 400,
			expectedBody: map[string]any{"error": "Bad Request. 'target_id' & 'username' are required."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockSvc := NewMockUserCreator(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewCreateUserHandler(mockSvc)

			var body *bytes.Buffer
			if tt.rawBody != "" {
				body = bytes.NewBufferString(tt.rawBody)
			} else {
				b, _ := json.Marshal(tt.reqBody)
				body = bytes.NewBuffer(b)
			}

			req := httptest.NewRequest(http.MethodPost, "/example-crud/data", body)
			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			var resp map[string]any
			err := json.Unmarshal(rr.Body.Bytes(), &resp)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, resp)
		})
	}
}

func TestUpdateUserHandler(t *testing.T) {
	username := "ana"
	webmaster := "Webmaster"

	tests := []struct {
		name         string
		reqBody      models.UpdateUserRequest
		rawBody      string
		mockSetup    func(m *MockUserUpdater)
		expectedCode int
		expectedBody map[string]any
	}{
		{
			name:    "success with username",
			reqBody: models.UpdateUserRequest{TargetID: "42", Username: &username},
			mockSetup: func(m *MockUserUpdater) {
				m.EXPECT().
					Update(gomock.Any(), models.UpdateUserRequest{TargetID: "42", Username: &username}).
					Return(nil)
			},
			expectedCode: 200,
			expectedBody: map[string]any{
				"status":  true,
				"message": "The user ana was updated successfully.",
			},
		},
		{
			name:    "success without username quotes empty name",
			reqBody: models.UpdateUserRequest{TargetID: "42", Type: &webmaster},
			mockSetup: func(m *MockUserUpdater) {
				m.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
			},
			expectedCode: 200,
			expectedBody: map[string]any{
				"status":  true,
				"message": "The user  was updated successfully.",
			},
		},
		{
			name:    "missing target_id",
			reqBody: models.UpdateUserRequest{Username: &username},
			mockSetup: func(m *MockUserUpdater) {
				m.EXPECT().Update(gomock.Any(), gomock.Any()).Return(services.ErrMissingRequiredFields)
			},
			expectedCode: 400,
			expectedBody: map[string]any{"error": "Bad Request. 'target_id' is required."},
		},
		{
			name:    "unknown user",
			reqBody: models.UpdateUserRequest{TargetID: "99", Username: &username},
			mockSetup: func(m *MockUserUpdater) {
				m.EXPECT().Update(gomock.Any(), gomock.Any()).Return(services.ErrUserDoesNotExist)
			},
			expectedCode: 400,
			expectedBody: map[string]any{"error": "Bad Request. User don't exists."},
		},
		{
			name:    "empty update",
			reqBody: models.UpdateUserRequest{TargetID: "42"},
			mockSetup: func(m *MockUserUpdater) {
				m.EXPECT().Update(gomock.Any(), gomock.Any()).Return(services.ErrEmptyUpdate)
			},
			expectedCode: 400,
			expectedBody: map[string]any{"error": "Bad Request. Send at least one parameter for update."},
		},
		{
			name:    "invalid format",
			reqBody: models.UpdateUserRequest{TargetID: "42"},
			mockSetup: func(m *MockUserUpdater) {
				m.EXPECT().Update(gomock.Any(), gomock.Any()).
					Return(&services.ValidationError{Reason: "Incorrect date format (Y-m-d)."})
			},
			expectedCode: 400,
			expectedBody: map[string]any{"error": "Bad Request. Incorrect date format (Y-m-d)."},
		},
		{
			name:    "store failure",
			reqBody: models.UpdateUserRequest{TargetID: "42", Username: &username},
			mockSetup: func(m *MockUserUpdater) {
				m.EXPECT().Update(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			expectedCode: 500,
			expectedBody: map[string]any{"error": "Internal server error"},
		},
		{
			name:         "invalid json",
			rawBody:      "{invalid json}",
			expectedCode: 400,
			expectedBody: map[string]any{"error": "Bad Request. 'target_id' is required."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockSvc := NewMockUserUpdater(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewUpdateUserHandler(mockSvc)

			var body *bytes.Buffer
			if tt.rawBody != "" {
				body = bytes.NewBufferString(tt.rawBody)
			} else {
				b, _ := json.Marshal(tt.reqBody)
				body = bytes.NewBuffer(b)
			}

			req := httptest.NewRequest(http.MethodPut, "/example-crud/data", body)
			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			var resp map[string]any
			err := json.Unmarshal(rr.Body.Bytes(), &resp)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, resp)
		})
	}
}
