package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dcalderon/example-users-api/internal/logger"
	"github.com/dcalderon/example-users-api/internal/models"
	"github.com/dcalderon/example-users-api/internal/services"
)

// UserLister defines the interface that the service must implement for GET.
type UserLister interface {
	List(ctx context.Context) ([]models.UserRecord, error)
}

// UserCreator defines the interface that the service must implement for POST.
type UserCreator interface {
	Create(ctx context.Context, req models.CreateUserRequest) error
}

// UserUpdater defines the interface that the service must implement for PUT.
type UserUpdater interface {
	Update(ctx context.Context, req models.UpdateUserRequest) error
}

// UsersResponse represents the GET response with all user records
// swagger:model UsersResponse
type UsersResponse struct {
	// Whether any users were found
	// default: true
	Status bool `json:"status"`

	// Human-readable result message
	// default: Successful.
	Message string `json:"message"`

	// User records
	Data []models.UserRecord `json:"data"`
}

// UserMutationResponse represents a successful create or update response
// swagger:model UserMutationResponse
type UserMutationResponse struct {
	// Always true on success
	// default: true
	Status bool `json:"status"`

	// Success message
	// default: The user john was created successfully.
	Message string `json:"message"`
}

// UserErrorResponse represents an error response for the users resource
// swagger:model UserErrorResponse
type UserErrorResponse struct {
	// Error message
	// default: Bad Request. User already exists.
	Error string `json:"error"`
}

// NewGetUsersHandler returns an HTTP handler listing all users.
// @Summary List users
// @Description Returns every user record. An empty table is a normal response with status=false.
// @Tags users
// @Produce json
// @Success 200 {object} handlers.UsersResponse "User records"
// @Failure 500 {object} handlers.UserErrorResponse "Internal server error"
// @Router /example-crud/data [get]
func NewGetUsersHandler(svc UserLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := svc.List(r.Context())
		if err != nil {
			logger.Log.Errorw("failed to list users", "err", err)
			writeJSON(w, http.StatusInternalServerError, UserErrorResponse{
				Error: "Internal server error",
			})
			return
		}

		resp := UsersResponse{
			Status:  false,
			Message: "Users Not Found.",
			Data:    []models.UserRecord{},
		}
		if len(records) > 0 {
			resp.Status = true
			resp.Message = "Successful."
			resp.Data = records
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// NewCreateUserHandler returns an HTTP handler creating one user.
// @Summary Create a user
// @Description Validates the request body and inserts a new user row. target_id and username are required.
// @Tags users
// @Accept json
// @Produce json
// @Param createUserRequest body models.CreateUserRequest true "User creation request"
// @Success 201 {object} handlers.UserMutationResponse "User created"
// @Failure 400 {object} handlers.UserErrorResponse "Validation failure"
// @Failure 500 {object} handlers.UserErrorResponse "Internal server error"
// @Router /example-crud/data [post]
func NewCreateUserHandler(svc UserCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateUserRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, UserErrorResponse{
				Error: "Bad Request. 'target_id' & 'username' are required.",
			})
			return
		}

		if err := svc.Create(r.Context(), req); err != nil {
			writeUserError(w, err, "Bad Request. 'target_id' & 'username' are required.")
			return
		}

		writeJSON(w, http.StatusCreated, UserMutationResponse{
			Status:  true,
			Message: fmt.Sprintf("The user %s was created successfully.", req.Username),
		})
	}
}

// NewUpdateUserHandler returns an HTTP handler applying a partial update.
// @Summary Update a user
// @Description Applies the given subset of fields to the user matching target_id.
// @Tags users
// @Accept json
// @Produce json
// @Param updateUserRequest body models.UpdateUserRequest true "User update request"
// @Success 200 {object} handlers.UserMutationResponse "User updated"
// @Failure 400 {object} handlers.UserErrorResponse "Validation failure"
// @Failure 500 {object} handlers.UserErrorResponse "Internal server error"
// @Router /example-crud/data [put]
func NewUpdateUserHandler(svc UserUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.UpdateUserRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, UserErrorResponse{
				Error: "Bad Request. 'target_id' is required.",
			})
			return
		}

		if err := svc.Update(r.Context(), req); err != nil {
			writeUserError(w, err, "Bad Request. 'target_id' is required.")
			return
		}

		username := ""
		if req.Username != nil {
			username = *req.Username
		}
		writeJSON(w, http.StatusOK, UserMutationResponse{
			Status:  true,
			Message: fmt.Sprintf("The user %s was updated successfully.", username),
		})
	}
}

// writeUserError maps service errors to the wire error responses.
// missingMsg is the per-verb message for the required-fields failure.
func writeUserError(w http.ResponseWriter, err error, missingMsg string) {
	var validationErr *services.ValidationError

	switch {
	case errors.Is(err, services.ErrMissingRequiredFields):
		writeJSON(w, http.StatusBadRequest, UserErrorResponse{Error: missingMsg})
	case errors.Is(err, services.ErrUserAlreadyExists):
		writeJSON(w, http.StatusBadRequest, UserErrorResponse{
			Error: "Bad Request. User already exists.",
		})
	case errors.Is(err, services.ErrUserDoesNotExist):
		writeJSON(w, http.StatusBadRequest, UserErrorResponse{
			Error: "Bad Request. User don't exists.",
		})
	case errors.Is(err, services.ErrEmptyUpdate):
		writeJSON(w, http.StatusBadRequest, UserErrorResponse{
			Error: "Bad Request. Send at least one parameter for update.",
		})
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, UserErrorResponse{
			Error: "Bad Request. " + validationErr.Reason,
		})
	default:
		logger.Log.Errorw("internal server error", "err", err)
		writeJSON(w, http.StatusInternalServerError, UserErrorResponse{
			Error: "Internal server error",
		})
	}
}

// writeJSON writes a non-cacheable JSON response.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
