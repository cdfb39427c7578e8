// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account provides the HTTP delivery layer for profile and account administration.

# Security

Member routes require an authenticated, active account. Admin routes
additionally require the admin role; both are enforced by middleware mounted
here so the handlers only deal with transport.
*/
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hallyulatino/api/internal/platform/middleware"
	requestutil "github.com/hallyulatino/api/internal/platform/request"
	"github.com/hallyulatino/api/internal/platform/respond"
	"github.com/hallyulatino/api/internal/platform/sec"
	"github.com/hallyulatino/api/internal/platform/validate"
	"github.com/hallyulatino/api/pkg/pagination"
)

// Handler implements the HTTP layer for user account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns the member-facing endpoints, mounted under /users.
func (handler *Handler) Routes(authenticate func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()
	router.Use(authenticate, middleware.RequireAuth, middleware.RequireActive)

	router.Get("/me", handler.getMe)
	router.Patch("/me", handler.updateMe)

	return router
}

// AdminRoutes returns the administrative endpoints, mounted under /admin/users.
func (handler *Handler) AdminRoutes(authenticate func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()
	router.Use(authenticate, middleware.RequireAuth, middleware.RequireActive, middleware.RequireRole(sec.RoleAdmin))

	router.Get("/", handler.listAccounts)
	router.Get("/{id}", handler.getAccount)
	router.Post("/{id}/activate", handler.activate)
	router.Post("/{id}/deactivate", handler.deactivate)

	return router
}

// # User Profile Endpoints

/*
GET /api/v1/users/me.

Response:
  - 200: Profile
  - 401: Authentication required
  - 403: INACTIVE_USER
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// updateMeRequest defines the expected JSON payload for profile updates.
type updateMeRequest struct {
	Nickname          *string `json:"nickname"`
	Country           *string `json:"country"`
	PreferredLanguage *string `json:"preferred_language"`
	AvatarURL         *string `json:"avatar_url"`
}

/*
PATCH /api/v1/users/me.

Request:
  - body: updateMeRequest (every field optional)

Response:
  - 200: Profile
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input, err := requestutil.Bind[updateMeRequest](writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		Nickname:          input.Nickname,
		Country:           input.Country,
		PreferredLanguage: input.PreferredLanguage,
		AvatarURL:         input.AvatarURL,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// # Administration Endpoints

/*
GET /api/v1/admin/users?page=&limit=.

Response:
  - 200: Paginated AdminAccount list
*/
func (handler *Handler) listAccounts(writer http.ResponseWriter, request *http.Request) {
	accounts, meta, err := handler.accountService.ListAccounts(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, accounts, meta)
}

/*
GET /api/v1/admin/users/{id}.

Response:
  - 200: AdminAccount
  - 404: USER_NOT_FOUND
*/
func (handler *Handler) getAccount(writer http.ResponseWriter, request *http.Request) {
	userID, ok := accountIDParam(writer, request)
	if !ok {
		return
	}

	account, err := handler.accountService.GetAccount(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

// POST /api/v1/admin/users/{id}/activate.
func (handler *Handler) activate(writer http.ResponseWriter, request *http.Request) {
	handler.setActive(writer, request, true)
}

// POST /api/v1/admin/users/{id}/deactivate.
func (handler *Handler) deactivate(writer http.ResponseWriter, request *http.Request) {
	handler.setActive(writer, request, false)
}

func (handler *Handler) setActive(writer http.ResponseWriter, request *http.Request, active bool) {
	userID, ok := accountIDParam(writer, request)
	if !ok {
		return
	}

	account, err := handler.accountService.SetActive(request.Context(), userID, active)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

// accountIDParam reads and validates the {id} path segment, answering 400 itself on failure.
func accountIDParam(writer http.ResponseWriter, request *http.Request) (string, bool) {
	userID := requestutil.Param(request, "id")

	validator := &validate.Validator{}
	if err := validator.UUID("id", userID).Err(); err != nil {
		respond.Error(writer, request, err)
		return "", false
	}

	return userID, true
}
