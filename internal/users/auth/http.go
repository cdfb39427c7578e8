// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hallyulatino/api/internal/platform/middleware"
	requestutil "github.com/hallyulatino/api/internal/platform/request"
	"github.com/hallyulatino/api/internal/platform/respond"
	"github.com/hallyulatino/api/internal/platform/validate"
	"github.com/hallyulatino/api/internal/users/identity"
)

// Handler serves /api/v1/auth.
type Handler struct {
	authService *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

/*
Routes mounts the auth endpoints.

Anonymous:

	POST /register  /login  /refresh  /verify-email  /forgot-password  /reset-password

Bearer token and an active account, checked by authenticate:

	POST /verify-email/request  /change-password

The anonymous routes never look at the Authorization header, so a client
holding an expired access token can still refresh or log in.
*/
func (handler *Handler) Routes(authenticate func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/verify-email", handler.verifyEmail)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	router.Group(func(protected chi.Router) {
		protected.Use(authenticate, middleware.RequireAuth, middleware.RequireActive)
		protected.Post("/verify-email/request", handler.requestVerification)
		protected.Post("/change-password", handler.changePassword)
	})

	return router
}

// # Bodies

type registerBody struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	Nickname          string `json:"nickname"`
	Country           string `json:"country"`
	PreferredLanguage string `json:"preferred_language"`
}

func (body *registerBody) Check(validator *validate.Validator) {
	validator.Required(identity.FieldEmail, body.Email).
		Required(identity.FieldPassword, body.Password).
		Required(identity.FieldNickname, body.Nickname).
		Required(identity.FieldCountry, body.Country)
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (body *loginBody) Check(validator *validate.Validator) {
	validator.Required(identity.FieldEmail, body.Email).
		Required(identity.FieldPassword, body.Password)
}

type refreshBody struct {
	RefreshToken string `json:"refresh_token"`
}

func (body *refreshBody) Check(validator *validate.Validator) {
	validator.Required(identity.FieldRefreshToken, body.RefreshToken)
}

type tokenBody struct {
	Token string `json:"token"`
}

func (body *tokenBody) Check(validator *validate.Validator) {
	validator.Required(identity.FieldToken, body.Token)
}

// emailBody is not Checkable: an empty email is reported as INVALID_EMAIL by the service.
type emailBody struct {
	Email string `json:"email"`
}

type resetBody struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (body *resetBody) Check(validator *validate.Validator) {
	validator.Required(identity.FieldToken, body.Token).
		Required(identity.FieldNewPassword, body.NewPassword)
}

type changePasswordBody struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (body *changePasswordBody) Check(validator *validate.Validator) {
	validator.Required(identity.FieldCurrentPassword, body.CurrentPassword).
		Required(identity.FieldNewPassword, body.NewPassword)
}

type messageResponse struct {
	Message string `json:"message"`
}

// # Endpoints

/*
POST /register

  - 201: RegisterResult
  - 400: INVALID_EMAIL, WEAK_PASSWORD, VALIDATION_ERROR
  - 409: EMAIL_ALREADY_EXISTS
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	body, err := requestutil.Bind[registerBody](writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Register(request.Context(), RegisterInput(body))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, result)
}

/*
POST /login

  - 200: LoginResult
  - 401: INVALID_CREDENTIALS, whatever the reason
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	body, err := requestutil.Bind[loginBody](writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), LoginInput(body))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
POST /refresh

  - 200: TokenPair
  - 401: TOKEN_EXPIRED or INVALID_CREDENTIALS
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	body, err := requestutil.Bind[refreshBody](writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pair, err := handler.authService.RefreshToken(request.Context(), body.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pair)
}

// POST /verify-email consumes a verification token. Unknown or expired tokens are 401.
func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request) {
	body, err := requestutil.Bind[tokenBody](writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.VerifyEmail(request.Context(), body.Token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, messageResponse{Message: MessageEmailVerified})
}

// POST /verify-email/request issues a fresh verification token for the caller.
func (handler *Handler) requestVerification(writer http.ResponseWriter, request *http.Request) {
	account, err := requestutil.RequiredAccount(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.RequestEmailVerification(request.Context(), account); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, messageResponse{Message: MessageVerificationSent})
}

// POST /forgot-password answers the same message whether or not the email exists.
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	body, err := requestutil.Bind[emailBody](writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ForgotPassword(request.Context(), body.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, messageResponse{Message: MessageResetRequested})
}

/*
POST /reset-password

  - 200: password replaced, token consumed
  - 400: WEAK_PASSWORD
  - 401: INVALID_CREDENTIALS for an unknown or expired token
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	body, err := requestutil.Bind[resetBody](writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), body.Token, body.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, messageResponse{Message: MessagePasswordReset})
}

// POST /change-password re-checks the current password before replacing it.
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	body, err := requestutil.Bind[changePasswordBody](writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ChangePassword(request.Context(), userID, body.CurrentPassword, body.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, messageResponse{Message: MessagePasswordChanged})
}
