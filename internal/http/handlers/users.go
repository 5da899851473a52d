package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/codetrellis/userbase/internal/auth"
	"github.com/codetrellis/userbase/internal/http/respond"
	"github.com/codetrellis/userbase/internal/models"
	"github.com/codetrellis/userbase/internal/models/dto"
	"github.com/codetrellis/userbase/internal/storage"
)

const storeErrorText = "Error checking users database"

// UserHandler owns the user lifecycle endpoints.
type UserHandler struct {
	store  storage.UserStore
	tokens *auth.TokenManager
}

// NewUserHandler constructs the handler.
func NewUserHandler(store storage.UserStore, tokens *auth.TokenManager) *UserHandler {
	return &UserHandler{store: store, tokens: tokens}
}

// Register attaches all user routes to the mux. protect wraps the
// authenticated routes; signup and signin stay open.
// The literal "/user/all" patterns take precedence over "/user/{userid}".
func (h *UserHandler) Register(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	mux.HandleFunc("POST /api/v1/user/signup", h.handleSignup)
	mux.HandleFunc("POST /api/v1/user/signin", h.handleSignin)
	mux.Handle("GET /api/v1/user/all", protect(http.HandlerFunc(h.handleList)))
	mux.Handle("GET /api/v1/user/{userid}", protect(http.HandlerFunc(h.handleFetchOne)))
	mux.Handle("PUT /api/v1/user/{userid}", protect(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("DELETE /api/v1/user/all", protect(http.HandlerFunc(h.handleDeleteAll)))
	mux.Handle("DELETE /api/v1/user/{userid}", protect(http.HandlerFunc(h.handleDeleteOne)))
}

func (h *UserHandler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, false, "invalid JSON payload")
		return
	}
	if req.Firstname == "" || req.Lastname == "" || req.Email == "" || req.Password == "" {
		// fetch:true on this body is a legacy quirk clients depend on.
		respond.Message(w, http.StatusBadRequest, true, "Body params missing")
		return
	}

	email := models.NormalizeEmail(req.Email)
	_, err := h.store.FindByEmail(r.Context(), email)
	switch {
	case err == nil:
		respond.Message(w, http.StatusConflict, false, "Already Email ID is present in database")
		return
	case !errors.Is(err, storage.ErrNotFound):
		log.Printf("signup: existence check failed: %v", err)
		respond.StoreError(w, http.StatusInternalServerError, storeErrorText)
		return
	}

	user := models.User{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Email:     email,
		Password:  req.Password,
		Role:      req.Role,
		CreatedBy: req.CreatedBy,
		UpdatedBy: req.UpdatedBy,
	}
	if err := h.store.Create(r.Context(), user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			// A concurrent signup won the race between check and insert.
			respond.Message(w, http.StatusConflict, false, "Already Email ID is present in database")
			return
		}
		log.Printf("signup: insert failed: %v", err)
		respond.Message(w, http.StatusInternalServerError, false, "Error inserting user into database: "+err.Error())
		return
	}

	h.respondWithTokens(w, email, "Account created successfully")
}

func (h *UserHandler) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req dto.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, false, "invalid JSON payload")
		return
	}
	if req.Email == "" || req.Password == "" {
		respond.Message(w, http.StatusBadRequest, false, "Body params missing")
		return
	}

	email := models.NormalizeEmail(req.Email)
	user, err := h.store.FindByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Message(w, http.StatusConflict, false, "Invalid username or password")
			return
		}
		log.Printf("signin: lookup failed: %v", err)
		respond.StoreError(w, http.StatusInternalServerError, storeErrorText)
		return
	}
	if !models.PasswordMatches(user.Password, req.Password) {
		respond.Message(w, http.StatusConflict, false, "Invalid username or password")
		return
	}

	h.respondWithTokens(w, email, "Login successful")
}

func (h *UserHandler) respondWithTokens(w http.ResponseWriter, email, message string) {
	token, err := h.tokens.Issue(email, auth.AccessToken)
	if err != nil {
		respond.Message(w, http.StatusInternalServerError, false, err.Error())
		return
	}
	refreshToken, err := h.tokens.Issue(email, auth.RefreshToken)
	if err != nil {
		respond.Message(w, http.StatusInternalServerError, false, err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, dto.TokenResponse{
		Message:      message,
		Token:        token,
		RefreshToken: refreshToken,
	})
}

func (h *UserHandler) handleList(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)
	offset := (page - 1) * limit

	users, err := h.store.List(r.Context(), limit, offset)
	if err != nil {
		log.Printf("list users: %v", err)
		respond.StoreError(w, http.StatusInternalServerError, storeErrorText)
		return
	}
	if len(users) == 0 {
		respond.Message(w, http.StatusConflict, false, "No users found in the database")
		return
	}
	respond.JSON(w, http.StatusOK, dto.ListResponse{Fetch: true, Data: users, Page: page, Limit: limit})
}

func (h *UserHandler) handleFetchOne(w http.ResponseWriter, r *http.Request) {
	email := models.NormalizeEmail(r.PathValue("userid"))

	user, err := h.store.FindByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Message(w, http.StatusConflict, false, "User id does not present, please signup !!!")
			return
		}
		log.Printf("fetch user: %v", err)
		respond.StoreError(w, http.StatusInternalServerError, storeErrorText)
		return
	}
	// The raw record, password included; legacy behavior, see README.
	respond.JSON(w, http.StatusOK, user)
}

func (h *UserHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	email := models.NormalizeEmail(r.PathValue("userid"))

	var req dto.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, false, "invalid JSON payload")
		return
	}

	if _, err := h.store.FindByEmail(r.Context(), email); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Message(w, http.StatusConflict, false, "User id does not present, please signup !!!")
			return
		}
		log.Printf("update user: existence check failed: %v", err)
		respond.StoreError(w, http.StatusInternalServerError, storeErrorText)
		return
	}

	if req.Empty() {
		respond.Message(w, http.StatusBadRequest, false, "No fields to update")
		return
	}

	affected, err := h.store.UpdateFields(r.Context(), email, storage.UserUpdate{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Password:  req.Password,
		Role:      req.Role,
		UpdatedBy: req.UpdatedBy,
	})
	if err != nil {
		log.Printf("update user: %v", err)
		respond.StoreError(w, http.StatusInternalServerError, storeErrorText)
		return
	}

	respond.JSON(w, http.StatusOK, dto.UpdateResponse{
		Fetch:   true,
		Message: "User record updated successfully",
		Result:  dto.UpdateResult{AffectedRows: affected},
	})
}

func (h *UserHandler) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAll(r.Context()); err != nil {
		log.Printf("delete all users: %v", err)
		respond.StoreError(w, http.StatusInternalServerError, storeErrorText)
		return
	}
	respond.Message(w, http.StatusOK, true, "All users have been deleted successfully")
}

func (h *UserHandler) handleDeleteOne(w http.ResponseWriter, r *http.Request) {
	email := models.NormalizeEmail(r.PathValue("userid"))

	found, err := h.store.DeleteByEmail(r.Context(), email)
	if err != nil {
		log.Printf("delete user: %v", err)
		respond.StoreError(w, http.StatusInternalServerError, storeErrorText)
		return
	}
	if !found {
		respond.Message(w, http.StatusNotFound, false, "User not found")
		return
	}
	respond.Message(w, http.StatusOK, true, "User has been deleted successfully")
}

// queryInt parses a positive integer query parameter, falling back to def
// when the parameter is absent or non-numeric.
func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
