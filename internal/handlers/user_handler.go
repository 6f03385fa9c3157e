package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/HasiburRahman-hr11/ami-video-uploader-server/internal/auth"
	"github.com/HasiburRahman-hr11/ami-video-uploader-server/internal/mailer"
	"github.com/HasiburRahman-hr11/ami-video-uploader-server/internal/middlewares"
	"github.com/HasiburRahman-hr11/ami-video-uploader-server/internal/models"
	"github.com/HasiburRahman-hr11/ami-video-uploader-server/internal/store"
	"github.com/HasiburRahman-hr11/ami-video-uploader-server/internal/utils"
)

// Register tokens expire after 48 hours. Login tokens carry no expiry.
const registerTokenTTL = 48 * time.Hour

// Profile pictures are capped at 1 MiB.
const maxProfilePictureBytes = 1 << 20

type UserHandler struct {
	UserStore store.UserStore
	Tokens    *auth.TokenProvider
	Mailer    mailer.Mailer
	Logger    *log.Logger
}

func NewUserHandler(userStore store.UserStore, tokens *auth.TokenProvider, mailer mailer.Mailer, logger *log.Logger) *UserHandler {
	return &UserHandler{
		UserStore: userStore,
		Tokens:    tokens,
		Mailer:    mailer,
		Logger:    logger,
	}
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

func (uh *UserHandler) HandlerRegisterByEmail(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		uh.Logger.Println("Error decoding register request", err)
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"message": "Bad Request"})
		return
	}

	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Phone == "" {
		uh.Logger.Println("Error: missing required register fields")
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"error": "firstName, lastName, email and phone are required"})
		return
	}

	_, err := uh.UserStore.GetUserByEmail(req.Email)
	if err == nil {
		utils.WriteJSON(w, http.StatusConflict, utils.Envelope{"msg": "User already exists with this email."})
		return
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		uh.Logger.Println("Error looking up user by email", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	password, err := auth.GeneratePassword(req.FirstName, req.LastName, req.Email, req.Phone)
	if err != nil {
		uh.Logger.Println("Error generating password", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uh.Logger.Println("Error hashing password", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	user := &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
	}

	if err := uh.UserStore.CreateUser(user); err != nil {
		uh.Logger.Println("Error creating user", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	token, err := uh.Tokens.Sign(publicClaims(user), registerTokenTTL)
	if err != nil {
		uh.Logger.Println("Error signing token", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	// The account exists and the token is valid regardless of whether the
	// password email gets through.
	if err := uh.Mailer.SendPassword(user.Email, password); err != nil {
		uh.Logger.Println("Error sending password email", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"msg": "Failed to send password", "token": token})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"token": token})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (uh *UserHandler) HandlerLoginByEmail(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		uh.Logger.Println("Error decoding login request", err)
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"message": "Bad Request"})
		return
	}

	user, err := uh.UserStore.GetUserByEmail(req.Email)
	if errors.Is(err, store.ErrUserNotFound) {
		// Misses are reported as ordinary results, not auth failures.
		utils.WriteJSON(w, http.StatusOK, utils.Envelope{"message": "User not found"})
		return
	}
	if err != nil {
		uh.Logger.Println("Error looking up user by email", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		utils.WriteJSON(w, http.StatusOK, utils.Envelope{"message": "Invalid password"})
		return
	}

	claims := publicClaims(user)
	claims["bio"] = user.Bio

	token, err := uh.Tokens.Sign(claims, 0)
	if err != nil {
		uh.Logger.Println("Error signing token", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"token": token})
}

func (uh *UserHandler) HandlerUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		uh.Logger.Println("Error parsing user id", err)
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"error": "Invalid userId"})
		return
	}

	authUser, ok := middlewares.GetUserFromContext(r)
	if !ok {
		uh.Logger.Println("No user found in context.")
		utils.WriteJSON(w, http.StatusUnauthorized, utils.Envelope{"error": "Not Authorized"})
		return
	}
	if authUser.ID != userID {
		uh.Logger.Printf("User %s attempted to edit profile of %s", authUser.ID, userID)
		utils.WriteJSON(w, http.StatusForbidden, utils.Envelope{"error": "Forbidden"})
		return
	}

	// Tolerate both multipart and urlencoded bodies; FormValue reads either.
	if err := r.ParseMultipartForm(maxProfilePictureBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		uh.Logger.Println("Error parsing profile form", err)
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"message": "Bad Request"})
		return
	}

	update := store.ProfileUpdate{
		FirstName: r.FormValue("firstName"),
		LastName:  r.FormValue("lastName"),
		Bio:       r.FormValue("bio"),
		Phone:     r.FormValue("phone"),
	}

	file, header, err := r.FormFile("profilePicture")
	if err == nil {
		defer file.Close()

		if header.Size > maxProfilePictureBytes {
			uh.Logger.Printf("Rejected oversized profile picture (%d bytes)", header.Size)
			utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"error": "Profile picture must be 1MB or smaller"})
			return
		}

		picture, err := io.ReadAll(file)
		if err != nil {
			uh.Logger.Println("Error reading profile picture", err)
			utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
			return
		}

		update.Picture = picture
		update.PictureType = header.Header.Get("Content-Type")
	}

	user, err := uh.UserStore.UpdateProfile(userID, update)
	if errors.Is(err, store.ErrUserNotFound) {
		utils.WriteJSON(w, http.StatusNotFound, utils.Envelope{"error": "User not found"})
		return
	}
	if err != nil {
		uh.Logger.Println("Error updating profile", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": user})
}

func (uh *UserHandler) HandlerGetUserByID(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		uh.Logger.Println("Error parsing user id", err)
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"error": "Invalid userId"})
		return
	}

	user, err := uh.UserStore.GetUserByID(userID)
	if errors.Is(err, store.ErrUserNotFound) {
		utils.WriteJSON(w, http.StatusNotFound, utils.Envelope{"error": "User not found"})
		return
	}
	if err != nil {
		uh.Logger.Println("Error getting user from store", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": user})
}

// publicClaims is the token-safe subset of a user record. The password hash
// never goes into a token, and the avatar's content type stands in for its
// bytes.
func publicClaims(user *models.User) jwt.MapClaims {
	return jwt.MapClaims{
		"id":                   user.ID.String(),
		"first_name":           user.FirstName,
		"last_name":            user.LastName,
		"email":                user.Email,
		"phone":                user.Phone,
		"profile_picture_type": user.ProfilePictureType,
	}
}
