package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/HasiburRahman-hr11/ami-video-uploader-server/internal/media"
	"github.com/HasiburRahman-hr11/ami-video-uploader-server/internal/middlewares"
	"github.com/HasiburRahman-hr11/ami-video-uploader-server/internal/models"
	"github.com/HasiburRahman-hr11/ami-video-uploader-server/internal/store"
	"github.com/HasiburRahman-hr11/ami-video-uploader-server/internal/utils"
)

const (
	// Home feed shows at most this many videos per user, newest first.
	homeFeedVideosPerUser = 3

	defaultPage  = 1
	defaultLimit = 3

	mediaFolder = "videos"

	maxVideoFormBytes = 32 << 20
)

type VideoHandler struct {
	VideoStore store.VideoStore
	UserStore  store.UserStore
	Media      media.Store
	Logger     *log.Logger
}

func NewVideoHandler(videoStore store.VideoStore, userStore store.UserStore, mediaStore media.Store, logger *log.Logger) *VideoHandler {
	return &VideoHandler{
		VideoStore: videoStore,
		UserStore:  userStore,
		Media:      mediaStore,
		Logger:     logger,
	}
}

// requireOwner checks the bearer identity against the owner id the request
// targets. Writes the response itself when the check fails.
func (vh *VideoHandler) requireOwner(w http.ResponseWriter, r *http.Request, ownerID uuid.UUID) bool {
	authUser, ok := middlewares.GetUserFromContext(r)
	if !ok {
		vh.Logger.Println("No user found in context.")
		utils.WriteJSON(w, http.StatusUnauthorized, utils.Envelope{"error": "Not Authorized"})
		return false
	}
	if authUser.ID != ownerID {
		vh.Logger.Printf("User %s attempted to modify videos of %s", authUser.ID, ownerID)
		utils.WriteJSON(w, http.StatusForbidden, utils.Envelope{"error": "Forbidden"})
		return false
	}
	return true
}

func (vh *VideoHandler) HandlerUploadVideo(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		vh.Logger.Println("Error parsing user id", err)
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"error": "Invalid userId"})
		return
	}

	if !vh.requireOwner(w, r, userID) {
		return
	}

	if err := r.ParseMultipartForm(maxVideoFormBytes); err != nil {
		vh.Logger.Println("Error parsing upload form", err)
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"message": "Bad Request"})
		return
	}

	title := r.FormValue("title")
	description := r.FormValue("description")
	if title == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"error": "Title and userId are required"})
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"error": "No video file uploaded"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		vh.Logger.Println("Error reading video file", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}
	if len(data) == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"error": "No video file uploaded"})
		return
	}

	if _, err := vh.UserStore.GetUserByID(userID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			utils.WriteJSON(w, http.StatusConflict, utils.Envelope{"message": "User not found"})
			return
		}
		vh.Logger.Println("Error getting user from store", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	url, mediaID, err := vh.Media.Upload(data, header.Filename, mediaFolder)
	if err != nil {
		vh.Logger.Println("Error uploading video to media host", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Failed to upload video"})
		return
	}

	video := &models.Video{
		Title:       title,
		Description: description,
		Url:         url,
		Media_ID:    mediaID,
		User_ID:     userID,
	}

	if err := vh.VideoStore.CreateVideo(video); err != nil {
		vh.Logger.Println("Error creating video", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Failed to upload video"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.Envelope{"data": video})
}

func (vh *VideoHandler) HandlerUpdateVideo(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(chi.URLParam(r, "videoId"))
	if err != nil {
		vh.Logger.Println("Error parsing video id", err)
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"error": "Invalid videoId"})
		return
	}

	video, err := vh.VideoStore.GetVideoByID(videoID)
	if errors.Is(err, store.ErrVideoNotFound) {
		utils.WriteJSON(w, http.StatusNotFound, utils.Envelope{"error": "Video not found"})
		return
	}
	if err != nil {
		vh.Logger.Println("Error getting video from store", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	if !vh.requireOwner(w, r, video.User_ID) {
		return
	}

	if err := r.ParseMultipartForm(maxVideoFormBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		vh.Logger.Println("Error parsing update form", err)
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"message": "Bad Request"})
		return
	}

	file, header, err := r.FormFile("video")
	if err == nil {
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			vh.Logger.Println("Error reading video file", err)
			utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
			return
		}

		// Replace the media object: destroy the old one first, then upload
		// the new one and rewrite the handle.
		if err := vh.Media.Destroy(video.Media_ID); err != nil {
			vh.Logger.Println("Error deleting old media object", err)
			utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Failed to update video"})
			return
		}

		url, mediaID, err := vh.Media.Upload(data, header.Filename, mediaFolder)
		if err != nil {
			vh.Logger.Println("Error uploading new media object", err)
			utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Failed to update video"})
			return
		}

		video.Url = url
		video.Media_ID = mediaID
	}

	// Unlike profile edits, absent fields here are preserved.
	if title := r.FormValue("title"); title != "" {
		video.Title = title
	}
	if description := r.FormValue("description"); description != "" {
		video.Description = description
	}

	if err := vh.VideoStore.UpdateVideo(video); err != nil {
		vh.Logger.Println("Error updating video", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Failed to update video"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": video})
}

func (vh *VideoHandler) HandlerDeleteVideo(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(chi.URLParam(r, "videoId"))
	if err != nil {
		vh.Logger.Println("Error parsing video id", err)
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"error": "Invalid videoId"})
		return
	}

	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		vh.Logger.Println("Error parsing user id", err)
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"error": "Invalid userId"})
		return
	}

	if !vh.requireOwner(w, r, userID) {
		return
	}

	video, err := vh.VideoStore.GetVideoByID(videoID)
	if errors.Is(err, store.ErrVideoNotFound) {
		utils.WriteJSON(w, http.StatusNotFound, utils.Envelope{"error": "Video not found"})
		return
	}
	if err != nil {
		vh.Logger.Println("Error getting video from store", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	if _, err := vh.UserStore.GetUserByID(userID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			utils.WriteJSON(w, http.StatusConflict, utils.Envelope{"message": "User not found"})
			return
		}
		vh.Logger.Println("Error getting user from store", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	// Media host first, then the reference list and the record. A failure
	// after the destroy leaves no media behind the surviving record.
	if err := vh.Media.Destroy(video.Media_ID); err != nil {
		vh.Logger.Println("Error deleting media object", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Failed to delete video"})
		return
	}

	if err := vh.VideoStore.DeleteVideo(videoID, userID); err != nil {
		vh.Logger.Println("Error deleting video", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Failed to delete video"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"message": "Video deleted successfully"})
}

func (vh *VideoHandler) HandlerGetHomeVideos(w http.ResponseWriter, r *http.Request) {
	feed, err := vh.VideoStore.GetHomeFeed(homeFeedVideosPerUser)
	if err != nil {
		vh.Logger.Println("Error getting home feed from store", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Failed to fetch videos"})
		return
	}

	if feed == nil {
		feed = []store.UserFeed{}
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": feed})
}

func (vh *VideoHandler) HandlerGetUserVideos(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"error": "Invalid userId"})
		return
	}

	page := defaultPage
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err = strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			vh.Logger.Printf("Error: invalid page parameter '%s'", pageStr)
			utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"message": "Bad Request"})
			return
		}
	}

	limit := defaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			vh.Logger.Printf("Error: invalid limit parameter '%s'", limitStr)
			utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{"message": "Bad Request"})
			return
		}
	}

	if _, err := vh.UserStore.GetUserByID(userID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.Envelope{"error": "User not found"})
			return
		}
		vh.Logger.Println("Error getting user from store", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"message": "Internal Server Error"})
		return
	}

	videos, total, err := vh.VideoStore.GetUserVideos(userID, page, limit)
	if err != nil {
		vh.Logger.Println("Error getting user videos from store", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.Envelope{"error": "Failed to fetch videos"})
		return
	}

	if videos == nil {
		videos = []models.Video{}
	}

	// Plain quotient, not rounded up: 7 videos at limit 3 reports 2.33...
	totalPages := float64(total) / float64(limit)

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"videos": videos, "total_pages": totalPages})
}
