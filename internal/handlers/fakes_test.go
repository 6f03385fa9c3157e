package handlers

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/HasiburRahman-hr11/ami-video-uploader-server/internal/models"
	"github.com/HasiburRahman-hr11/ami-video-uploader-server/internal/store"
)

// fakeStore implements store.UserStore and store.VideoStore in memory,
// mirroring the Postgres store's semantics: whole-field-set profile
// overwrites, ordered video reference lists, newest-first paging.
type fakeStore struct {
	users     map[uuid.UUID]*models.User
	userOrder []uuid.UUID
	videos    map[uuid.UUID]*models.Video
	refs      map[uuid.UUID][]uuid.UUID
	clock     time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  map[uuid.UUID]*models.User{},
		videos: map[uuid.UUID]*models.Video{},
		refs:   map[uuid.UUID][]uuid.UUID{},
		clock:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeStore) CreateUser(user *models.User) error {
	user.ID = uuid.New()
	user.Created_At = f.tick()
	user.Updated_At = user.Created_At

	saved := *user
	f.users[user.ID] = &saved
	f.userOrder = append(f.userOrder, user.ID)
	return nil
}

func (f *fakeStore) GetUserByEmail(email string) (*models.User, error) {
	for _, id := range f.userOrder {
		if f.users[id].Email == email {
			return f.userCopy(id), nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeStore) GetUserByID(id uuid.UUID) (*models.User, error) {
	if _, ok := f.users[id]; !ok {
		return nil, store.ErrUserNotFound
	}
	return f.userCopy(id), nil
}

func (f *fakeStore) UpdateProfile(id uuid.UUID, update store.ProfileUpdate) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}

	user.FirstName = update.FirstName
	user.LastName = update.LastName
	user.Bio = update.Bio
	user.Phone = update.Phone
	if update.Picture != nil {
		user.ProfilePicture = update.Picture
		user.ProfilePictureType = update.PictureType
	}
	user.Updated_At = f.tick()

	return f.userCopy(id), nil
}

func (f *fakeStore) userCopy(id uuid.UUID) *models.User {
	user := *f.users[id]
	user.Videos = append([]uuid.UUID{}, f.refs[id]...)
	return &user
}

func (f *fakeStore) CreateVideo(video *models.Video) error {
	video.Id = uuid.New()
	video.Created_At = f.tick()
	video.Updated_At = video.Created_At

	saved := *video
	f.videos[video.Id] = &saved
	f.refs[video.User_ID] = append(f.refs[video.User_ID], video.Id)
	return nil
}

func (f *fakeStore) GetVideoByID(videoID uuid.UUID) (*models.Video, error) {
	video, ok := f.videos[videoID]
	if !ok {
		return nil, store.ErrVideoNotFound
	}
	copied := *video
	return &copied, nil
}

func (f *fakeStore) UpdateVideo(video *models.Video) error {
	stored, ok := f.videos[video.Id]
	if !ok {
		return store.ErrVideoNotFound
	}

	stored.Title = video.Title
	stored.Description = video.Description
	stored.Url = video.Url
	stored.Media_ID = video.Media_ID
	stored.Updated_At = f.tick()
	video.Updated_At = stored.Updated_At
	return nil
}

func (f *fakeStore) DeleteVideo(videoID uuid.UUID, userID uuid.UUID) error {
	if _, ok := f.videos[videoID]; !ok {
		return store.ErrVideoNotFound
	}

	refs := f.refs[userID]
	for i, id := range refs {
		if id == videoID {
			f.refs[userID] = append(refs[:i], refs[i+1:]...)
			break
		}
	}

	delete(f.videos, videoID)
	return nil
}

func (f *fakeStore) userVideosNewestFirst(userID uuid.UUID) []models.Video {
	var videos []models.Video
	for _, id := range f.refs[userID] {
		videos = append(videos, *f.videos[id])
	}
	sort.Slice(videos, func(i, j int) bool {
		return videos[i].Created_At.After(videos[j].Created_At)
	})
	return videos
}

func (f *fakeStore) GetUserVideos(userID uuid.UUID, page int, limit int) ([]models.Video, int, error) {
	videos := f.userVideosNewestFirst(userID)
	total := len(videos)

	offset := (page - 1) * limit
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return videos[offset:end], total, nil
}

func (f *fakeStore) GetHomeFeed(videosPerUser int) ([]store.UserFeed, error) {
	var feed []store.UserFeed
	for _, userID := range f.userOrder {
		videos := f.userVideosNewestFirst(userID)
		if len(videos) == 0 {
			continue
		}
		if len(videos) > videosPerUser {
			videos = videos[:videosPerUser]
		}

		user := f.users[userID]
		feed = append(feed, store.UserFeed{
			ID:                 user.ID,
			FirstName:          user.FirstName,
			LastName:           user.LastName,
			ProfilePicture:     user.ProfilePicture,
			ProfilePictureType: user.ProfilePictureType,
			Videos:             videos,
		})
	}
	return feed, nil
}

// fakeMedia is an in-memory media host.
type fakeMedia struct {
	uploads   int
	objects   map[string]string
	destroyed []string
	failNext  bool
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{objects: map[string]string{}}
}

func (f *fakeMedia) Upload(data []byte, filename string, folder string) (string, string, error) {
	if f.failNext {
		f.failNext = false
		return "", "", fmt.Errorf("media host unavailable")
	}
	f.uploads++
	mediaID := fmt.Sprintf("%s/object-%d", folder, f.uploads)
	url := "https://media.test/" + mediaID
	f.objects[mediaID] = url
	return url, mediaID, nil
}

func (f *fakeMedia) Destroy(mediaID string) error {
	delete(f.objects, mediaID)
	f.destroyed = append(f.destroyed, mediaID)
	return nil
}

// fakeMailer records sent passwords and can simulate delivery failure.
type fakeMailer struct {
	sent map[string]string
	fail bool
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: map[string]string{}}
}

func (f *fakeMailer) SendPassword(to string, password string) error {
	if f.fail {
		return fmt.Errorf("smtp: delivery failed")
	}
	f.sent[to] = password
	return nil
}
