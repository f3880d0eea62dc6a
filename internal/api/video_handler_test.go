package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vidshare/video-app/internal/domain"
	"vidshare/video-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "handler-test-secret"

// videoServiceStub records calls and returns canned results.
type videoServiceStub struct {
	feed      *service.VideoFeed
	video     *service.EnrichedVideo
	created   *domain.Video
	err       error
	gotPage   int
	gotLimit  int
	gotCaller string
	gotInput  service.CreateVideoInput
}

func (s *videoServiceStub) ListVideos(ctx context.Context, page, limit int) (*service.VideoFeed, error) {
	s.gotPage = page
	s.gotLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	if s.feed != nil {
		return s.feed, nil
	}
	return &service.VideoFeed{Videos: []service.EnrichedVideo{}, Page: page, Limit: limit}, nil
}

func (s *videoServiceStub) GetVideoByID(ctx context.Context, id primitive.ObjectID) (*service.EnrichedVideo, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.video, nil
}

func (s *videoServiceStub) CreateVideo(ctx context.Context, callerID string, input service.CreateVideoInput) (*domain.Video, error) {
	s.gotCaller = callerID
	s.gotInput = input
	if s.err != nil {
		return nil, s.err
	}
	return s.created, nil
}

type authServiceStub struct{}

func (authServiceStub) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	return &domain.User{}, nil
}

func (authServiceStub) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return "", &domain.User{}, nil
}

func (authServiceStub) GetJWTSecret() string { return testSecret }

type uploadServiceStub struct {
	resp *service.UploadURLResponse
	err  error
}

func (s *uploadServiceStub) RequestUploadURL(ctx context.Context, ownerID primitive.ObjectID, contentType string) (*service.UploadURLResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func newTestRouter(videoService service.VideoService, uploadService service.UploadService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, testSecret, authServiceStub{}, videoService, uploadService)
	return router
}

func makeToken(t *testing.T, userID string, role domain.Role) string {
	t.Helper()
	claims := &jwtClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestListVideosDefaults(t *testing.T) {
	stub := &videoServiceStub{}
	router := newTestRouter(stub, &uploadServiceStub{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/videos", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, stub.gotPage)
	assert.Equal(t, 12, stub.gotLimit)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(12), body["limit"])
	assert.NotNil(t, body["videos"])
}

func TestListVideosParsesPagination(t *testing.T) {
	stub := &videoServiceStub{}
	router := newTestRouter(stub, &uploadServiceStub{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/videos?page=3&limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, stub.gotPage)
	assert.Equal(t, 5, stub.gotLimit)

	// Garbage and sub-1 values fall back to the defaults.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/videos?page=abc&limit=-2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, stub.gotPage)
	assert.Equal(t, 12, stub.gotLimit)
}

func TestListVideosStoreFailure(t *testing.T) {
	stub := &videoServiceStub{err: errors.New("server selection timeout")}
	router := newTestRouter(stub, &uploadServiceStub{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/videos", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Failed to fetch videos", body["error"])
	assert.Equal(t, "server selection timeout", body["details"])
}

func TestListVideosEnrichedBody(t *testing.T) {
	withOwner := service.EnrichedVideo{
		Video: domain.Video{ID: primitive.NewObjectID(), Title: "A", UserID: primitive.NewObjectID()},
		Owner: &service.OwnerInfo{Name: "Ann", Image: "https://cdn.example.com/ann.png"},
	}
	orphan := service.EnrichedVideo{
		Video: domain.Video{ID: primitive.NewObjectID(), Title: "B", UserID: primitive.NewObjectID()},
	}
	stub := &videoServiceStub{feed: &service.VideoFeed{Videos: []service.EnrichedVideo{withOwner, orphan}, Page: 1, Limit: 12}}
	router := newTestRouter(stub, &uploadServiceStub{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/videos", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	videos, ok := body["videos"].([]interface{})
	require.True(t, ok)
	require.Len(t, videos, 2)

	first := videos[0].(map[string]interface{})
	user, ok := first["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Ann", user["name"])

	second := videos[1].(map[string]interface{})
	_, hasUser := second["user"]
	assert.False(t, hasUser, "unresolved owner must omit the user field, not error")
}

func TestGetVideoByIDInvalidID(t *testing.T) {
	router := newTestRouter(&videoServiceStub{}, &uploadServiceStub{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/videos/not-a-hex-id", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetVideoByIDNotFound(t *testing.T) {
	stub := &videoServiceStub{err: service.ErrVideoNotFound}
	router := newTestRouter(stub, &uploadServiceStub{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/videos/"+primitive.NewObjectID().Hex(), nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Video not found", body["error"])
}

func TestGetVideoByIDSuccess(t *testing.T) {
	video := service.EnrichedVideo{
		Video: domain.Video{ID: primitive.NewObjectID(), Title: "Detail", UserID: primitive.NewObjectID()},
		Owner: &service.OwnerInfo{Name: "Ann"},
	}
	stub := &videoServiceStub{video: &video}
	router := newTestRouter(stub, &uploadServiceStub{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/videos/"+video.ID.Hex(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, video.ID.Hex(), body["id"])
	assert.Equal(t, "Detail", body["title"])
}

func TestCreateVideoUnauthenticated(t *testing.T) {
	router := newTestRouter(&videoServiceStub{}, &uploadServiceStub{})

	req := httptest.NewRequest(http.MethodPost, "/api/videos", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateVideoMissingFields(t *testing.T) {
	stub := &videoServiceStub{err: &service.ValidationError{Missing: []string{"description", "videoUrl"}}}
	router := newTestRouter(stub, &uploadServiceStub{})
	callerID := primitive.NewObjectID().Hex()

	payload, _ := json.Marshal(map[string]string{"title": "Only a title", "userId": callerID})
	req := httptest.NewRequest(http.MethodPost, "/api/videos", bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+makeToken(t, callerID, domain.RoleUser))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Missing required fields", body["error"])

	required, ok := body["required"].([]interface{})
	require.True(t, ok)
	assert.Len(t, required, 5)

	received, ok := body["received"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, received["title"])
	assert.Equal(t, false, received["description"])
	assert.Equal(t, false, received["videoUrl"])
	assert.Equal(t, false, received["thumbnailUrl"])
	assert.Equal(t, true, received["userId"])
}

func TestCreateVideoOwnerMismatch(t *testing.T) {
	stub := &videoServiceStub{err: service.ErrOwnerMismatch}
	router := newTestRouter(stub, &uploadServiceStub{})

	payload, _ := json.Marshal(map[string]string{
		"title":        "My video",
		"description":  "A video",
		"videoUrl":     "https://cdn.example.com/v.mp4",
		"thumbnailUrl": "https://cdn.example.com/v.jpg",
		"userId":       primitive.NewObjectID().Hex(),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/videos", bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+makeToken(t, primitive.NewObjectID().Hex(), domain.RoleUser))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Unauthorized: Cannot upload for another user", body["error"])
}

func TestCreateVideoSuccess(t *testing.T) {
	callerID := primitive.NewObjectID()
	created := domain.Video{
		ID:           primitive.NewObjectID(),
		Title:        "My video",
		Description:  "A video",
		VideoURL:     "https://cdn.example.com/v.mp4",
		ThumbnailURL: "https://cdn.example.com/v.jpg",
		UserID:       callerID,
		Controls:     true,
		Tags:         []string{},
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	stub := &videoServiceStub{created: &created}
	router := newTestRouter(stub, &uploadServiceStub{})

	payload, _ := json.Marshal(map[string]string{
		"title":        created.Title,
		"description":  created.Description,
		"videoUrl":     created.VideoURL,
		"thumbnailUrl": created.ThumbnailURL,
		"userId":       callerID.Hex(),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/videos", bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+makeToken(t, callerID.Hex(), domain.RoleUser))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, callerID.Hex(), stub.gotCaller, "caller identity comes from the token")
	assert.Equal(t, callerID.Hex(), stub.gotInput.UserID)

	body := decodeBody(t, rec)
	assert.Equal(t, created.ID.Hex(), body["id"])
	assert.Equal(t, created.Title, body["title"])
	_, hasUser := body["user"]
	assert.False(t, hasUser, "create responses are not enriched")
}

func TestRequestUploadURLRequiresAuth(t *testing.T) {
	router := newTestRouter(&videoServiceStub{}, &uploadServiceStub{})

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", bytes.NewBufferString(`{"contentType":"video/mp4"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestUploadURLSuccess(t *testing.T) {
	uploadStub := &uploadServiceStub{resp: &service.UploadURLResponse{
		UploadURL: "https://storage.example.com/put",
		ObjectKey: "uploads/abc/def.mp4",
	}}
	router := newTestRouter(&videoServiceStub{}, uploadStub)

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", bytes.NewBufferString(`{"contentType":"video/mp4"}`))
	req.Header.Set("Authorization", "Bearer "+makeToken(t, primitive.NewObjectID().Hex(), domain.RoleUser))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "https://storage.example.com/put", body["uploadUrl"])
	assert.Equal(t, "uploads/abc/def.mp4", body["objectKey"])
}
