package main

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"repertoire/config"
	"repertoire/db"
	"repertoire/handlers"
	"repertoire/models"
	"repertoire/storage"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

const testAdminPassword = "letmein"

// testClient keeps the session cookie between requests
type testClient struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()
	dir := t.TempDir()
	config.DEBUG_MODE = false
	config.ADMIN_PASSWORD = testAdminPassword
	tx, err := db.Open(sqlite.Open(db.SQLiteDSN(filepath.Join(dir, "test.db"))))
	require.NoError(t, err)
	sqlDB, err := tx.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.Init(tx))
	db.Instance = tx
	storage.Init(storage.Bucket{StorageType: storage.StorageTypeFile, Path: filepath.Join(dir, "uploads")})
	return &testClient{
		t:       t,
		router:  setupRouter(cookie.NewStore([]byte("test-secret"))),
		cookies: map[string]*http.Cookie{},
	}
}

func (c *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	for _, cookie := range w.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(c.cookies, cookie.Name)
		} else {
			c.cookies[cookie.Name] = cookie
		}
	}
	return w
}

func (c *testClient) json(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *testClient) multipart(method, path string, fields map[string][]string, image []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, values := range fields {
		for _, value := range values {
			require.NoError(c.t, mw.WriteField(key, value))
		}
	}
	if image != nil {
		part, err := mw.CreateFormFile("image", "board.png")
		require.NoError(c.t, err)
		_, err = part.Write(image)
		require.NoError(c.t, err)
	}
	require.NoError(c.t, mw.Close())
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

func (c *testClient) verifyAdmin() {
	w := c.json(http.MethodPost, "/api/auth/verify-admin", gin.H{"password": testAdminPassword})
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())
}

func (c *testClient) addVariation(opening, side, name, moves string) *httptest.ResponseRecorder {
	return c.multipart(http.MethodPost, "/api/openings", map[string][]string{
		"name":           {opening},
		"side":           {side},
		"variation_name": {name},
		"moves":          {moves},
	}, nil)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var result T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result), w.Body.String())
	return result
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, x, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestGuestAdminAddVariationConflict(t *testing.T) {
	c := newTestClient(t)

	w := c.addVariation("Italian Game", "white", "Main Line", "1.e4 e5 2.Nf3")
	require.Equal(t, http.StatusForbidden, w.Code)

	w = c.json(http.MethodPost, "/api/auth/verify-admin", gin.H{"password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	c.verifyAdmin()
	w = c.addVariation("Italian Game", "white", "Main Line", "1.e4 e5 2.Nf3")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[handlers.OpeningInfo](t, w)
	require.True(t, created.IsPublic)
	require.Equal(t, "https://lichess.org/analysis/pgn/1.e4%20e5%202.Nf3", created.Variations[0].LichessLink)

	// Another admin session, same moves under a new name
	other := &testClient{t: t, router: c.router, cookies: map[string]*http.Cookie{}}
	other.verifyAdmin()
	w = other.addVariation("Italian Game", "white", "Alt", "1.e4 e5 2.Nf3")
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, decode[handlers.Response](t, w).Error, "moves sequence already exists")

	w = c.json(http.MethodGet, "/api/openings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]handlers.OpeningInfo](t, w)
	require.Len(t, list, 1)
	require.Len(t, list[0].Variations, 1)

	w = c.json(http.MethodPost, "/api/auth/exit-admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = c.json(http.MethodDelete, "/api/openings/1", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAddVariationValidation(t *testing.T) {
	c := newTestClient(t)
	c.verifyAdmin()
	w := c.addVariation("Italian Game", "green", "", "1.e4")
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = c.addVariation("Italian Game", "white", "", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateVariationForm(t *testing.T) {
	c := newTestClient(t)
	c.verifyAdmin()
	created := decode[handlers.OpeningInfo](t, c.addVariation("Italian Game", "white", "Main Line", "1.e4 e5 2.Nf3 Nc6 3.Bc4"))
	c.addVariation("Italian Game", "white", "Two Knights", "1.e4 e5 2.Nf3 Nc6 3.Bc4 Nf6")
	id := jsonID(created.Variations[0].ID)

	// Same form shape as adding: "name" is the opening, "variation_name" the variation
	w := c.multipart(http.MethodPut, "/api/variations/"+id, map[string][]string{
		"name":           {"Italian Game"},
		"side":           {"white"},
		"variation_name": {"Giuoco Piano"},
		"moves":          {"1.e4 e5 2.Nf3 Nc6 3.Bc4 Bc5"},
		"notes":          {" keep c3 ready when d4<e5 "},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[handlers.OpeningInfo](t, w)
	require.Equal(t, "Italian Game", updated.Name)
	v := updated.Variations[0]
	require.Equal(t, "Giuoco Piano", v.Name)
	require.Equal(t, "https://lichess.org/analysis/pgn/1.e4%20e5%202.Nf3%20Nc6%203.Bc4%20Bc5", v.LichessLink)
	require.Equal(t, "keep c3 ready when d4<e5", *v.Notes)

	// Without variation_name the current name is kept
	w = c.multipart(http.MethodPut, "/api/variations/"+id, map[string][]string{
		"moves": {"1.e4 e5 2.Nf3 Nc6 3.Bc4 Bc5"},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "Giuoco Piano", decode[handlers.OpeningInfo](t, w).Variations[0].Name)

	w = c.multipart(http.MethodPut, "/api/variations/"+id, map[string][]string{
		"variation_name": {"Two Knights"},
		"moves":          {"1.e4 e5 2.Nf3 Nc6 3.Bc4 Bc5"},
	}, nil)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestReorderAcrossSidesRejected(t *testing.T) {
	c := newTestClient(t)
	c.verifyAdmin()
	white := decode[handlers.OpeningInfo](t, c.addVariation("Italian Game", "white", "", "1.e4 e5"))
	black := decode[handlers.OpeningInfo](t, c.addVariation("Caro-Kann", "black", "", "1.e4 c6"))

	w := c.json(http.MethodPost, "/api/openings/reorder", gin.H{"ids": []uint64{black.ID, white.ID}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = c.json(http.MethodPost, "/api/openings/reorder", gin.H{"ids": []uint64{white.ID, 4242}})
	require.Equal(t, http.StatusBadRequest, w.Code)

	list := decode[[]handlers.OpeningInfo](t, c.json(http.MethodGet, "/api/openings", nil))
	for _, o := range list {
		require.Zero(t, o.Position)
	}
}

func TestUserFlowAndImport(t *testing.T) {
	c := newTestClient(t)
	w := c.json(http.MethodPost, "/api/import", gin.H{"opening_ids": []uint64{1}})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	admin := &testClient{t: t, router: c.router, cookies: map[string]*http.Cookie{}}
	admin.verifyAdmin()
	italian := decode[handlers.OpeningInfo](t, admin.addVariation("Italian Game", "white", "", "1.e4 e5"))

	w = c.json(http.MethodPost, "/api/auth/signup", gin.H{"username": "hank", "password": "pw"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = c.json(http.MethodPost, "/api/auth/signup", gin.H{"username": "hank", "password": "pw"})
	require.Equal(t, http.StatusConflict, w.Code)

	me := decode[handlers.MeResponse](t, c.json(http.MethodGet, "/api/auth/me", nil))
	require.True(t, me.Authenticated)
	require.Equal(t, "hank", me.User.Username)

	// Users may not edit the public dataset, even with the admin password
	c.verifyAdmin()
	me = decode[handlers.MeResponse](t, c.json(http.MethodGet, "/api/auth/me", nil))
	require.True(t, me.AdminMode)
	w = c.json(http.MethodPut, "/api/openings/1", gin.H{"name": "Giuoco Piano"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = c.json(http.MethodPost, "/api/import", gin.H{"opening_ids": []uint64{italian.ID}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, 1, decode[handlers.ImportResponse](t, w).Imported)
	w = c.json(http.MethodPost, "/api/import", gin.H{"opening_ids": []uint64{italian.ID}})
	require.Zero(t, decode[handlers.ImportResponse](t, w).Imported)

	private := decode[[]handlers.OpeningInfo](t, c.json(http.MethodGet, "/api/openings?mode=private", nil))
	require.Len(t, private, 1)
	require.False(t, private[0].IsPublic)

	w = c.json(http.MethodPost, "/api/openings/"+jsonID(private[0].ID)+"/favorite", nil)
	require.Equal(t, http.StatusOK, w.Code)
	favorites := decode[[]handlers.OpeningInfo](t, c.json(http.MethodGet, "/api/openings?mode=private&favorites=true", nil))
	require.Len(t, favorites, 1)

	w = c.json(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	me = decode[handlers.MeResponse](t, c.json(http.MethodGet, "/api/auth/me", nil))
	require.False(t, me.Authenticated)
	w = c.json(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestImageUploadAndBackup(t *testing.T) {
	c := newTestClient(t)
	w := c.json(http.MethodGet, "/api/admin/export-backup", nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	c.verifyAdmin()
	w = c.multipart(http.MethodPost, "/api/openings", map[string][]string{
		"name":        {"Italian Game"},
		"side":        {"white"},
		"moves":       {"1.e4 e5"},
		"tutorials[]": {"https://example.com/a", "https://example.com/b"},
	}, testPNG(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	v := decode[handlers.OpeningInfo](t, w).Variations[0]
	require.NotNil(t, v.ImageFilename)
	require.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, v.Tutorials)

	w = c.json(http.MethodGet, "/api/uploads/"+*v.ImageFilename, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, testPNG(t), w.Body.Bytes())
	w = c.json(http.MethodGet, "/api/uploads/"+*v.ImageFilename+"?size=4", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	w = c.json(http.MethodGet, "/api/uploads/missing.png", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = c.json(http.MethodGet, "/api/admin/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	status := decode[handlers.StatusResponse](t, w)
	require.EqualValues(t, 1, status.Public)
	require.EqualValues(t, 1, status.Variations)
	require.Equal(t, "disk", status.Storage.Type)

	w = c.json(http.MethodGet, "/api/admin/export-backup", nil)
	require.Equal(t, http.StatusOK, w.Code)
	archive, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len()))
	require.NoError(t, err)
	names := []string{}
	for _, f := range archive.File {
		names = append(names, f.Name)
	}
	require.ElementsMatch(t, []string{"openings.db", "uploads/" + *v.ImageFilename}, names)

	// Replacing the image removes the old file
	w = c.multipart(http.MethodPut, "/api/variations/"+jsonID(v.ID), map[string][]string{
		"moves":        {"1.e4 e5"},
		"delete_image": {"true"},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.False(t, storage.GetDefaultStorage().Exists(*v.ImageFilename))
}

func jsonID(id uint64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
