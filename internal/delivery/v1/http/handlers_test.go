package http

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/reroom-ai/go-backend/internal/imaging"
	"github.com/reroom-ai/go-backend/internal/usecase"
	"github.com/reroom-ai/go-backend/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...interface{})            {}
func (nopLogger) Infof(format string, args ...interface{})             {}
func (nopLogger) Warnf(format string, args ...interface{})             {}
func (nopLogger) Errorf(err error, format string, args ...interface{}) {}

type fakeDesignUC struct {
	redesignReq *usecase.RedesignReq
	redesignRes *usecase.RedesignRes
	refineReq   *usecase.RefineReq
	refineRes   *usecase.RefineRes
	err         error
}

func (f *fakeDesignUC) Redesign(_ context.Context, req *usecase.RedesignReq) (*usecase.RedesignRes, error) {
	f.redesignReq = req
	return f.redesignRes, f.err
}

func (f *fakeDesignUC) Refine(_ context.Context, req *usecase.RefineReq) (*usecase.RefineRes, error) {
	f.refineReq = req
	return f.refineRes, f.err
}

type fakeSearchUC struct {
	req     *usecase.SearchFurnitureReq
	results []usecase.SearchResult
	err     error
}

func (f *fakeSearchUC) SearchFurniture(_ context.Context, req *usecase.SearchFurnitureReq) ([]usecase.SearchResult, error) {
	f.req = req
	return f.results, f.err
}

func newTestRouter(designUC usecase.DesignUC, searchUC usecase.SearchUC, catalogUC usecase.CatalogUC) *chi.Mux {
	mux := chi.NewRouter()
	NewRouter(mux, nopLogger{}).Init(designUC, searchUC, catalogUC)
	return mux
}

func sampleJPEG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func multipartImage(t *testing.T, fields map[string]string, imageBytes []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if imageBytes != nil {
		part, err := writer.CreateFormFile("image", "room.jpg")
		require.NoError(t, err)
		_, err = part.Write(imageBytes)
		require.NoError(t, err)
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	return &body, writer.FormDataContentType()
}

func TestRedesign_DefaultsApplied(t *testing.T) {
	design := &fakeDesignUC{
		redesignRes: usecase.NewRedesignRes("data:image/jpeg;base64,orig", "data:image/jpeg;base64,empty", "data:image/jpeg;base64,final"),
	}
	mux := newTestRouter(design, &fakeSearchUC{}, nil)

	body, contentType := multipartImage(t, nil, sampleJPEG(t))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/redesign", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, design.redesignReq)
	assert.Equal(t, "Nordic", design.redesignReq.Style)
	assert.Equal(t, "Living Room", design.redesignReq.RoomType)
	assert.False(t, design.redesignReq.EmptyFirst)

	var res redesignResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "data:image/jpeg;base64,final", res.FinalImage)
	assert.Equal(t, "data:image/jpeg;base64,empty", res.EmptyImage)
}

func TestRedesign_FormFieldsForwarded(t *testing.T) {
	design := &fakeDesignUC{redesignRes: usecase.NewRedesignRes("a", "b", "c")}
	mux := newTestRouter(design, &fakeSearchUC{}, nil)

	fields := map[string]string{
		"style":                   "Industrial",
		"room_type":               "Bedroom",
		"additional_instructions": "add plants",
		"empty_then_generate":     "Yes",
	}
	body, contentType := multipartImage(t, fields, sampleJPEG(t))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/redesign", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, design.redesignReq)
	assert.Equal(t, "Industrial", design.redesignReq.Style)
	assert.Equal(t, "Bedroom", design.redesignReq.RoomType)
	assert.Equal(t, "add plants", design.redesignReq.AdditionalInstructions)
	assert.True(t, design.redesignReq.EmptyFirst)
}

func TestRedesign_RejectsNonMultipart(t *testing.T) {
	design := &fakeDesignUC{}
	mux := newTestRouter(design, &fakeSearchUC{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/redesign", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, design.redesignReq)
}

func TestRedesign_MissingFile(t *testing.T) {
	design := &fakeDesignUC{}
	mux := newTestRouter(design, &fakeSearchUC{}, nil)

	body, contentType := multipartImage(t, map[string]string{"style": "Nordic"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/redesign", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var res ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, e.ErrNoFile.Error(), res.Message)
}

func TestRefine_Success(t *testing.T) {
	design := &fakeDesignUC{refineRes: &usecase.RefineRes{RefinedImage: "data:image/jpeg;base64,ref"}}
	mux := newTestRouter(design, &fakeSearchUC{}, nil)

	payload, err := json.Marshal(refineRequest{
		ImageData: imaging.DataURI(sampleJPEG(t)),
		Prompt:    "make the sofa green",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/refine", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, design.refineReq)
	assert.Equal(t, "make the sofa green", design.refineReq.Prompt)
	assert.NotEmpty(t, design.refineReq.ImageData)

	var res refineResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "data:image/jpeg;base64,ref", res.RefinedImage)
}

func TestRefine_MissingImageData(t *testing.T) {
	design := &fakeDesignUC{}
	mux := newTestRouter(design, &fakeSearchUC{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/refine", strings.NewReader(`{"prompt":"x"}`))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, design.refineReq)

	var res ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, e.ErrMissingImageData.Error(), res.Message)
}

func TestRefine_InvalidJSON(t *testing.T) {
	mux := newTestRouter(&fakeDesignUC{}, &fakeSearchUC{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/refine", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchFurniture_Success(t *testing.T) {
	search := &fakeSearchUC{results: []usecase.SearchResult{
		{Score: 0.92, Title: "Oak Chair", Price: "$59.99", Source: "ikea", ImageURL: "http://img", SearchQuery: "Oak Chair ikea"},
	}}
	mux := newTestRouter(&fakeDesignUC{}, search, nil)

	payload, err := json.Marshal(searchFurnitureRequest{
		ImageData: imaging.DataURI(sampleJPEG(t)),
		Box:       cropBoxRequest{X: 1, Y: 2, Width: 3, Height: 4},
		TopK:      7,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search-furniture", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, search.req)
	assert.Equal(t, 1, search.req.Box.X)
	assert.Equal(t, 4, search.req.Box.Height)
	assert.Equal(t, uint64(7), search.req.TopK)

	var res searchFurnitureResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Results, 1)
	assert.Equal(t, "Oak Chair", res.Results[0].Title)
	assert.Equal(t, "$59.99", res.Results[0].Price)
	assert.Equal(t, "Oak Chair ikea", res.Results[0].SearchQuery)
}

func TestSearchFurniture_EmptyResultsIsArray(t *testing.T) {
	search := &fakeSearchUC{results: []usecase.SearchResult{}}
	mux := newTestRouter(&fakeDesignUC{}, search, nil)

	payload, err := json.Marshal(searchFurnitureRequest{
		ImageData: imaging.DataURI(sampleJPEG(t)),
		Box:       cropBoxRequest{Width: 3, Height: 4},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search-furniture", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"results":[]`)
}

func TestSearchFurniture_Unavailable(t *testing.T) {
	search := &fakeSearchUC{err: e.Wrap("SearchUseCase.SearchFurniture", e.ErrSearchUnavailable)}
	mux := newTestRouter(&fakeDesignUC{}, search, nil)

	payload, err := json.Marshal(searchFurnitureRequest{
		ImageData: imaging.DataURI(sampleJPEG(t)),
		Box:       cropBoxRequest{Width: 3, Height: 4},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search-furniture", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCatalog_DisabledResponds503(t *testing.T) {
	mux := newTestRouter(&fakeDesignUC{}, &fakeSearchUC{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/items/?ids=1,2", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	body, contentType := multipartImage(t, map[string]string{"title": "Chair"}, sampleJPEG(t))
	req = httptest.NewRequest(http.MethodPost, "/api/v1/catalog/items/", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
