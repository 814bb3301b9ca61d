package http

import (
	"net/http"
	"testing"

	"github.com/reroom-ai/go-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBoolFlag(t *testing.T) {
	for _, value := range []string{"true", "TRUE", "True", "1", "yes", "YES", " yes "} {
		assert.True(t, parseBoolFlag(value), value)
	}

	for _, value := range []string{"", "false", "0", "no", "on", "y", "da"} {
		assert.False(t, parseBoolFlag(value), value)
	}
}

func TestParsePriceToCents(t *testing.T) {
	cents, err := parsePriceToCents("599.99")
	require.NoError(t, err)
	assert.Equal(t, int64(59999), cents)

	cents, err = parsePriceToCents("600")
	require.NoError(t, err)
	assert.Equal(t, int64(60000), cents)

	_, err = parsePriceToCents("")
	assert.Error(t, err)

	_, err = parsePriceToCents("-10")
	assert.ErrorIs(t, err, e.ErrInvalidPrice)

	_, err = parsePriceToCents("10.123")
	assert.ErrorIs(t, err, e.ErrPricePrecision)

	_, err = parsePriceToCents("abc")
	assert.ErrorIs(t, err, e.ErrInvalidPrice)
}

func TestToHTTPResponse(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{e.ErrEmptyFile, http.StatusBadRequest},
		{e.ErrUnsupportedMediaType, http.StatusBadRequest},
		{e.ErrMissingPrompt, http.StatusBadRequest},
		{e.ErrCropNotPositive, http.StatusBadRequest},
		{e.ErrSearchUnavailable, http.StatusServiceUnavailable},
		{e.ErrCatalogUnavailable, http.StatusServiceUnavailable},
		{e.ErrEmptyRoomFailed, http.StatusInternalServerError},
		{e.ErrDesignFailed, http.StatusInternalServerError},
		{e.ErrRefineFailed, http.StatusInternalServerError},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		code, msg := ToHTTPResponse(tc.err)
		assert.Equal(t, tc.code, code, tc.err.Error())
		assert.NotEmpty(t, msg)
	}

	// Обёрнутая ошибка распознаётся через errors.Is
	code, msg := ToHTTPResponse(e.Wrap("SearchUseCase.SearchFurniture", e.ErrSearchUnavailable))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, e.ErrSearchUnavailable.Error(), msg)

	// Внутренние детали не утекают наружу
	code, msg = ToHTTPResponse(e.Wrap("secret internal detail", assert.AnError))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.NotContains(t, msg, "secret")
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs("1,2, 3")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	_, err = parseIDs("")
	assert.ErrorIs(t, err, e.ErrNoIDs)

	_, err = parseIDs("1,abc")
	assert.ErrorIs(t, err, e.ErrStatusBadRequest)
}
