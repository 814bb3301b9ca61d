package usecase

import (
	"context"
	"image"
	"testing"

	"github.com/reroom-ai/go-backend/internal/domain"
	"github.com/reroom-ai/go-backend/internal/imaging"
	"github.com/reroom-ai/go-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nopLogger — заглушка логгера для тестов.
type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)          {}
func (nopLogger) Infof(format string, args ...any)           {}
func (nopLogger) Warnf(format string, args ...any)           {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

// fakeGenerator возвращает заранее заданные результаты по порядку вызовов
// и записывает полученные промпты.
type fakeGenerator struct {
	outputs []generation
	calls   int
	prompts []string
	inputs  [][]byte
}

type generation struct {
	data []byte
	ok   bool
}

func (f *fakeGenerator) Generate(ctx context.Context, imageBytes []byte, prompt string) ([]byte, bool) {
	f.prompts = append(f.prompts, prompt)
	f.inputs = append(f.inputs, imageBytes)

	if f.calls >= len(f.outputs) {
		return nil, false
	}
	out := f.outputs[f.calls]
	f.calls++
	return out.data, out.ok
}

// fakeClip — управляемая заглушка клиента векторизации.
type fakeClip struct {
	vector     []float32
	err        error
	warmCalls  int
	warmForced bool
}

func (f *fakeClip) GetEmbedding(ctx context.Context, imageJPEG []byte) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func (f *fakeClip) WarmAsync(force bool) bool {
	f.warmCalls++
	f.warmForced = force
	return true
}

func testUpload(t *testing.T) ImageUpload {
	t.Helper()

	data, err := imaging.EncodeJPEG(image.NewRGBA(image.Rect(0, 0, 8, 8)))
	require.NoError(t, err)

	return *NewImageUpload(data, "image/jpeg", int64(len(data)), "room.jpg")
}

func TestRedesign_SingleStep(t *testing.T) {
	gen := &fakeGenerator{outputs: []generation{{data: []byte("final-image"), ok: true}}}
	uc := NewDesignUC(gen, nil, nopLogger{})

	upload := testUpload(t)
	res, err := uc.Redesign(context.Background(), NewRedesignReq(upload, "Modern", "Bedroom", "", false))
	require.NoError(t, err)

	// Ровно один вызов генерации, промпт содержит стиль и тип комнаты
	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, gen.prompts[0], "Modern")
	assert.Contains(t, gen.prompts[0], "Bedroom")

	// "До" в одношаговом режиме — сам оригинал
	assert.Equal(t, imaging.DataURI(upload.Data), res.OriginalImage)
	assert.Equal(t, res.OriginalImage, res.EmptyImage)
	assert.Equal(t, imaging.DataURI([]byte("final-image")), res.FinalImage)
}

func TestRedesign_EmptyThenGenerate(t *testing.T) {
	emptyRoom := []byte("empty-room")
	gen := &fakeGenerator{outputs: []generation{
		{data: emptyRoom, ok: true},
		{data: []byte("furnished"), ok: true},
	}}
	uc := NewDesignUC(gen, nil, nopLogger{})

	upload := testUpload(t)
	res, err := uc.Redesign(context.Background(), NewRedesignReq(upload, "Nordic", "Living Room", "", true))
	require.NoError(t, err)

	require.Equal(t, 2, gen.calls)
	// Второй вызов обставляет уже очищенную комнату, а не оригинал
	assert.Equal(t, emptyRoom, gen.inputs[1])

	assert.Equal(t, imaging.DataURI(upload.Data), res.OriginalImage)
	assert.Equal(t, imaging.DataURI(emptyRoom), res.EmptyImage)
	assert.NotEqual(t, res.OriginalImage, res.EmptyImage)
}

func TestRedesign_EmptyStepFailureIsTerminal(t *testing.T) {
	gen := &fakeGenerator{outputs: []generation{{ok: false}}}
	uc := NewDesignUC(gen, nil, nopLogger{})

	_, err := uc.Redesign(context.Background(), NewRedesignReq(testUpload(t), "Nordic", "Living Room", "", true))
	assert.ErrorIs(t, err, e.ErrEmptyRoomFailed)
	// После провала первого шага второй не выполняется
	assert.Equal(t, 1, len(gen.prompts))
}

func TestRedesign_FurnishStepFailure(t *testing.T) {
	gen := &fakeGenerator{outputs: []generation{
		{data: []byte("empty-room"), ok: true},
		{ok: false},
	}}
	uc := NewDesignUC(gen, nil, nopLogger{})

	_, err := uc.Redesign(context.Background(), NewRedesignReq(testUpload(t), "Nordic", "Living Room", "", true))
	assert.ErrorIs(t, err, e.ErrDesignFailed)
}

func TestRedesign_RejectsBadUploads(t *testing.T) {
	gen := &fakeGenerator{}
	uc := NewDesignUC(gen, nil, nopLogger{})

	empty := *NewImageUpload(nil, "image/jpeg", 0, "empty.jpg")
	_, err := uc.Redesign(context.Background(), NewRedesignReq(empty, "Nordic", "Living Room", "", false))
	assert.ErrorIs(t, err, e.ErrEmptyFile)

	gif := *NewImageUpload([]byte("GIF87a"), "image/gif", 6, "anim.gif")
	_, err = uc.Redesign(context.Background(), NewRedesignReq(gif, "Nordic", "Living Room", "", false))
	assert.ErrorIs(t, err, e.ErrUnsupportedMediaType)

	// Ни одна валидационная ошибка не доходит до модели
	assert.Zero(t, gen.calls)
}

func TestRedesign_WarmsSearchEndpoint(t *testing.T) {
	clip := &fakeClip{}
	gen := &fakeGenerator{outputs: []generation{{data: []byte("x"), ok: true}}}
	uc := NewDesignUC(gen, clip, nopLogger{})

	_, err := uc.Redesign(context.Background(), NewRedesignReq(testUpload(t), "Nordic", "Living Room", "", false))
	require.NoError(t, err)

	assert.Equal(t, 1, clip.warmCalls)
	assert.False(t, clip.warmForced)
}

func TestRefine_WarmsSearchEndpoint(t *testing.T) {
	clip := &fakeClip{}
	gen := &fakeGenerator{outputs: []generation{{data: []byte("refined"), ok: true}}}
	uc := NewDesignUC(gen, clip, nopLogger{})

	_, err := uc.Refine(context.Background(), NewRefineReq([]byte("source"), "brighter lighting"))
	require.NoError(t, err)

	assert.Equal(t, 1, clip.warmCalls)
	assert.False(t, clip.warmForced)
}

func TestRefine(t *testing.T) {
	gen := &fakeGenerator{outputs: []generation{{data: []byte("refined"), ok: true}}}
	uc := NewDesignUC(gen, nil, nopLogger{})

	res, err := uc.Refine(context.Background(), NewRefineReq([]byte("source"), "make the sofa green"))
	require.NoError(t, err)

	assert.Equal(t, imaging.DataURI([]byte("refined")), res.RefinedImage)
	assert.Contains(t, gen.prompts[0], "make the sofa green")
}

func TestRefine_Validation(t *testing.T) {
	gen := &fakeGenerator{}
	uc := NewDesignUC(gen, nil, nopLogger{})

	_, err := uc.Refine(context.Background(), NewRefineReq(nil, "prompt"))
	assert.ErrorIs(t, err, e.ErrMissingImageData)

	_, err = uc.Refine(context.Background(), NewRefineReq([]byte("img"), "   \t\n"))
	assert.ErrorIs(t, err, e.ErrMissingPrompt)

	assert.Zero(t, gen.calls)
}

func TestRefine_GenerationFailure(t *testing.T) {
	gen := &fakeGenerator{outputs: []generation{{ok: false}}}
	uc := NewDesignUC(gen, nil, nopLogger{})

	_, err := uc.Refine(context.Background(), NewRefineReq([]byte("img"), "prompt"))
	assert.ErrorIs(t, err, e.ErrRefineFailed)
}

func TestPrompts(t *testing.T) {
	assert.Contains(t, EmptyRoomPrompt(), "Remove all furniture")

	withExtras := DesignPrompt("Modern", "Bedroom", "add a piano")
	assert.Contains(t, withExtras, "Modern Bedroom")
	assert.Contains(t, withExtras, "add a piano")
	assert.Contains(t, withExtras, "Photorealistic.")

	noExtras := DesignPrompt("Nordic", "Living Room", "  ")
	assert.NotContains(t, noExtras, "  .")
	assert.Contains(t, noExtras, "Photorealistic.")
}

func TestNormalizeVector(t *testing.T) {
	normalized := domain.NormalizeVector([]float32{3, 4})
	assert.InDelta(t, 0.6, normalized[0], 1e-4)
	assert.InDelta(t, 0.8, normalized[1], 1e-4)

	// Нулевой вектор не приводит к делению на ноль
	zeros := domain.NormalizeVector([]float32{0, 0, 0})
	for _, v := range zeros {
		assert.False(t, v != v, "NaN in normalized vector") // NaN != NaN
	}
}

// Проверка, что реализация полностью закрывает контракт DesignUC.
var _ DesignUC = (*DesignUseCase)(nil)
