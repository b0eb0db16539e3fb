package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	uploads []string
}

func (f *fakeStorage) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	f.uploads = append(f.uploads, filename)
	return "/uploads/" + filename, nil
}

func (f *fakeStorage) UploadFile(ctx context.Context, filename, localPath, contentType string) (string, error) {
	f.uploads = append(f.uploads, filename)
	return "/uploads/" + filename, nil
}

func (f *fakeStorage) Delete(ctx context.Context, filename string) error { return nil }

func (f *fakeStorage) GetURL(filename string) string { return "/uploads/" + filename }

// stubFfmpeg replaces the probe and transcode seams so the suite does not
// need the ffmpeg binary.
func stubFfmpeg(t *testing.T, duration float64) {
	t.Helper()
	origProbe, origTranscode := probeAudio, transcodeMP3
	probeAudio = func(path string) (*util.AudioInfo, error) {
		return &util.AudioInfo{Duration: duration, Format: "wav", Size: 64}, nil
	}
	transcodeMP3 = func(in, out string) error { return nil }
	t.Cleanup(func() { probeAudio, transcodeMP3 = origProbe, origTranscode })
}

// audioUpload builds a multipart file header carrying a minimal WAV payload,
// which the MIME sniffer recognizes as audio.
func audioUpload(t *testing.T) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "clip.wav")
	require.NoError(t, err)
	payload := append([]byte("RIFF\x24\x00\x00\x00WAVEfmt "), make([]byte, 32)...)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func newWordService(t *testing.T) (*WordService, *fakeStorage, model.Word) {
	t.Helper()
	db := newTestDB(t)
	word := model.Word{Content: "greeting", Meaning: "a word of welcome", WordType: model.WordNoun}
	require.NoError(t, db.Create(&word).Error)

	storage := &fakeStorage{}
	return NewWordService(repository.NewWordRepository(db), storage), storage, word
}

func TestUploadPronunciationStoresNormalizedClip(t *testing.T) {
	svc, storage, word := newWordService(t)
	stubFfmpeg(t, 1.5)

	url, err := svc.UploadPronunciation(context.Background(), word.ID, audioUpload(t))
	require.NoError(t, err)
	assert.Contains(t, url, "pronunciation.mp3")
	require.Len(t, storage.uploads, 1)

	stored, err := svc.Get(word.ID)
	require.NoError(t, err)
	assert.Equal(t, url, stored.PronunciationURL)
}

func TestUploadPronunciationRejectsEmptyClip(t *testing.T) {
	svc, storage, word := newWordService(t)
	stubFfmpeg(t, 0)

	_, err := svc.UploadPronunciation(context.Background(), word.ID, audioUpload(t))
	require.Error(t, err)
	assert.Empty(t, storage.uploads)

	stored, err := svc.Get(word.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.PronunciationURL)
}

func TestUploadPronunciationMissingWord(t *testing.T) {
	svc, _, _ := newWordService(t)
	stubFfmpeg(t, 1.5)

	_, err := svc.UploadPronunciation(context.Background(), 424242, audioUpload(t))
	assert.ErrorIs(t, err, util.ErrWordNotFound)
}
