package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/util"

	"gorm.io/gorm"
)

// ffmpeg seams, swappable in tests where the binary is unavailable.
var (
	probeAudio   = util.GetAudioInfo
	transcodeMP3 = util.TranscodeToMP3
)

type WordService struct {
	WordRepo *repository.WordRepository
	Storage  StorageProvider
}

func NewWordService(wordRepo *repository.WordRepository, storage StorageProvider) *WordService {
	return &WordService{
		WordRepo: wordRepo,
		Storage:  storage,
	}
}

type WordInput struct {
	Content       string         `json:"content" binding:"required"`
	Meaning       string         `json:"meaning"`
	WordType      model.WordType `json:"wordType"`
	Transcription string         `json:"transcription"`
}

func (s *WordService) Create(input WordInput) (*model.Word, error) {
	word := &model.Word{
		Content:       input.Content,
		Meaning:       input.Meaning,
		WordType:      input.WordType,
		Transcription: input.Transcription,
	}
	if err := s.WordRepo.Create(word); err != nil {
		return nil, err
	}
	return word, nil
}

func (s *WordService) Update(id uint, input WordInput) (*model.Word, error) {
	word, err := s.WordRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrWordNotFound
		}
		return nil, err
	}

	word.Content = input.Content
	word.Meaning = input.Meaning
	word.WordType = input.WordType
	word.Transcription = input.Transcription
	if err := s.WordRepo.Update(word); err != nil {
		return nil, err
	}
	return word, nil
}

func (s *WordService) Delete(id uint) error {
	if _, err := s.WordRepo.FindByID(id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrWordNotFound
		}
		return err
	}
	return s.WordRepo.Delete(id)
}

func (s *WordService) Get(id uint) (*model.Word, error) {
	word, err := s.WordRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrWordNotFound
		}
		return nil, err
	}
	return word, nil
}

func (s *WordService) List(search, timeFilter string, page, limit int) ([]model.Word, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.WordRepo.List(search, timeFilter, page, limit)
}

// UploadPronunciation accepts an audio clip, normalizes it to mp3 and stores
// it under the word. The upload lands in a temp file first because ffmpeg
// needs a path, not a stream.
func (s *WordService) UploadPronunciation(ctx context.Context, wordID uint, file *multipart.FileHeader) (string, error) {
	word, err := s.WordRepo.FindByID(wordID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", util.ErrWordNotFound
		}
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeAudio, util.MimeOctetStream})
	if err != nil {
		return "", err
	}
	if !util.IsAudio(mimeType) {
		return "", fmt.Errorf("invalid audio type: %s", mimeType)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	tmpIn, err := os.CreateTemp("", "pronunciation-*"+filepath.Ext(file.Filename))
	if err != nil {
		return "", err
	}
	defer os.Remove(tmpIn.Name())

	if _, err := io.Copy(tmpIn, src); err != nil {
		tmpIn.Close()
		return "", err
	}
	tmpIn.Close()

	// Reject clips ffmpeg cannot decode or that carry no audio at all.
	info, err := probeAudio(tmpIn.Name())
	if err != nil {
		return "", err
	}
	if info.Duration <= 0 {
		return "", fmt.Errorf("audio clip is empty")
	}

	tmpOut := tmpIn.Name() + ".mp3"
	defer os.Remove(tmpOut)
	if err := transcodeMP3(tmpIn.Name(), tmpOut); err != nil {
		return "", fmt.Errorf("failed to transcode audio: %w", err)
	}

	filename := fmt.Sprintf("words/%d/pronunciation.mp3", wordID)
	url, err := s.Storage.UploadFile(ctx, filename, tmpOut, "audio/mpeg")
	if err != nil {
		return "", err
	}

	word.PronunciationURL = url
	if err := s.WordRepo.Update(word); err != nil {
		return "", err
	}
	return url, nil
}
