package foodscan

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/ycfeng/slimhub/internal/ai"
	"github.com/ycfeng/slimhub/internal/blob"
	"github.com/ycfeng/slimhub/internal/config"
	"github.com/ycfeng/slimhub/internal/imagegen"
)

var (
	ErrImageTooLarge   = errors.New("image exceeds size limit")
	ErrUnsupportedMime = errors.New("unsupported image type")
	ErrEmptyInput      = errors.New("empty recognition input")
)

// RecognizedFood — результат распознавания с картинкой для ленты
type RecognizedFood struct {
	FoodName string `json:"food_name"`
	Calories int    `json:"calories"`
	Amount   string `json:"amount,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// Service recognizes food from photos and text descriptions.
type Service struct {
	cfg       *config.Config
	provider  ai.Provider
	vision    VisionClient
	images    imagegen.Client
	blobStore blob.Store
}

func NewService(cfg *config.Config, provider ai.Provider, vision VisionClient, images imagegen.Client, blobStore blob.Store) *Service {
	return &Service{
		cfg:       cfg,
		provider:  provider,
		vision:    vision,
		images:    images,
		blobStore: blobStore,
	}
}

// photoURLTTLSeconds bounds presigned photo links. Local mode ignores it.
const photoURLTTLSeconds = 7 * 24 * 3600

// RecognizeImage validates the upload, stores it and asks the vision
// model what is on it. Validation runs before any network call. The
// result carries a link to the stored photo so the journal entry can
// show it later.
func (s *Service) RecognizeImage(ctx context.Context, userID string, imageData []byte) (*RecognizedFood, error) {
	if len(imageData) == 0 {
		return nil, ErrEmptyInput
	}

	maxBytes := int64(s.cfg.UploadMaxMB) * 1024 * 1024
	if int64(len(imageData)) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d MB", ErrImageTooLarge, len(imageData), s.cfg.UploadMaxMB)
	}

	// Trust the bytes, not the declared header.
	mimeType := http.DetectContentType(imageData)
	if !s.mimeAllowed(mimeType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMime, mimeType)
	}

	// Keep the original photo. Recognition still proceeds when the
	// blob write fails: the photo is auxiliary.
	var imageURL string
	if s.blobStore != nil {
		key := fmt.Sprintf("food/%s/%s%s", userID, uuid.NewString(), extensionFor(mimeType))
		if _, err := s.blobStore.PutObject(ctx, key, imageData, mimeType); err != nil {
			log.Printf("WARN foodscan: photo upload failed: %v", err)
		} else if url, err := s.blobStore.PresignGet(ctx, key, photoURLTTLSeconds); err != nil {
			log.Printf("WARN foodscan: photo link for %s failed: %v", key, err)
		} else {
			imageURL = url
		}
	}

	estimate, err := s.vision.RecognizeFoodImage(ctx, imageData, mimeType)
	if err != nil {
		return nil, err
	}

	return &RecognizedFood{
		FoodName: estimate.FoodName,
		Calories: estimate.Calories.Int(),
		Amount:   estimate.Amount,
		ImageURL: imageURL,
	}, nil
}

// RecognizeText estimates calories for a meal description and enriches
// the result with a generated dish image. Image failure is tolerated.
func (s *Service) RecognizeText(ctx context.Context, description string) (*RecognizedFood, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyInput
	}

	estimate, err := s.provider.RecognizeFoodText(ctx, description)
	if err != nil {
		return nil, err
	}

	result := &RecognizedFood{
		FoodName: estimate.FoodName,
		Calories: estimate.Calories.Int(),
		Amount:   estimate.Amount,
	}

	imageURL, err := s.images.GenerateFoodImage(ctx, estimate.FoodName)
	if err != nil {
		log.Printf("WARN foodscan: image generation failed for %q: %v", estimate.FoodName, err)
		return result, nil
	}
	result.ImageURL = imageURL

	return result, nil
}

func (s *Service) mimeAllowed(mimeType string) bool {
	for _, allowed := range strings.Split(s.cfg.UploadAllowedMime, ",") {
		if strings.TrimSpace(allowed) == mimeType {
			return true
		}
	}
	return false
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
