package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"

	"github.com/hayatfoundation/site/internal/database/content"
	"github.com/hayatfoundation/site/internal/entities"
	"github.com/hayatfoundation/site/internal/media"
)

// ThumbnailGenerator renders a thumbnail for a stored image key.
type ThumbnailGenerator interface {
	Generate(ctx context.Context, key string) (*media.Result, error)
}

// ThumbnailSetter records the generated thumbnail on the image row.
type ThumbnailSetter interface {
	SetThumbnail(ctx context.Context, imageID uint, url string, width, height int) error
}

// GenerateThumbnailTask builds the thumbnail for an uploaded gallery image.
type GenerateThumbnailTask struct {
	ImageID uint   `json:"image_id"`
	Key     string `json:"key"`
}

func (t GenerateThumbnailTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "generate_thumbnail",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// GenerateThumbnailProcessor renders the thumbnail and stores its URL and
// the original dimensions on the image.
func GenerateThumbnailProcessor(gen ThumbnailGenerator, images ThumbnailSetter) backlite.QueueProcessor[GenerateThumbnailTask] {
	return func(ctx context.Context, task GenerateThumbnailTask) error {
		if gen == nil || images == nil {
			return fmt.Errorf("thumbnailer not configured")
		}

		res, err := gen.Generate(ctx, task.Key)
		if err != nil {
			return fmt.Errorf("thumbnail for image %d: %w", task.ImageID, err)
		}
		if err := images.SetThumbnail(ctx, task.ImageID, res.ThumbnailURL, res.Width, res.Height); err != nil {
			return fmt.Errorf("store thumbnail for image %d: %w", task.ImageID, err)
		}

		log.Debug().Uint("image_id", task.ImageID).Str("thumbnail", res.ThumbnailKey).Msg("generated thumbnail")
		return nil
	}
}

func NewGenerateThumbnailQueue(gen ThumbnailGenerator, images ThumbnailSetter) backlite.Queue {
	return backlite.NewQueue(GenerateThumbnailProcessor(gen, images))
}

// ImageThumbnails adapts the image content repository to ThumbnailSetter.
func ImageThumbnails(repo *content.Repository[entities.Image]) ThumbnailSetter {
	return imageThumbnails{repo: repo}
}

type imageThumbnails struct {
	repo *content.Repository[entities.Image]
}

func (s imageThumbnails) SetThumbnail(ctx context.Context, imageID uint, url string, width, height int) error {
	_, err := s.repo.Update(ctx, imageID, map[string]any{
		"thumbnail_url": url,
		"width":         width,
		"height":        height,
	})
	return err
}
